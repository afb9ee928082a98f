package models

import (
	"time"

	"github.com/google/uuid"
)

// Product prices are integer minor units.
type Product struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Price       int64      `json:"price"`
	Description string     `json:"description"`
	CategoryID  *uuid.UUID `json:"category_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ProductCreateRequest struct {
	Name         string  `json:"name" binding:"required,max=200"`
	Price        int64   `json:"price" binding:"required,min=0"`
	Description  string  `json:"description" binding:"required"`
	CategoryName *string `json:"category_name"`
}

type ProductPatch struct {
	Name         *string `json:"name" binding:"omitempty,max=200"`
	Price        *int64  `json:"price" binding:"omitempty,min=0"`
	Description  *string `json:"description"`
	CategoryName *string `json:"category_name"`
}
