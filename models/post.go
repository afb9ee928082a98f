package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PostCreateRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Title  string    `json:"title" binding:"required,min=3,max=100"`
	Body   string    `json:"body" binding:"required,min=20,max=1000"`
}

type PostPatch struct {
	UserID *uuid.UUID `json:"user_id"`
	Title  *string    `json:"title" binding:"omitempty,min=3,max=100"`
	Body   *string    `json:"body" binding:"omitempty,min=20,max=1000"`
}
