package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id"`
	FirstName      *string   `json:"first_name"`
	SecondName     *string   `json:"second_name"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	IsVerified     bool      `json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Posts          []Post    `json:"posts,omitempty"`
}

type RegisterRequest struct {
	FirstName  *string `json:"first_name"`
	SecondName *string `json:"second_name"`
	Username   string  `json:"username" binding:"required,min=3,max=16"`
	Email      string  `json:"email" binding:"required,email"`
	Password   string  `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserUpdateRequest struct {
	FirstName  *string `json:"first_name"`
	SecondName *string `json:"second_name"`
	Username   string  `json:"username" binding:"required,min=3,max=16"`
	Email      string  `json:"email" binding:"required,email"`
}

type UserPatch struct {
	FirstName  *string `json:"first_name"`
	SecondName *string `json:"second_name"`
	Username   *string `json:"username" binding:"omitempty,min=3,max=16"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Password   *string `json:"password" binding:"omitempty,min=8"`
}
