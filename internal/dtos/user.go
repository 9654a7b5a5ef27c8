// File: internal/dtos/user.go
package dtos

import "github.com/iyunix/go-saber/internal/domain"

// UserResponseDTO defines what fields to expose in user API responses.
type UserResponseDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func ToUserResponse(u *domain.User) UserResponseDTO {
	return UserResponseDTO{ID: u.ID, Name: u.Name, Email: u.Email}
}

// RegisterRequestDTO represents the expected payload to create a new user.
type RegisterRequestDTO struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type RegisterResponseDTO struct {
	Message string          `json:"message"`
	User    UserResponseDTO `json:"user"`
}

// LoginRequestDTO represents the login payload.
type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponseDTO struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    UserResponseDTO `json:"user"`
}
