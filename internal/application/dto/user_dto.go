package dto

import "time"

// UserResponse salida de un usuario.
type UserResponse struct {
	ID         string    `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username,omitempty"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// LoginRequest entrada para obtener un token de la API de administración.
type LoginRequest struct {
	TelegramID int64  `json:"telegram_id" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // segundos
	User      UserResponse `json:"user"`
}

// AddAdminRequest alta de administrador por el owner.
type AddAdminRequest struct {
	TelegramID int64 `json:"telegram_id" validate:"required"`
}
