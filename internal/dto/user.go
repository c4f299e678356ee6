package dto

import (
	"time"

	"github.com/yukikurage/forum-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToUserDTO converts a User model to UserDTO.
// The email is only included when the viewer is the user themselves.
func ToUserDTO(user models.User, viewerID uint64) UserDTO {
	dto := UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}
	if viewerID != 0 && viewerID == user.ID {
		dto.Email = user.Email
	}
	return dto
}
