package dto

import (
	"github.com/teamboard/teamboard-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64            `json:"id"`
	Email       string            `json:"email"`
	DisplayName string            `json:"display_name"`
	Initials    string            `json:"initials"`
	RoleLabel   string            `json:"role_label"`
	Status      models.UserStatus `json:"status"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Initials:    user.Initials,
		RoleLabel:   user.RoleLabel,
		Status:      user.Status,
	}
}
