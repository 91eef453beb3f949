package dto

import (
	"time"

	"stayhub/internal/domain/user"
)

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	FirstName string    `json:"first_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func MapUser(u *user.User) User {
	if u == nil {
		return User{}
	}
	return User{
		ID:        string(u.ID),
		Username:  u.Username,
		FirstName: u.FirstName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
