package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `json:"id"`
	Auth0ID    string    `json:"-"`
	Email      string    `json:"email"`
	Name       *string   `json:"name,omitempty"`
	PictureURL *string   `json:"pictureUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByAuth0ID(ctx context.Context, auth0ID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	CreateOrGetByAuth0ID(ctx context.Context, auth0ID, email string, name, pictureURL *string) (*User, error)
}
