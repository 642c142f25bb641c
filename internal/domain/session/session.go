package session

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// Session is the bearer token and active planet of a logged-in commander
type Session struct {
	Username  string
	Token     string
	PlanetID  shared.PlanetID
	CreatedAt time.Time
}

// NewSession validates credentials returned by the auth endpoints
func NewSession(username, token, planetID string, createdAt time.Time) (*Session, error) {
	if token == "" {
		return nil, shared.NewValidationError("token", "cannot be empty")
	}
	id, err := shared.NewPlanetID(planetID)
	if err != nil {
		return nil, fmt.Errorf("invalid session planet: %w", err)
	}
	return &Session{
		Username:  username,
		Token:     token,
		PlanetID:  id,
		CreatedAt: createdAt,
	}, nil
}

// Valid reports whether both token and planet id are present
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && !s.PlanetID.IsZero()
}

// Credentials are what the login form collects
type Credentials struct {
	Username string `validate:"required,min=1,max=64"`
	Password string `validate:"required,min=1"`
}

// Repository is the durable store behind the session. At most one session is held.
type Repository interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}
