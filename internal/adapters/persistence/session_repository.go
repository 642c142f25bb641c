package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/session"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

// GormSessionRepository implements session.Repository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GORM session repository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// Load returns the stored session, or nil when nobody is logged in.
// A row that no longer validates is treated as absent.
func (r *GormSessionRepository) Load(ctx context.Context) (*session.Session, error) {
	var model SessionModel
	result := r.db.WithContext(ctx).Where("id = ?", sessionRowID).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", result.Error)
	}

	s, err := r.modelToSession(&model)
	if err != nil {
		return nil, nil
	}
	return s, nil
}

// Save replaces the stored session
func (r *GormSessionRepository) Save(ctx context.Context, s *session.Session) error {
	if !s.Valid() {
		return shared.NewValidationError("session", "token and planet id are required")
	}

	// Upsert: create or update
	result := r.db.WithContext(ctx).Save(r.sessionToModel(s))
	if result.Error != nil {
		return fmt.Errorf("failed to save session: %w", result.Error)
	}

	return nil
}

// Clear removes the stored session; clearing an empty store is not an error
func (r *GormSessionRepository) Clear(ctx context.Context) error {
	result := r.db.WithContext(ctx).Where("id = ?", sessionRowID).Delete(&SessionModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to clear session: %w", result.Error)
	}

	return nil
}

func (r *GormSessionRepository) modelToSession(model *SessionModel) (*session.Session, error) {
	return session.NewSession(model.Username, model.Token, model.PlanetID, model.CreatedAt)
}

func (r *GormSessionRepository) sessionToModel(s *session.Session) *SessionModel {
	return &SessionModel{
		ID:        sessionRowID,
		Username:  s.Username,
		Token:     s.Token,
		PlanetID:  s.PlanetID.Value(),
		CreatedAt: s.CreatedAt,
	}
}
