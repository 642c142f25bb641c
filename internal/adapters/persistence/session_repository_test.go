package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/spaceconquest-go/internal/adapters/persistence"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/session"
	"github.com/andrescamacho/spaceconquest-go/test/helpers"
)

const testPlanetID = "7b3c1c1e-8f1a-4a57-9d0e-0c2f0f7e9a11"

func TestSessionRepository_SaveAndLoad(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSessionRepository(db)
	created := time.Date(2026, 1, 9, 22, 0, 0, 0, time.UTC)
	s, err := session.NewSession("duncan", "token-123", testPlanetID, created)
	require.NoError(t, err)

	// Act
	err = repo.Save(context.Background(), s)

	// Assert
	require.NoError(t, err)

	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "duncan", loaded.Username)
	assert.Equal(t, "token-123", loaded.Token)
	assert.Equal(t, testPlanetID, loaded.PlanetID.Value())
	assert.True(t, created.Equal(loaded.CreatedAt))
}

func TestSessionRepository_EmptyStoreLoadsNil(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSessionRepository(db)

	// Act
	loaded, err := repo.Load(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionRepository_SaveReplacesPrevious(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSessionRepository(db)
	first, _ := session.NewSession("duncan", "old", testPlanetID, time.Now())
	second, _ := session.NewSession("jessica", "new", "2d4b9a0e-0000-4000-8000-000000000001", time.Now())

	// Act
	require.NoError(t, repo.Save(context.Background(), first))
	require.NoError(t, repo.Save(context.Background(), second))

	// Assert
	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new", loaded.Token)
	assert.Equal(t, "jessica", loaded.Username)

	var rows int64
	db.Model(&persistence.SessionModel{}).Count(&rows)
	assert.Equal(t, int64(1), rows)
}

func TestSessionRepository_Clear(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSessionRepository(db)
	s, _ := session.NewSession("duncan", "token", testPlanetID, time.Now())
	require.NoError(t, repo.Save(context.Background(), s))

	// Act
	err := repo.Clear(context.Background())

	// Assert
	require.NoError(t, err)
	loaded, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, loaded)

	assert.NoError(t, repo.Clear(context.Background()))
}

func TestSessionRepository_RejectsIncompleteSession(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSessionRepository(db)

	err := repo.Save(context.Background(), &session.Session{Token: "token"})

	assert.Error(t, err)
}

func TestSessionRepository_CorruptRowLoadsNil(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormSessionRepository(db)
	require.NoError(t, db.Create(&persistence.SessionModel{ID: 1, Token: "token", PlanetID: "not-a-uuid", CreatedAt: time.Now()}).Error)

	// Act
	loaded, err := repo.Load(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Nil(t, loaded)
}
