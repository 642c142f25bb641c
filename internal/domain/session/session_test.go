package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/session"
)

const planetUUID = "7b3c1c1e-8f1a-4a57-9d0e-0c2f0f7e9a11"

func TestNewSession(t *testing.T) {
	created := time.Date(2026, 1, 9, 22, 0, 0, 0, time.UTC)

	s, err := session.NewSession("duncan", "tok-123", planetUUID, created)

	require.NoError(t, err)
	assert.True(t, s.Valid())
	assert.Equal(t, planetUUID, s.PlanetID.Value())
	assert.Equal(t, created, s.CreatedAt)
}

func TestNewSession_RejectsMissingParts(t *testing.T) {
	_, err := session.NewSession("duncan", "", planetUUID, time.Now())
	assert.Error(t, err)

	_, err = session.NewSession("duncan", "tok", "", time.Now())
	assert.Error(t, err)

	_, err = session.NewSession("duncan", "tok", "planet-1", time.Now())
	assert.Error(t, err)
}

func TestValid_NilSession(t *testing.T) {
	var s *session.Session

	assert.False(t, s.Valid())
}
