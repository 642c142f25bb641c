package shared_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/shared"
)

func TestErrorClassification(t *testing.T) {
	auth := shared.NewAuthorizationError(401, "")
	business := shared.NewBusinessError(409, "queue busy")
	network := shared.NewNetworkError(errors.New("connection refused"))
	wrapped := fmt.Errorf("upgrade failed: %w", business)

	assert.True(t, shared.IsAuthorizationError(auth))
	assert.Equal(t, "authorization denied", auth.Error())
	assert.False(t, shared.IsBusinessError(auth))

	assert.True(t, shared.IsBusinessError(wrapped))
	assert.False(t, shared.IsNetworkError(wrapped))

	assert.True(t, shared.IsNetworkError(network))
	assert.EqualError(t, errors.Unwrap(network), "connection refused")

	assert.True(t, shared.IsBusinessError(shared.NewQueueBusyError("shipyard")))
	assert.True(t, shared.IsBusinessError(shared.NewValidationError("quantity", "must be positive")))
	assert.True(t, shared.IsNoSessionError(shared.NewNoSessionError()))
}

func TestPlanetID(t *testing.T) {
	id, err := shared.NewPlanetID(" 7B3C1C1E-8F1A-4A57-9D0E-0C2F0F7E9A11 ")

	assert.NoError(t, err)
	assert.Equal(t, "7b3c1c1e-8f1a-4a57-9d0e-0c2f0f7e9a11", id.String())
	assert.True(t, id.Equals(shared.MustNewPlanetID("7b3c1c1e-8f1a-4a57-9d0e-0c2f0f7e9a11")))
	assert.False(t, id.IsZero())

	_, err = shared.NewPlanetID("")
	assert.Error(t, err)
	_, err = shared.NewPlanetID("planet-1")
	assert.Error(t, err)
}
