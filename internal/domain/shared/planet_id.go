package shared

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PlanetID is a value object representing a planet's server-issued UUID
type PlanetID struct {
	value string
}

// NewPlanetID creates a new PlanetID value object from its textual UUID form
func NewPlanetID(id string) (PlanetID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return PlanetID{}, fmt.Errorf("planet_id cannot be empty")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return PlanetID{}, fmt.Errorf("planet_id must be a UUID: %w", err)
	}
	return PlanetID{value: parsed.String()}, nil
}

// MustNewPlanetID creates a new PlanetID value object, panicking if invalid
// Use this only when you're certain the ID is valid (e.g., from database)
func MustNewPlanetID(id string) PlanetID {
	planetID, err := NewPlanetID(id)
	if err != nil {
		panic(err)
	}
	return planetID
}

// Value returns the canonical string value of the PlanetID
func (p PlanetID) Value() string {
	return p.value
}

// String returns a string representation of the PlanetID
func (p PlanetID) String() string {
	return p.value
}

// Equals checks if two PlanetIDs are equal
func (p PlanetID) Equals(other PlanetID) bool {
	return p.value == other.value
}

// IsZero checks if the PlanetID is the zero value (uninitialized)
func (p PlanetID) IsZero() bool {
	return p.value == ""
}
