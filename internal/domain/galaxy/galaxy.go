package galaxy

import (
	"fmt"
	"math"
)

// Universe bounds as exposed by the galaxy navigator
const (
	MinGalaxy = 1
	MaxGalaxy = 5
	MinSystem = 1
	MaxSystem = 50
)

// Address identifies one system
type Address struct {
	Galaxy int
	System int
}

// NewAddress validates galaxy/system bounds
func NewAddress(galaxy, system int) (Address, error) {
	if galaxy < MinGalaxy || galaxy > MaxGalaxy {
		return Address{}, fmt.Errorf("galaxy must be between %d and %d", MinGalaxy, MaxGalaxy)
	}
	if system < MinSystem || system > MaxSystem {
		return Address{}, fmt.Errorf("system must be between %d and %d", MinSystem, MaxSystem)
	}
	return Address{Galaxy: galaxy, System: system}, nil
}

func (a Address) String() string {
	return fmt.Sprintf("%d:%d", a.Galaxy, a.System)
}

// Next returns the following system, wrapping into the next galaxy
func (a Address) Next() Address {
	if a.System < MaxSystem {
		return Address{Galaxy: a.Galaxy, System: a.System + 1}
	}
	if a.Galaxy < MaxGalaxy {
		return Address{Galaxy: a.Galaxy + 1, System: MinSystem}
	}
	return a
}

// Prev returns the preceding system, wrapping into the previous galaxy
func (a Address) Prev() Address {
	if a.System > MinSystem {
		return Address{Galaxy: a.Galaxy, System: a.System - 1}
	}
	if a.Galaxy > MinGalaxy {
		return Address{Galaxy: a.Galaxy - 1, System: MaxSystem}
	}
	return a
}

// Slot is one position inside a system, occupied or vacant
type Slot struct {
	Position   int
	PlanetID   string
	PlanetName string
	OwnerName  string
	HasDebris  bool
	IsMine     bool
}

func (s Slot) Occupied() bool {
	return s.PlanetID != ""
}

// CanAttack reports whether the slot holds someone else's planet
func (s Slot) CanAttack() bool {
	return s.Occupied() && !s.IsMine
}

func (s Slot) CanSpy() bool {
	return s.CanAttack()
}

// CanRecycle reports whether a debris field can be harvested
func (s Slot) CanRecycle() bool {
	return s.HasDebris && s.Occupied()
}

// SystemSummary is one row of a galaxy-wide scan
type SystemSummary struct {
	System      int
	PlanetCount int
	HasMe       bool
}

// Star is the rendered position of a system on the star map
type Star struct {
	System int
	X      int
	Y      int
	Size   int
}

// Link joins two stars that are drawn connected
type Link struct {
	From int
	To   int
}

// Layout places every system of a galaxy on a 100x100 grid.
// The placement depends only on the galaxy number.
func Layout(galaxy int) []Star {
	stars := make([]Star, 0, MaxSystem)
	for i := MinSystem; i <= MaxSystem; i++ {
		seed := i*1337 + galaxy*9999
		stars = append(stars, Star{
			System: i,
			X:      seed%80 + 10,
			Y:      (seed*7)%80 + 10,
			Size:   (seed*3)%4 + 2,
		})
	}
	return stars
}

// Links connects nearby stars, at most two outgoing links per star
func Links(stars []Star) []Link {
	var links []Link
	for i := range stars {
		made := 0
		for j := i + 1; j < len(stars) && made < 2; j++ {
			dist := math.Hypot(float64(stars[i].X-stars[j].X), float64(stars[i].Y-stars[j].Y))
			if dist < 20 && (stars[i].System+stars[j].System)%3 == 0 {
				links = append(links, Link{From: stars[i].System, To: stars[j].System})
				made++
			}
		}
	}
	return links
}
