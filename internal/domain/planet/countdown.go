package planet

import "time"

// Remaining returns the whole seconds left until end, never negative.
// For a fixed end and a non-decreasing now the result is non-increasing.
func Remaining(end, now time.Time) int64 {
	left := end.Sub(now)
	if left <= 0 {
		return 0
	}
	return int64(left / time.Second)
}

// TimerField names an end-timestamp on the snapshot that drives a countdown
type TimerField string

const (
	TimerBuilding   TimerField = "building"
	TimerShipyard   TimerField = "shipyard"
	TimerExpedition TimerField = "expedition"
)

// TimerFields lists every countdown source
var TimerFields = []TimerField{TimerBuilding, TimerShipyard, TimerExpedition}

// EndOf returns the end timestamp behind a countdown, or nil when the field is clear
func (s *Snapshot) EndOf(field TimerField) *time.Time {
	if s == nil {
		return nil
	}
	switch field {
	case TimerBuilding:
		if s.Building != nil {
			end := s.Building.End
			return &end
		}
	case TimerShipyard:
		if s.Shipyard != nil {
			end := s.Shipyard.End
			return &end
		}
	case TimerExpedition:
		if s.ExpeditionEnd != nil {
			end := *s.ExpeditionEnd
			return &end
		}
	}
	return nil
}
