package planet

import (
	"fmt"

	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
)

// NotificationKind classifies a locally synthesized event
type NotificationKind string

const (
	NotificationConstructionComplete NotificationKind = "CONSTRUCTION_COMPLETE"
	NotificationShipyardComplete     NotificationKind = "SHIPYARD_COMPLETE"
	NotificationExpeditionReturned   NotificationKind = "EXPEDITION_RETURNED"
	NotificationIncomingReport       NotificationKind = "INCOMING_REPORT"
)

// Notification is one event derived by comparing two snapshots
type Notification struct {
	Kind NotificationKind

	// Subject is the building or unit type that finished, when known
	Subject string
	Count   int

	// RawReport and Fingerprint are set for NotificationIncomingReport
	RawReport   string
	Fingerprint report.Fingerprint
}

// Message is the toast text for the notification
func (n Notification) Message() string {
	switch n.Kind {
	case NotificationConstructionComplete:
		if n.Subject != "" {
			return fmt.Sprintf("Construction complete: %s", BuildingType(n.Subject).Label())
		}
		return "Construction complete"
	case NotificationShipyardComplete:
		if n.Subject != "" {
			return fmt.Sprintf("Shipyard delivered %d x %s", n.Count, UnitType(n.Subject).Label())
		}
		return "Shipyard production complete"
	case NotificationExpeditionReturned:
		return "Expedition returned"
	case NotificationIncomingReport:
		return "Incoming combat report"
	}
	return string(n.Kind)
}

// DetectChanges compares consecutive snapshots.
//
// A completion is reported once per transition from a set end timestamp to
// none. An incoming report is reported whenever next carries a pending report
// whose fingerprint differs from consumed, the fingerprint of the last report
// that was surfaced and acknowledged.
func DetectChanges(prev, next *Snapshot, consumed report.Fingerprint) []Notification {
	if next == nil {
		return nil
	}

	var out []Notification

	if prev != nil {
		if prev.Building != nil && next.Building == nil {
			out = append(out, Notification{
				Kind:    NotificationConstructionComplete,
				Subject: string(prev.Building.Type),
			})
		}
		if prev.Shipyard != nil && next.Shipyard == nil {
			out = append(out, Notification{
				Kind:    NotificationShipyardComplete,
				Subject: string(prev.Shipyard.Type),
				Count:   prev.Shipyard.Count,
			})
		}
		if prev.ExpeditionEnd != nil && next.ExpeditionEnd == nil {
			out = append(out, Notification{Kind: NotificationExpeditionReturned})
		}
	}

	if next.HasPendingReport() {
		fp := report.FingerprintOf(next.PendingReport)
		if fp != consumed {
			out = append(out, Notification{
				Kind:        NotificationIncomingReport,
				RawReport:   next.PendingReport,
				Fingerprint: fp,
			})
		}
	}

	return out
}
