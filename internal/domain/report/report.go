package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/zeebo/xxh3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Outcome is the reader's view of a report: did we win
type Outcome string

const (
	OutcomeVictory Outcome = "VICTORY"
	OutcomeDefeat  Outcome = "DEFEAT"
	OutcomeDraw    Outcome = "DRAW"
	OutcomeUnknown Outcome = "UNKNOWN"
)

// Loot is what changed hands; legacy reports only carry a total
type Loot struct {
	Metal   float64
	Crystal float64
	Total   float64
}

// Report is the result of one attack, spy run, expedition or inbound raid.
// It lives only as long as the modal that shows it.
type Report struct {
	Winner    string
	Log       []string
	Loot      Loot
	Losses    map[string]int
	IsDefense bool
}

// Outcome interprets Winner relative to the side this client played
func (r *Report) Outcome() Outcome {
	switch strings.ToLower(r.Winner) {
	case "player", "attacker":
		if r.IsDefense {
			return OutcomeDefeat
		}
		return OutcomeVictory
	case "pirates", "defender":
		if r.IsDefense {
			return OutcomeVictory
		}
		return OutcomeDefeat
	case "draw":
		return OutcomeDraw
	}
	return OutcomeUnknown
}

// TotalLosses sums the losses breakdown
func (r *Report) TotalLosses() int {
	total := 0
	for _, n := range r.Losses {
		total += n
	}
	return total
}

// LossLines renders the breakdown in a stable order
func (r *Report) LossLines() []string {
	keys := make([]string, 0, len(r.Losses))
	for k := range r.Losses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: -%d", k, r.Losses[k]))
	}
	return lines
}

type wireReport struct {
	Winner         string              `json:"winner"`
	Victory        *bool               `json:"victory"`
	Log            []string            `json:"log"`
	Message        string              `json:"message"`
	Loot           jsoniter.RawMessage `json:"loot"`
	LootMetal      float64             `json:"loot_metal"`
	Losses         map[string]int      `json:"losses"`
	ShipsLost      *int                `json:"ships_lost"`
	AttackerLosses *int                `json:"attacker_losses"`
	IsDefense      bool                `json:"is_defense"`
}

// Parse decodes any report shape the server has produced: the current
// {winner, log, loot, losses} form, the attack form with a loot object and
// attacker_losses, and the legacy {victory, ships_lost, message} form.
func Parse(payload []byte) (*Report, error) {
	var wire wireReport
	if err := json.Unmarshal(payload, &wire); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}

	r := &Report{
		Winner:    wire.Winner,
		Log:       wire.Log,
		Losses:    wire.Losses,
		IsDefense: wire.IsDefense,
	}

	if r.Winner == "" && wire.Victory != nil {
		r.Winner = "defender"
		if *wire.Victory {
			r.Winner = "player"
		}
	}
	if len(r.Log) == 0 && wire.Message != "" {
		r.Log = []string{wire.Message}
	}

	loot, err := parseLoot(wire.Loot)
	if err != nil {
		return nil, err
	}
	if loot.Total == 0 && wire.LootMetal > 0 {
		loot = Loot{Metal: wire.LootMetal, Total: wire.LootMetal}
	}
	r.Loot = loot

	if r.Losses == nil {
		switch {
		case wire.AttackerLosses != nil:
			r.Losses = map[string]int{"light_hunter": *wire.AttackerLosses}
		case wire.ShipsLost != nil:
			r.Losses = map[string]int{"ships": *wire.ShipsLost}
		}
	}

	if r.Winner == "" && len(r.Log) == 0 {
		return nil, fmt.Errorf("report has neither winner nor log")
	}
	return r, nil
}

// ParseString is Parse for the string-embedded form used by unread reports
func ParseString(payload string) (*Report, error) {
	return Parse([]byte(payload))
}

func parseLoot(raw jsoniter.RawMessage) (Loot, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Loot{}, nil
	}
	var total float64
	if err := json.Unmarshal(raw, &total); err == nil {
		return Loot{Total: total}, nil
	}
	var split struct {
		Metal   float64 `json:"metal"`
		Crystal float64 `json:"crystal"`
	}
	if err := json.Unmarshal(raw, &split); err != nil {
		return Loot{}, fmt.Errorf("failed to decode loot: %w", err)
	}
	return Loot{Metal: split.Metal, Crystal: split.Crystal, Total: split.Metal + split.Crystal}, nil
}

// Fingerprint identifies a raw report payload without keeping it around
type Fingerprint uint64

// FingerprintOf hashes the raw payload; the empty payload has the zero fingerprint
func FingerprintOf(payload string) Fingerprint {
	if payload == "" {
		return 0
	}
	return Fingerprint(xxh3.HashString(payload))
}

func (f Fingerprint) IsZero() bool {
	return f == 0
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("%016x", uint64(f))
}

// Mission is the kind of action a history entry records
type Mission string

const (
	MissionAttack     Mission = "attack"
	MissionDefense    Mission = "defense"
	MissionExpedition Mission = "expedition"
	MissionSpy        Mission = "spy"
	MissionRecycle    Mission = "recycle"
)

// HistoryEntry is one row of a planet's server-side combat log
type HistoryEntry struct {
	ID          string
	TargetName  string
	Mission     Mission
	Result      string
	LootMetal   float64
	LootCrystal float64
	ShipsLost   int
	Date        time.Time
}
