package ranking

// Entry is one leaderboard row
type Entry struct {
	Rank       int
	PlanetName string
	Score      int
	IsMine     bool
	TargetID   string
}

// Own returns the viewer's entry, if ranked
func Own(entries []Entry) (Entry, bool) {
	for _, e := range entries {
		if e.IsMine {
			return e, true
		}
	}
	return Entry{}, false
}

// GameConfig is the server's global tuning exposed to clients
type GameConfig struct {
	SpeedMultiplier float64
}
