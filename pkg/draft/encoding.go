package draft

// Encoding sizes for the neural evaluator.
const (
	StateEncodingSize  = int(NumTypes) + MaxPlayers*int(NumTypes) + 3
	ActionEncodingSize = int(NumTypes)
)

// NumPlayers returns the number of seats.
func (Rules) NumPlayers(s *State) int { return s.cfg.Players }

// EncodeState describes s from player's point of view: the player's own
// hand by type, every seat's drafted collection by type with the player's
// seat first, and round, pick and pass-direction progress.
func (Rules) EncodeState(s *State, player int) []float32 {
	enc := make([]float32, StateEncodingSize)
	hand := s.reg.typeCounts(s.Hands[player])
	for t, c := range hand {
		enc[t] = float32(c) / float32(s.cfg.HandSize)
	}
	n := s.cfg.Players
	base := int(NumTypes)
	for slot := 0; slot < n; slot++ {
		seat := (player + slot) % n
		counts := s.reg.typeCounts(s.Drafted[seat])
		for t, c := range counts {
			enc[base+slot*int(NumTypes)+t] = float32(c) / float32(s.cfg.Rounds*s.cfg.HandSize)
		}
	}
	tail := base + MaxPlayers*int(NumTypes)
	enc[tail] = float32(s.Round-1) / float32(s.cfg.Rounds)
	enc[tail+1] = float32(s.Pick) / float32(s.cfg.HandSize)
	if s.Direction > 0 {
		enc[tail+2] = 1
	}
	return enc
}

// EncodeAction is a one-hot vector over card types.
func (Rules) EncodeAction(_ *State, a Action) []float32 {
	enc := make([]float32, ActionEncodingSize)
	if a.Type < NumTypes {
		enc[a.Type] = 1
	}
	return enc
}
