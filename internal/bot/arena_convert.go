package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/freeeve/colori/api/pkg/draft"
)

// ParseSeatConfig parses a seat assignment such as "0=ismcts,*=random"
// into one strategy name per seat. Seats not named explicitly take the "*"
// entry, or "random" when there is none.
func ParseSeatConfig(s string, players int) ([]string, error) {
	seats := make([]string, players)
	defaultName := "random"
	if s != "" {
		for _, part := range strings.Split(s, ",") {
			key, val, ok := strings.Cut(strings.TrimSpace(part), "=")
			if !ok || val == "" {
				return nil, fmt.Errorf("seat config %q: expected seat=strategy", part)
			}
			if key == "*" {
				defaultName = val
				continue
			}
			seat, err := strconv.Atoi(key)
			if err != nil || seat < 0 || seat >= players {
				return nil, fmt.Errorf("%w: seat %q out of range for %d players", draft.ErrInvalidConfig, key, players)
			}
			seats[seat] = val
		}
	}
	for i := range seats {
		if seats[i] == "" {
			seats[i] = defaultName
		}
	}
	return seats, nil
}

// ParseMatchup expands "ismcts-vs-random" into seat 0 playing the first
// strategy and every other seat the second. A bare name fills every seat.
func ParseMatchup(s string, players int) ([]string, error) {
	first, rest, ok := strings.Cut(s, "-vs-")
	if !ok {
		return ParseSeatConfig("*="+s, players)
	}
	return ParseSeatConfig(fmt.Sprintf("0=%s,*=%s", first, rest), players)
}

// MatchLabel summarizes a seat assignment, e.g. "ismcts vs 2 randoms".
func MatchLabel(seats []string) string {
	counts := make(map[string]int)
	var order []string
	for _, s := range seats {
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}
	if len(order) == 1 {
		return "all-" + order[0]
	}
	parts := make([]string, len(order))
	for i, name := range order {
		if c := counts[name]; c > 1 {
			parts[i] = fmt.Sprintf("%d %ss", c, name)
		} else {
			parts[i] = name
		}
	}
	return strings.Join(parts, " vs ")
}
