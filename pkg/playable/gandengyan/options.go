package gandengyan

import "gandengyan-server/internal/rng"

// seat limits
const (
	MinPlayers = 2
	MaxPlayers = 6
)

// HandSize is how many cards every player is dealt
// The opening player gets one extra
const HandSize = 5

// Options are options for creating a new room
type Options struct {
	MaxPlayers int
	Generator  rng.Generator
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		MaxPlayers: MinPlayers,
		Generator:  rng.Crypto{},
	}
}

// ClampMaxPlayers forces a seat count into the supported range
func ClampMaxPlayers(n int) int {
	if n < MinPlayers {
		return MinPlayers
	}

	if n > MaxPlayers {
		return MaxPlayers
	}

	return n
}
