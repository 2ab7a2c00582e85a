package bot

const (
	DefaultWeight    = 10
	WinBoost         = 3
	WinningMoveBoost = 50
	TieBoost         = 1
	LoseBoost        = 1
)

// Config holds the weight a freshly seen state gives every open cell and the
// boosts applied after a game. LoseBoost is subtracted.
type Config struct {
	DefaultWeight    int
	WinBoost         int
	WinningMoveBoost int
	TieBoost         int
	LoseBoost        int
}

func DefaultConfig() Config {
	return Config{
		DefaultWeight:    DefaultWeight,
		WinBoost:         WinBoost,
		WinningMoveBoost: WinningMoveBoost,
		TieBoost:         TieBoost,
		LoseBoost:        LoseBoost,
	}
}

func (that Config) withDefaults() Config {
	if that.DefaultWeight <= 0 {
		that.DefaultWeight = DefaultWeight
	}

	return that
}
