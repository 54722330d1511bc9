package core

// RuntimeConfig is what the platform hands a game on Reset.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed, 0 means the platform picks one
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// Dt returns the length of one tick in seconds.
func (c RuntimeConfig) Dt() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 30
	}
	return 1 / float64(c.TickRate)
}

// GameState is the status a game reports to the platform.
type GameState struct {
	Score      int
	Stars      int
	Multiplier int
	GameOver   bool
	Paused     bool
	Reason     string // Why the game ended, empty while running
	Err        error  // Set when the game stopped on an engine fault
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
}
