package level

// Manager receives level completion signals from the scripting layer.
// The real implementation switches levels and advances the overworld;
// tests and headless tooling record the signal.
type Manager interface {
	// FinishLevel signals that the player won the current level.
	// exitName selects which overworld path to take; empty means the
	// default exit.
	FinishLevel(playWinMusic bool, exitName string)
}

// FinishSignal is a minimal Manager that records the last finish signal.
type FinishSignal struct {
	Finished bool
	WinMusic bool
	ExitName string
}

// FinishLevel implements Manager.
func (f *FinishSignal) FinishLevel(playWinMusic bool, exitName string) {
	f.Finished = true
	f.WinMusic = playWinMusic
	f.ExitName = exitName
}
