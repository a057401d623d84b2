package bootstrap

// State is a step of the bootstrap state machine.
type State int

const (
	StateReadingDescriptors State = iota
	StateLoading
	StateConfiguringApp
	StateDone
	StateFatalAbort
)

func (s State) String() string {
	switch s {
	case StateReadingDescriptors:
		return "ReadingDescriptors"
	case StateLoading:
		return "Loading"
	case StateConfiguringApp:
		return "ConfiguringApp"
	case StateDone:
		return "Done"
	case StateFatalAbort:
		return "FatalAbort"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transitions can happen.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFatalAbort
}
