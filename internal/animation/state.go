package animation

// State is the lifecycle stage of a Controller.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateRunning
	StateDisposed
	// StateInert marks a controller whose container was not found. It never leaves this state.
	StateInert
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateDisposed:
		return "disposed"
	case StateInert:
		return "inert"
	default:
		return "unknown"
	}
}
