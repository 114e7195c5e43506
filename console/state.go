package console

// State is the console lifecycle phase. It changes only through
// Transition, driven by explicit events; nothing observes intermediate
// phases of an operation.
type State int

const (
	// Idle is the initial phase, before any snapshot load was attempted.
	Idle State = iota
	// Loading covers resolving the snapshot source and installing the
	// database handle.
	Loading
	// Ready means a snapshot is loaded and the console accepts queries.
	Ready
	// Running means a query is in flight. Reload and Close issued now
	// are deferred until the query completes.
	Running
	// Failed means the last load attempt did not produce a usable
	// session. A reload transitions back to Loading.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Event is an input to the console state machine.
type Event int

const (
	// EventLoad starts a snapshot load from Idle, Ready, or Failed.
	EventLoad Event = iota
	// EventLoadOK completes a load with a usable session.
	EventLoadOK
	// EventLoadFailed completes a load without a usable session.
	EventLoadFailed
	// EventExecute starts a query from Ready.
	EventExecute
	// EventFinished completes a query, successful or not.
	EventFinished
)

// Transition returns the state after applying ev to state. It is a
// pure function; events that do not apply in the current state leave
// it unchanged.
func Transition(state State, ev Event) State {
	switch ev {
	case EventLoad:
		if state == Idle || state == Ready || state == Failed {
			return Loading
		}
	case EventLoadOK:
		if state == Loading {
			return Ready
		}
	case EventLoadFailed:
		if state == Loading {
			return Failed
		}
	case EventExecute:
		if state == Ready {
			return Running
		}
	case EventFinished:
		if state == Running {
			return Ready
		}
	}
	return state
}
