package realtime

import "github.com/imtaco/resonare-live/live"

type Phase int

const (
	PhaseConnecting Phase = iota
	PhaseHealthy
	PhaseDegraded
	// PhaseTerminated marks an entry that gave up retrying. It stays
	// registered until Refresh or Unsubscribe.
	PhaseTerminated
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseHealthy:
		return "healthy"
	case PhaseDegraded:
		return "degraded"
	case PhaseTerminated:
		return "terminated"
	}
	return "unknown"
}

type Action int

const (
	ActionNone Action = iota
	// ActionResetRetry clears the attempt counter and cancels any pending timer.
	ActionResetRetry
	ActionScheduleRetry
	ActionGiveUp
	// ActionResubscribe replaces the channel with a fresh one.
	ActionResubscribe
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionResetRetry:
		return "reset_retry"
	case ActionScheduleRetry:
		return "schedule_retry"
	case ActionGiveUp:
		return "give_up"
	case ActionResubscribe:
		return "resubscribe"
	}
	return "unknown"
}

// State is the slice of an entry the reconnection rules depend on.
type State struct {
	Phase       Phase
	Retrying    bool
	LiveHealthy bool
	Attempt     int
	MaxAttempts int
}

// Decision is the outcome of a transition. Phase, Retrying and Attempt are
// the values the entry must hold afterwards.
type Decision struct {
	Action   Action
	Phase    Phase
	Retrying bool
	Attempt  int
}

func keep(s State) Decision {
	return Decision{
		Action:   ActionNone,
		Phase:    s.Phase,
		Retrying: s.Retrying,
		Attempt:  s.Attempt,
	}
}

// Transition applies a channel status signal to the entry state.
func Transition(s State, signal live.Status) Decision {
	switch signal {
	case live.StatusSubscribed:
		return Decision{
			Action:   ActionResetRetry,
			Phase:    PhaseHealthy,
			Retrying: false,
			Attempt:  0,
		}
	case live.StatusError, live.StatusTimedOut:
		return degrade(s)
	case live.StatusClosed:
		// a late closed signal can trail a recovery, trust the live state
		if s.LiveHealthy {
			return keep(s)
		}
		return degrade(s)
	}
	return keep(s)
}

func degrade(s State) Decision {
	if s.Retrying || s.Phase == PhaseTerminated {
		return keep(s)
	}
	if s.Attempt >= s.MaxAttempts {
		return Decision{
			Action:   ActionGiveUp,
			Phase:    PhaseTerminated,
			Retrying: false,
			Attempt:  s.Attempt,
		}
	}
	return Decision{
		Action:   ActionScheduleRetry,
		Phase:    PhaseDegraded,
		Retrying: true,
		Attempt:  s.Attempt,
	}
}

// Fire decides what a pending retry timer does when it expires.
func Fire(s State) Decision {
	if s.LiveHealthy {
		return Decision{
			Action:   ActionResetRetry,
			Phase:    PhaseHealthy,
			Retrying: false,
			Attempt:  0,
		}
	}
	return Decision{
		Action:   ActionResubscribe,
		Phase:    PhaseConnecting,
		Retrying: false,
		Attempt:  s.Attempt + 1,
	}
}

// Check decides what an out-of-band health check does. Dormant and
// retrying entries are left alone.
func Check(s State) Decision {
	if s.LiveHealthy || s.Retrying || s.Phase == PhaseTerminated {
		return keep(s)
	}
	return degrade(s)
}
