// Package fsm implements the character-state phase machine shared by every
// timed player action (sprite interaction, item use, future attacks):
// a fixed Buildup -> Action -> Recover progression with a per-phase timer,
// mirroring how every such state is structured. Movement, targeting, and
// whatever happens when a phase completes are the caller's concern; fsm
// only tracks phase and timing.
package fsm

import "time"

// Phase is the current stage of a timed character action.
type Phase int

const (
	PhaseBuildup Phase = iota
	PhaseAction
	PhaseRecover
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseBuildup:
		return "buildup"
	case PhaseAction:
		return "action"
	case PhaseRecover:
		return "recover"
	default:
		return "done"
	}
}

// Durations times each phase. Use is a pointer because some actions (e.g. a
// toggled light, a held block) run their action phase indefinitely until
// externally cancelled rather than for a fixed duration.
type Durations struct {
	Buildup time.Duration
	Use     *time.Duration
	Recover time.Duration
}

// State is one in-progress timed action. The zero value is not usable; use
// New.
type State struct {
	durations Durations
	phase     Phase
	timer     time.Duration
}

// New starts a State in the buildup phase.
func New(durations Durations) *State {
	return &State{durations: durations, phase: PhaseBuildup}
}

// Phase returns the current phase.
func (s *State) Phase() Phase { return s.phase }

// Timer returns how long the state has spent in its current phase.
func (s *State) Timer() time.Duration { return s.timer }

// Advance steps the timer by dt and transitions phases as durations expire,
// returning the phase after the step. Once PhaseDone is reached further
// calls are no-ops. Recover completing without the caller cancelling first
// is what moves a state to PhaseDone.
func (s *State) Advance(dt time.Duration) Phase {
	if s.phase == PhaseDone {
		return PhaseDone
	}

	s.timer += dt

	switch s.phase {
	case PhaseBuildup:
		if s.timer >= s.durations.Buildup {
			s.timer = 0
			s.phase = PhaseAction
		}
	case PhaseAction:
		if s.durations.Use != nil && s.timer >= *s.durations.Use {
			s.timer = 0
			s.phase = PhaseRecover
		}
	case PhaseRecover:
		if s.timer >= s.durations.Recover {
			s.phase = PhaseDone
		}
	}

	return s.phase
}

// EndAction forces the transition out of PhaseAction into PhaseRecover
// immediately, for actions with an indefinite Use duration that the caller
// decides to end (releasing a held interaction, an interrupt).
func (s *State) EndAction() {
	if s.phase == PhaseAction {
		s.timer = 0
		s.phase = PhaseRecover
	}
}

// Cancel immediately ends the state regardless of phase, matching
// end_ability: an interrupt (rolling, being staggered, a higher-priority
// input) always wins over whatever phase a timed action is in.
func (s *State) Cancel() {
	s.phase = PhaseDone
}

// Done reports whether the state has finished its full buildup/action/
// recover progression (or was cancelled).
func (s *State) Done() bool {
	return s.phase == PhaseDone
}
