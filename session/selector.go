package session

import (
	"sync"

	"github.com/ckgxrg/dwsh/logger"
)

// Outcome tells the host what a selection did.
type Outcome int

const (
	// OutcomeDisarmed: the idle target was selected, nothing is armed.
	OutcomeDisarmed Outcome = iota
	// OutcomeArmed: a different action is now armed.
	OutcomeArmed
	// OutcomeExecuted: the armed action was confirmed and dispatched. The
	// host should terminate.
	OutcomeExecuted
	// OutcomeIgnored: an action was already executed, the selection was dropped.
	OutcomeIgnored
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDisarmed:
		return "disarmed"
	case OutcomeArmed:
		return "armed"
	case OutcomeExecuted:
		return "executed"
	case OutcomeIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Selector is the arm/confirm state machine behind the logout overlay.
// Selecting an action arms it, selecting it again executes it, selecting
// another action re-arms and selecting None disarms.
//
// All methods are safe for concurrent use; each selection is applied
// atomically in the order the lock is acquired.
type Selector struct {
	mu       sync.Mutex
	armed    Action
	label    string
	executed bool

	dispatcher Dispatcher
	terminate  func()
}

// NewSelector returns an idle selector. terminate is called once after a
// confirmed action has been dispatched; it may be nil when the host reacts to
// OutcomeExecuted itself.
func NewSelector(d Dispatcher, terminate func()) *Selector {
	return &Selector{
		armed:      None,
		label:      None.String(),
		dispatcher: d,
		terminate:  terminate,
	}
}

// Select feeds one selection event into the state machine.
func (s *Selector) Select(requested Action) Outcome {
	s.mu.Lock()
	outcome := s.selectLocked(requested)
	s.mu.Unlock()

	if outcome == OutcomeExecuted {
		s.dispatch(requested)
		s.finish()
	}
	return outcome
}

func (s *Selector) selectLocked(requested Action) Outcome {
	if s.executed {
		logger.Debug("[session] %s selected after execution, ignoring", requested.Name())
		return OutcomeIgnored
	}
	if requested != None && !requested.Actionable() {
		logger.Debug("[session] unknown action %d, ignoring", int(requested))
		return OutcomeIgnored
	}

	switch {
	case requested == None:
		s.setArmed(None)
		return OutcomeDisarmed
	case requested == s.armed:
		s.latchLocked(requested)
		return OutcomeExecuted
	default:
		s.setArmed(requested)
		logger.Debug("[session] armed %s", requested.Name())
		return OutcomeArmed
	}
}

func (s *Selector) setArmed(a Action) {
	s.armed = a
	s.label = a.String()
}

// Execute dispatches an action directly, bypassing the arm step. It returns
// false for None and when an action has already been executed.
func (s *Selector) Execute(a Action) bool {
	if !a.Actionable() {
		return false
	}

	s.mu.Lock()
	ok := !s.executed
	if ok {
		s.latchLocked(a)
	}
	s.mu.Unlock()

	if ok {
		s.dispatch(a)
		s.finish()
	}
	return ok
}

// latchLocked sets the one-shot latch so that a second confirmation racing
// with process exit cannot spawn the command twice.
func (s *Selector) latchLocked(a Action) {
	s.executed = true
	logger.Info("[session] %s confirmed", a.Name())
}

// dispatch runs without s.mu held so a slow dispatcher never stalls readers.
// Errors are logged only: the user confirmed the action and the host still
// terminates.
func (s *Selector) dispatch(a Action) {
	if s.dispatcher == nil {
		logger.Error("[session] no dispatcher configured, %s not sent", a.Name())
		return
	}
	if err := s.dispatcher.Dispatch(a); err != nil {
		logger.Error("[session] failed to dispatch %s: %v", a.Name(), err)
	}
}

func (s *Selector) finish() {
	if s.terminate != nil {
		s.terminate()
	}
}

// Armed returns the currently armed action.
func (s *Selector) Armed() Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// Label returns the label of the armed action, or the idle placeholder.
func (s *Selector) Label() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.label
}

// IsArmed reports whether a is the armed action; used to highlight its button.
func (s *Selector) IsArmed(a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed == a
}

// Executed reports whether an action has been dispatched.
func (s *Selector) Executed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.executed
}
