package session

// ActionError is returned when an action cannot be dispatched.
type ActionError struct {
	Action Action
	Reason string
}

func (e *ActionError) Error() string {
	return "action " + e.Action.Name() + ": " + e.Reason
}
