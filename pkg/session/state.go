package session

// State is the session's position in the interaction loop. It is owned
// exclusively by the controller goroutine and read nowhere else.
type State string

const (
	// StateListening waits for a spoken instruction.
	StateListening State = "listening"
	// StateAwaitingDecision holds a transcript and is consulting the
	// decision service.
	StateAwaitingDecision State = "awaiting_decision"
	// StateAwaitingShutdownConfirmation has spoken the confirmation prompt
	// and is waiting for the operator's answer.
	StateAwaitingShutdownConfirmation State = "awaiting_shutdown_confirmation"
	// StateShutdown is terminal.
	StateShutdown State = "shutdown"
)
