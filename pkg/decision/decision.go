package decision

import (
	"github.com/okanita/vira/pkg/errorsx"
)

// Action is the closed set of decision kinds the session dispatches on.
type Action string

const (
	ActionExecute  Action = "execute"
	ActionClarify  Action = "clarify"
	ActionShutdown Action = "shutdown"
)

// Verb is the closed set of atomic robot actions a plan step may carry.
type Verb string

const (
	VerbMoveTo Verb = "move_to"
	VerbPick   Verb = "pick"
	VerbPlace  Verb = "place"
	VerbScan   Verb = "scan"
	VerbWait   Verb = "wait"
)

// Step is one atomic robotic action within an execute plan.
type Step struct {
	Verb   Verb
	Target string
	Reason string
	Params map[string]string
}

// Decision is the structured output of the vision-language reasoning step.
// Exactly one of Steps (execute) and Message (clarify/shutdown) carries the
// payload for its action kind.
type Decision struct {
	Action  Action
	Message string
	Steps   []Step
}

// Execute builds an execute decision over an ordered plan.
func Execute(steps ...Step) Decision {
	return Decision{Action: ActionExecute, Steps: steps}
}

// Clarify builds a clarify decision carrying the question for the operator.
func Clarify(message string) Decision {
	return Decision{Action: ActionClarify, Message: message}
}

// Shutdown builds a shutdown decision carrying the confirmation prompt.
func Shutdown(message string) Decision {
	return Decision{Action: ActionShutdown, Message: message}
}

// Validate enforces the payload invariants: execute decisions always carry a
// non-empty step sequence, clarify and shutdown decisions always carry a
// non-empty message. A violating decision is never dispatched.
func (d Decision) Validate() error {
	switch d.Action {
	case ActionExecute:
		if len(d.Steps) == 0 {
			return errorsx.New(errorsx.ReasonDecisionMalformed, "execute decision with empty step sequence")
		}
		for i, s := range d.Steps {
			if s.Verb == "" {
				return errorsx.New(errorsx.ReasonDecisionMalformed, "execute step %d has no verb", i+1)
			}
		}
	case ActionClarify, ActionShutdown:
		if d.Message == "" {
			return errorsx.New(errorsx.ReasonDecisionMalformed, "%s decision with empty message", d.Action)
		}
	default:
		return errorsx.New(errorsx.ReasonDecisionMalformed, "unknown action %q", string(d.Action))
	}
	return nil
}
