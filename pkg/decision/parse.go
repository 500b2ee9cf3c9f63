package decision

import (
	"encoding/json"
	"encoding/xml"
	"strings"

	"github.com/okanita/vira/pkg/errorsx"
)

// Answer is the wire shape of a single-action reply from the reasoning
// backend. Models answer with exactly one of these objects, usually wrapped
// in markdown fences and sometimes surrounded by prose.
type Answer struct {
	Action             string `json:"action"`
	Message            string `json:"message"`
	Question           string `json:"question"`
	TargetDescription  string `json:"target_description"`
	ConfirmationNeeded bool   `json:"confirmation_needed"`
}

// ParseAnswer extracts and decodes the JSON answer object from a raw model
// reply. Unknown actions with a target description map to a one-step pick
// plan; anything else unknown is malformed.
func ParseAnswer(raw string) (Decision, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return Decision{}, errorsx.New(errorsx.ReasonDecisionMalformed, "no JSON object in model reply")
	}
	var ans Answer
	if err := json.Unmarshal([]byte(payload), &ans); err != nil {
		return Decision{}, errorsx.Wrap(err, errorsx.ReasonDecisionMalformed)
	}
	return fromAnswer(ans)
}

func fromAnswer(ans Answer) (Decision, error) {
	switch strings.ToLower(strings.TrimSpace(ans.Action)) {
	case string(ActionShutdown):
		return Shutdown(strings.TrimSpace(ans.Message)), nil
	case string(ActionClarify):
		msg := strings.TrimSpace(ans.Question)
		if msg == "" {
			msg = strings.TrimSpace(ans.Message)
		}
		return Clarify(msg), nil
	case "pick_up":
		// Single-action answer without a decomposed plan.
		target := strings.TrimSpace(ans.TargetDescription)
		return Execute(
			Step{Verb: VerbMoveTo, Target: target},
			Step{Verb: VerbPick, Target: target},
		), nil
	case string(ActionExecute):
		return Decision{Action: ActionExecute}, nil
	default:
		return Decision{}, errorsx.New(errorsx.ReasonDecisionMalformed, "unknown action %q", ans.Action)
	}
}

type planXML struct {
	XMLName xml.Name  `xml:"plan"`
	Steps   []stepXML `xml:"step"`
}

type stepXML struct {
	Action string `xml:"action"`
	Target string `xml:"target"`
	Reason string `xml:"reason"`
}

// ParsePlan decodes the <plan> markup a decomposition reply carries into an
// ordered step sequence.
func ParsePlan(raw string) ([]Step, error) {
	payload := stripFences(raw)
	start := strings.Index(payload, "<plan")
	if start >= 0 {
		payload = payload[start:]
	}
	var plan planXML
	if err := xml.Unmarshal([]byte(payload), &plan); err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonDecisionMalformed)
	}
	steps := make([]Step, 0, len(plan.Steps))
	for _, s := range plan.Steps {
		verb, ok := normalizeVerb(s.Action)
		if !ok {
			return nil, errorsx.New(errorsx.ReasonDecisionMalformed, "unknown plan verb %q", s.Action)
		}
		steps = append(steps, Step{
			Verb:   verb,
			Target: strings.TrimSpace(s.Target),
			Reason: strings.TrimSpace(s.Reason),
		})
	}
	if len(steps) == 0 {
		return nil, errorsx.New(errorsx.ReasonDecisionMalformed, "plan without steps")
	}
	return steps, nil
}

func normalizeVerb(raw string) (Verb, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "move_to", "moveto":
		return VerbMoveTo, true
	case "pick", "pick_up":
		return VerbPick, true
	case "place":
		return VerbPlace, true
	case "scan":
		return VerbScan, true
	case "wait":
		return VerbWait, true
	}
	return "", false
}

// extractJSON strips markdown fences and returns the outermost {...} object,
// tolerating prose before and after it.
func extractJSON(raw string) string {
	cleaned := stripFences(raw)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end <= start {
		return ""
	}
	return cleaned[start : end+1]
}

func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if idx := strings.Index(cleaned, "```"); idx >= 0 {
		rest := cleaned[idx+3:]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			// Drop the info string ("json", "xml", ...).
			rest = rest[nl+1:]
		}
		if closing := strings.Index(rest, "```"); closing >= 0 {
			rest = rest[:closing]
		}
		cleaned = strings.TrimSpace(rest)
	}
	return cleaned
}
