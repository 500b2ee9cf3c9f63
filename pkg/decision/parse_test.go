package decision

import "testing"

func TestParseAnswerShutdown(t *testing.T) {
	raw := "```json\n{\"action\": \"shutdown\", \"confirmation_needed\": true, \"message\": \"您確定要關閉系統嗎？\"}\n```"
	d, err := ParseAnswer(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != ActionShutdown {
		t.Fatalf("expected shutdown, got %s", d.Action)
	}
	if d.Message != "您確定要關閉系統嗎？" {
		t.Fatalf("unexpected message %q", d.Message)
	}
}

func TestParseAnswerClarifyUsesQuestionField(t *testing.T) {
	d, err := ParseAnswer(`{"action": "clarify", "question": "左邊還是右邊？"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != ActionClarify || d.Message != "左邊還是右邊？" {
		t.Fatalf("unexpected decision %+v", d)
	}
}

func TestParseAnswerPickUpBecomesPlan(t *testing.T) {
	d, err := ParseAnswer(`{"action": "pick_up", "target_description": "A 架頂部的鋁型材"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != ActionExecute || len(d.Steps) != 2 {
		t.Fatalf("expected two-step execute plan, got %+v", d)
	}
	if d.Steps[0].Verb != VerbMoveTo || d.Steps[1].Verb != VerbPick {
		t.Fatalf("unexpected verbs %v %v", d.Steps[0].Verb, d.Steps[1].Verb)
	}
}

func TestParseAnswerTrailingProse(t *testing.T) {
	raw := "好的，以下是我的判斷：\n{\"action\": \"clarify\", \"question\": \"哪一個？\"}\n希望有幫助。"
	d, err := ParseAnswer(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Message != "哪一個？" {
		t.Fatalf("unexpected message %q", d.Message)
	}
}

func TestParseAnswerRejectsNonJSON(t *testing.T) {
	if _, err := ParseAnswer("I cannot answer that."); err == nil {
		t.Fatalf("expected malformed decision error")
	}
}

func TestParsePlan(t *testing.T) {
	raw := "```xml\n<plan>\n  <step><action>MOVE_TO</action><target>the red apple</target><reason>approach</reason></step>\n  <step><action>PICK</action><target>the red apple</target><reason>grasp</reason></step>\n</plan>\n```"
	steps, err := ParsePlan(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Verb != VerbMoveTo || steps[0].Target != "the red apple" {
		t.Fatalf("unexpected first step %+v", steps[0])
	}
	if steps[1].Verb != VerbPick {
		t.Fatalf("unexpected second step %+v", steps[1])
	}
}

func TestParsePlanRejectsUnknownVerb(t *testing.T) {
	raw := "<plan><step><action>FLY</action><target>moon</target></step></plan>"
	if _, err := ParsePlan(raw); err == nil {
		t.Fatalf("expected unknown verb rejection")
	}
}

func TestParsePlanRejectsEmptyPlan(t *testing.T) {
	if _, err := ParsePlan("<plan></plan>"); err == nil {
		t.Fatalf("expected empty plan rejection")
	}
}
