package llm

import "testing"

func TestTrimMessages_UnderLimit(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi"},
	}
	got := TrimMessages(msgs, 20)
	if len(got) != 2 {
		t.Errorf("expected 2 messages unchanged, got %d", len(got))
	}
}

func TestTrimMessages_Empty(t *testing.T) {
	got := TrimMessages(nil, 10)
	if len(got) != 0 {
		t.Errorf("expected 0 messages, got %d", len(got))
	}
}

func TestTrimMessages_DropsOldestFirst(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "first question"},
		{Role: RoleAssistant, Content: "first answer"},
		{Role: RoleUser, Content: "second question"},
		{Role: RoleAssistant, Content: "second answer"},
		{Role: RoleUser, Content: "third question"},
		{Role: RoleAssistant, Content: "third answer"},
	}

	got := TrimMessages(msgs, 4)

	if len(got) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(got))
	}
	if got[0].Content == "first question" {
		t.Error("expected oldest messages to be trimmed, but 'first question' is still present")
	}
	last := got[len(got)-1]
	if last.Content != "third answer" {
		t.Errorf("expected last message to be 'third answer', got %q", last.Content)
	}
}

func TestTrimMessages_KeepsSystemMessage(t *testing.T) {
	msgs := []Message{
		{Role: RoleSystem, Content: "you are helpful"},
		{Role: RoleUser, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleUser, Content: "q2"},
		{Role: RoleAssistant, Content: "a2"},
		{Role: RoleUser, Content: "q3"},
		{Role: RoleAssistant, Content: "a3"},
	}

	got := TrimMessages(msgs, 3)

	if got[0].Role != RoleSystem {
		t.Fatalf("expected system message at position 0, got role %q", got[0].Role)
	}
	if got[len(got)-1].Content != "a3" {
		t.Errorf("expected newest message kept, got %q", got[len(got)-1].Content)
	}
}

func TestTrimMessages_KeepsToolCallExchangesTogether(t *testing.T) {
	msgs := []Message{
		{Role: RoleUser, Content: "old question"},
		{Role: RoleAssistant, Content: "old answer"},
		// A tool-call exchange that should stay as a unit.
		{Role: RoleUser, Content: "what subjects exist?"},
		{Role: RoleAssistant, ToolCalls: []ToolCall{{ID: "call_1", Name: "find_content", Arguments: `{"query":"all"}`}}},
		{Role: RoleTool, Content: `[{"title":"Physics"}]`, ToolCallID: "call_1"},
		{Role: RoleAssistant, Content: "there is one subject"},
	}

	got := TrimMessages(msgs, 4)

	// The exchange members must appear together or not at all.
	var haveCall, haveResult bool
	for _, m := range got {
		if len(m.ToolCalls) > 0 {
			haveCall = true
		}
		if m.ToolCallID == "call_1" {
			haveResult = true
		}
	}
	if haveCall != haveResult {
		t.Errorf("tool-call exchange was split: call=%v result=%v", haveCall, haveResult)
	}
	if got[len(got)-1].Content != "there is one subject" {
		t.Errorf("expected last message preserved, got %q", got[len(got)-1].Content)
	}
}

func TestTrimMessages_NeverDropsActiveTurn(t *testing.T) {
	msgs := []Message{
		{Role: RoleAssistant, ToolCalls: []ToolCall{
			{ID: "a", Name: "find_content", Arguments: `{}`},
			{ID: "b", Name: "find_content", Arguments: `{}`},
		}},
		{Role: RoleTool, Content: "r1", ToolCallID: "a"},
		{Role: RoleTool, Content: "r2", ToolCallID: "b"},
	}

	// The single group is larger than the limit; it must survive whole.
	got := TrimMessages(msgs, 1)
	if len(got) != 3 {
		t.Errorf("expected the active exchange kept whole, got %d messages", len(got))
	}
}
