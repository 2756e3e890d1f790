package store

import (
	"testing"

	"github.com/chris/tutor/internal/llm"
)

func TestAppend_CreatesConversation(t *testing.T) {
	s := New(20)
	id := s.NewID()
	history := s.Append(id, llm.Message{Role: llm.RoleUser, Content: "hi"})
	if len(history) != 1 {
		t.Fatalf("expected 1 message, got %d", len(history))
	}
	if !s.Has(id) {
		t.Error("conversation should exist after append")
	}
}

func TestGet_UnknownID(t *testing.T) {
	s := New(20)
	if got := s.Get("missing"); got != nil {
		t.Errorf("expected nil for unknown id, got %v", got)
	}
}

func TestAppend_CapPreservesSystemMessage(t *testing.T) {
	s := New(4)
	id := s.NewID()
	s.Append(id, llm.Message{Role: llm.RoleSystem, Content: "prompt"})
	for i := 0; i < 10; i++ {
		s.Append(id,
			llm.Message{Role: llm.RoleUser, Content: "q"},
			llm.Message{Role: llm.RoleAssistant, Content: "a"},
		)
	}

	history := s.Get(id)
	if len(history) > 4 {
		t.Errorf("cap not applied: %d messages", len(history))
	}
	if history[0].Role != llm.RoleSystem {
		t.Errorf("system message lost, position 0 is %q", history[0].Role)
	}
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := New(20)
	id := s.NewID()
	s.Append(id, llm.Message{Role: llm.RoleUser, Content: "original"})

	got := s.Get(id)
	got[0].Content = "mutated"

	if s.Get(id)[0].Content != "original" {
		t.Error("Get must return a copy, not the backing slice")
	}
}

func TestNewID_Unique(t *testing.T) {
	s := New(20)
	if s.NewID() == s.NewID() {
		t.Error("expected distinct ids")
	}
}
