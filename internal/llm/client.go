package llm

import "context"

// Message roles. The completion API is role-tagged: "tool" messages carry
// the result of a tool call back to the model.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Tool choice modes passed through to the completion API.
const (
	ToolChoiceAuto = "auto" // model decides whether to call tools
	ToolChoiceNone = "none" // force a plain text answer
)

type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // set on tool result messages
}

// ToolCall is a tool invocation requested by the model. Arguments is the
// raw text the model produced. It usually parses as a JSON object, but
// malformed payloads happen and must fail only that one call.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// Response is one completion round: the assistant message (which may carry
// tool calls instead of content) and the token usage the backend reported
// for that round. UsedTokens is zero when the backend omits usage.
type Response struct {
	Message    Message
	UsedTokens int64
}

type Client interface {
	Chat(ctx context.Context, messages []Message, tools []Tool, toolChoice string) (*Response, error)
}
