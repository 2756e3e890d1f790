package llm

// charsPerToken is the average number of characters per token.
// Real tokenizers vary, but 4 chars/token is a well-known approximation
// for English text and is good enough for quota accounting when the
// backend omits usage figures.
const charsPerToken = 4

// EstimateTokens returns a rough token count for a string.
func EstimateTokens(s string) int64 {
	if len(s) == 0 {
		return 0
	}
	return int64((len(s) + charsPerToken - 1) / charsPerToken) // round up
}

// EstimateMessageTokens returns the estimated token count for a single message.
// This accounts for content, tool calls, and per-message overhead (role, framing).
func EstimateMessageTokens(m Message) int64 {
	tokens := int64(4) // per-message overhead (role tokens, delimiters)
	tokens += EstimateTokens(m.Content)
	for _, tc := range m.ToolCalls {
		tokens += EstimateTokens(tc.Name)
		tokens += EstimateTokens(tc.Arguments)
		tokens += 4 // tool call framing overhead
	}
	if m.ToolCallID != "" {
		tokens += EstimateTokens(m.ToolCallID) + 2
	}
	return tokens
}

// EstimateMessagesTokens returns the total estimated tokens for a slice of messages.
func EstimateMessagesTokens(messages []Message) int64 {
	var total int64
	for _, m := range messages {
		total += EstimateMessageTokens(m)
	}
	return total
}
