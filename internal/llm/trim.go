package llm

// TrimMessages trims a message history to at most max messages.
//
// Strategy:
//  1. A leading system message is always kept at position 0.
//  2. The rest is grouped into logical units (a user message, a plain
//     assistant reply, or an assistant tool-call + all its tool results).
//  3. The most recent group (the active turn) is always kept; older
//     groups are dropped oldest-first until the count fits.
//
// Tool-call exchanges are never split: either the whole exchange stays
// or the whole exchange goes. Because groups are dropped whole, the
// result can exceed max when the surviving groups alone are larger.
func TrimMessages(messages []Message, max int) []Message {
	if max <= 0 || len(messages) <= max {
		return messages
	}

	var system []Message
	rest := messages
	budget := max
	if messages[0].Role == RoleSystem {
		system = messages[:1]
		rest = messages[1:]
		budget--
	}

	groups := groupMessages(rest)

	count := 0
	for _, g := range groups {
		count += len(g)
	}

	// Always keep the last group (active turn). Trim from the front.
	dropUntil := 0
	for dropUntil < len(groups)-1 && count > budget {
		count -= len(groups[dropUntil])
		dropUntil++
	}

	trimmed := make([]Message, 0, len(system)+count)
	trimmed = append(trimmed, system...)
	for _, g := range groups[dropUntil:] {
		trimmed = append(trimmed, g...)
	}
	return trimmed
}

// groupMessages splits a message slice into logical groups:
//
//   - A user or system message is its own group.
//   - An assistant message with no tool calls is its own group.
//   - An assistant message with tool calls + the following tool-result
//     messages form a single group.
func groupMessages(messages []Message) [][]Message {
	var groups [][]Message
	i := 0
	for i < len(messages) {
		msg := messages[i]

		// Assistant message with tool calls: group it with subsequent tool results.
		if msg.Role == RoleAssistant && len(msg.ToolCalls) > 0 {
			group := []Message{msg}
			i++
			for i < len(messages) && messages[i].Role == RoleTool {
				group = append(group, messages[i])
				i++
			}
			groups = append(groups, group)
			continue
		}

		// Any other message is its own group.
		groups = append(groups, []Message{msg})
		i++
	}
	return groups
}
