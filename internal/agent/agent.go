// Package agent drives the multi-round exchange with the completion
// backend for one logical user turn.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chris/tutor/internal/cache"
	"github.com/chris/tutor/internal/llm"
	"github.com/chris/tutor/internal/tools"
)

// maxToolRounds bounds the tool-call loop so a model that keeps asking
// for tools cannot spin forever.
const maxToolRounds = 5

const fallbackReply = "I wasn't able to put together a response this time. Could you rephrase or try again?"

type Agent struct {
	client     llm.Client
	results    *cache.Cache[string]
	maxContext int
}

// New builds an agent. results is the shared short-TTL tool-result cache;
// maxContext caps the message count sent to the backend.
func New(client llm.Client, results *cache.Cache[string], maxContext int) *Agent {
	return &Agent{client: client, results: results, maxContext: maxContext}
}

// Result is one completed turn.
type Result struct {
	Messages   []llm.Message // full context after the turn, final answer included
	Produced   []llm.Message // only what this turn generated: tool exchanges and the final answer
	Final      llm.Message   // the assistant's final text message
	UsedTokens int64         // backend-reported usage summed across rounds
}

// Run processes one user turn: prepend the system prompt when history
// lacks one, append the incoming messages, then exchange with the backend
// until it stops requesting tool calls or the round limit is reached.
func (a *Agent) Run(ctx context.Context, history, incoming []llm.Message, registry tools.Registry) (*Result, error) {
	messages := make([]llm.Message, 0, len(history)+len(incoming)+1)
	if len(history) == 0 || history[0].Role != llm.RoleSystem {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: llm.SystemPrompt})
	}
	messages = append(messages, history...)
	messages = append(messages, incoming...)
	messages = llm.TrimMessages(messages, a.maxContext)
	entryLen := len(messages)

	var used int64
	var final llm.Message

	for round := 0; round < maxToolRounds; round++ {
		resp, err := a.client.Chat(ctx, messages, tools.Declarations, llm.ToolChoiceAuto)
		if err != nil {
			return nil, fmt.Errorf("completion round %d: %w", round+1, err)
		}
		used += roundTokens(resp, messages)

		assistant := resp.Message
		if len(assistant.ToolCalls) > 0 {
			messages = append(messages, assistant)
			memo := make(map[string]string)
			for _, tc := range assistant.ToolCalls {
				result := a.execute(ctx, registry, memo, tc)
				messages = append(messages, llm.Message{
					Role:       llm.RoleTool,
					Content:    result,
					Name:       tc.Name,
					ToolCallID: tc.ID,
				})
			}
			continue
		}

		if assistant.Content == "" {
			// One best-effort extra request with tools disabled to coax
			// out a textual answer.
			forced, err := a.client.Chat(ctx, messages, nil, llm.ToolChoiceNone)
			if err != nil {
				slog.Warn("forced text round failed", "error", err)
			} else {
				used += roundTokens(forced, messages)
				assistant = forced.Message
			}
		}
		final = assistant
		break
	}

	if final.Role == "" {
		// Round limit hit while the model was still requesting tools.
		final = llm.Message{Role: llm.RoleAssistant}
	}
	final.ToolCalls = nil
	if final.Content == "" {
		final.Content = fallbackReply
	}
	messages = append(messages, final)

	return &Result{
		Messages:   messages,
		Produced:   messages[entryLen:],
		Final:      final,
		UsedTokens: used,
	}, nil
}

// execute runs one tool call through the per-round memo and the shared
// result cache. Any failure is folded into an error payload for the
// model; nothing here aborts the turn.
func (a *Agent) execute(ctx context.Context, registry tools.Registry, memo map[string]string, tc llm.ToolCall) string {
	args, canon, err := canonicalArgs(tc.Arguments)
	if err != nil {
		return errorPayload(fmt.Errorf("parsing arguments: %w", err))
	}

	key := tc.Name + ":" + canon
	if result, ok := memo[key]; ok {
		return result
	}
	if result, ok := a.results.Get(key); ok {
		memo[key] = result
		return result
	}

	var result string
	exec, ok := registry[tc.Name]
	switch {
	case !ok:
		result = errorPayload(fmt.Errorf("unknown tool: %s", tc.Name))
	default:
		out, err := exec(ctx, args)
		if err != nil {
			result = errorPayload(err)
		} else if b, merr := json.Marshal(out); merr != nil {
			result = errorPayload(fmt.Errorf("encoding result: %w", merr))
		} else {
			result = string(b)
			// Only successes enter the shared cache.
			a.results.Set(key, result)
		}
	}

	memo[key] = result
	slog.Debug("tool executed", "tool", tc.Name, "result", truncate(result, 200))
	return result
}

// canonicalArgs parses the raw argument text and re-encodes it with
// sorted keys so equivalent calls share one cache key.
func canonicalArgs(raw string) (map[string]any, string, error) {
	args := map[string]any{}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return nil, "", err
		}
	}
	canon, err := json.Marshal(args)
	if err != nil {
		return nil, "", err
	}
	return args, string(canon), nil
}

// roundTokens prefers the backend's usage figure and falls back to an
// estimate when it was omitted.
func roundTokens(resp *llm.Response, request []llm.Message) int64 {
	if resp.UsedTokens > 0 {
		return resp.UsedTokens
	}
	return llm.EstimateMessagesTokens(request) + llm.EstimateMessageTokens(resp.Message)
}

func errorPayload(err error) string {
	b, _ := json.Marshal(map[string]any{"error": err.Error()})
	return string(b)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
