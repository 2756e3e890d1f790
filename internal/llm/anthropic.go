package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client anthropic.Client
	model  string
}

func NewAnthropicClient(apiKey, authToken, model string) *AnthropicClient {
	var opts []option.RequestOption
	if authToken != "" {
		opts = append(opts, option.WithAuthToken(authToken))
	} else if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}
	return &AnthropicClient{client: anthropic.NewClient(opts...), model: model}
}

func (c *AnthropicClient) Chat(ctx context.Context, messages []Message, tools []Tool, toolChoice string) (*Response, error) {
	// Anthropic has no system or tool role: system prompts travel in a
	// dedicated field, tool results as user-role tool_result blocks.
	var systemText string
	var anthMsgs []anthropic.MessageParam
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			if systemText != "" {
				systemText += "\n\n"
			}
			systemText += m.Content
		case RoleUser:
			anthMsgs = append(anthMsgs, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{{
					OfText: &anthropic.TextBlockParam{Text: m.Content},
				}},
			})
		case RoleTool:
			anthMsgs = append(anthMsgs, anthropic.MessageParam{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: m.ToolCallID,
						Content: []anthropic.ToolResultBlockParamContentUnion{{
							OfText: &anthropic.TextBlockParam{Text: m.Content},
						}},
					},
				}},
			})
		case RoleAssistant:
			var blocks []anthropic.ContentBlockParamUnion
			if m.Content != "" {
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfText: &anthropic.TextBlockParam{Text: m.Content},
				})
			}
			for _, tc := range m.ToolCalls {
				var input any
				_ = json.Unmarshal([]byte(tc.Arguments), &input)
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    tc.ID,
						Name:  tc.Name,
						Input: input,
					},
				})
			}
			anthMsgs = append(anthMsgs, anthropic.MessageParam{
				Role:    anthropic.MessageParamRoleAssistant,
				Content: blocks,
			})
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 4096,
		Messages:  anthMsgs,
	}
	if systemText != "" {
		params.System = []anthropic.TextBlockParam{{Text: systemText}}
	}
	if len(tools) > 0 && toolChoice != ToolChoiceNone {
		anthTools := make([]anthropic.ToolUnionParam, len(tools))
		for i, t := range tools {
			schema := anthropic.ToolInputSchemaParam{}
			if props, ok := t.Parameters["properties"]; ok {
				schema.Properties = props
			}
			if req, ok := t.Parameters["required"].([]string); ok {
				schema.Required = req
			}
			anthTools[i] = anthropic.ToolUnionParam{OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: schema,
			}}
		}
		params.Tools = anthTools
		params.ToolChoice = anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic chat: %w", err)
	}

	result := &Response{
		Message:    Message{Role: RoleAssistant},
		UsedTokens: msg.Usage.InputTokens + msg.Usage.OutputTokens,
	}
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			result.Message.Content += block.Text
		case "tool_use":
			result.Message.ToolCalls = append(result.Message.ToolCalls, ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: string(block.Input),
			})
		}
	}

	return result, nil
}
