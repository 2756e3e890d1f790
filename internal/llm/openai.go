package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

type OpenAIClient struct {
	client openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)
	if model == "" {
		model = string(openai.ChatModelGPT4o)
	}
	return &OpenAIClient{client: client, model: model}
}

func (c *OpenAIClient) Chat(ctx context.Context, messages []Message, tools []Tool, toolChoice string) (*Response, error) {
	// Convert tools
	oaiTools := make([]openai.ChatCompletionToolUnionParam, len(tools))
	for i, t := range tools {
		oaiTools[i] = openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  openai.FunctionParameters(t.Parameters),
		})
	}

	// Convert messages
	var oaiMsgs []openai.ChatCompletionMessageParamUnion
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			oaiMsgs = append(oaiMsgs, openai.SystemMessage(m.Content))
		case RoleTool:
			oaiMsgs = append(oaiMsgs, openai.ToolMessage(m.Content, m.ToolCallID))
		case RoleUser:
			oaiMsgs = append(oaiMsgs, openai.UserMessage(m.Content))
		case RoleAssistant:
			if len(m.ToolCalls) > 0 {
				toolCalls := make([]openai.ChatCompletionMessageToolCallUnionParam, len(m.ToolCalls))
				for j, tc := range m.ToolCalls {
					toolCalls[j] = openai.ChatCompletionMessageToolCallUnionParam{
						OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
							ID: tc.ID,
							Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
								Name:      tc.Name,
								Arguments: tc.Arguments,
							},
						},
					}
				}
				oaiMsgs = append(oaiMsgs, openai.ChatCompletionMessageParamUnion{
					OfAssistant: &openai.ChatCompletionAssistantMessageParam{
						Content: openai.ChatCompletionAssistantMessageParamContentUnion{
							OfString: param.NewOpt(m.Content),
						},
						ToolCalls: toolCalls,
					},
				})
			} else {
				oaiMsgs = append(oaiMsgs, openai.AssistantMessage(m.Content))
			}
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: oaiMsgs,
	}
	if len(oaiTools) > 0 && toolChoice != ToolChoiceNone {
		params.Tools = oaiTools
		params.ToolChoice = openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: param.NewOpt(ToolChoiceAuto),
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai chat: %w", err)
	}

	if len(resp.Choices) == 0 {
		return &Response{Message: Message{Role: RoleAssistant}}, nil
	}

	choice := resp.Choices[0]
	result := &Response{
		Message: Message{
			Role:    RoleAssistant,
			Content: choice.Message.Content,
		},
		UsedTokens: resp.Usage.TotalTokens,
	}

	for _, tc := range choice.Message.ToolCalls {
		ftc := tc.AsFunction()
		result.Message.ToolCalls = append(result.Message.ToolCalls, ToolCall{
			ID:        ftc.ID,
			Name:      ftc.Function.Name,
			Arguments: ftc.Function.Arguments,
		})
	}

	return result, nil
}
