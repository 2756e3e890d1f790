// Package tools declares the callable tools and binds each name to an
// executor scoped to one caller's access token.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chris/tutor/internal/content"
	"github.com/chris/tutor/internal/markup"
)

// ContentAPI is the slice of the content-service client the executors use.
type ContentAPI interface {
	Search(ctx context.Context, userToken, query, typ string) ([]content.Item, error)
	Create(ctx context.Context, userToken string, p content.CreateParams) (json.RawMessage, error)
	Update(ctx context.Context, userToken string, id int64, p content.UpdateParams) (json.RawMessage, error)
}

// Executor runs one tool call. An error return becomes a tool-error
// payload for the model; it never aborts the turn.
type Executor func(ctx context.Context, args map[string]any) (any, error)

// Registry maps tool names to executors bound to a caller's token.
type Registry map[string]Executor

func NewRegistry(api ContentAPI, userToken string) Registry {
	return Registry{
		"find_content":   findContent(api, userToken),
		"create_content": createContent(api, userToken),
		"edit_content":   editContent(api, userToken),
	}
}

func findContent(api ContentAPI, userToken string) Executor {
	return func(ctx context.Context, args map[string]any) (any, error) {
		query, ok := getString(args, "query")
		if !ok || query == "" {
			return nil, fmt.Errorf("find_content: query is required and must be a string")
		}
		typ, ok := getString(args, "type")
		if !ok || typ == "" {
			typ = "all"
		}

		items, err := api.Search(ctx, userToken, query, typ)
		if err != nil {
			return nil, fmt.Errorf("find_content: %w", err)
		}
		if items == nil {
			items = []content.Item{}
		}
		return items, nil
	}
}

func createContent(api ContentAPI, userToken string) Executor {
	return func(ctx context.Context, args map[string]any) (any, error) {
		title, ok := getString(args, "title")
		if !ok || title == "" {
			return nil, fmt.Errorf("create_content: title is required and must be a string")
		}
		description, ok := getString(args, "description")
		if !ok || description == "" {
			return nil, fmt.Errorf("create_content: description is required and must be a string")
		}
		contentType, ok := getString(args, "content_type")
		if !ok || contentType == "" {
			return nil, fmt.Errorf("create_content: content_type is required and must be a string")
		}
		parentID, _ := getInt(args, "parent_id")

		html := markup.ToHTML(description)

		if !getBool(args, "confirm") {
			return preview(title, html), nil
		}

		params := content.CreateParams{
			Title:    title,
			PostType: contentType,
			Body:     html,
		}
		// A problem hangs off a subject, an idea off a problem.
		switch contentType {
		case "idea":
			params.ProblemID = parentID
		default:
			params.SubjectID = parentID
		}

		created, err := api.Create(ctx, userToken, params)
		if err != nil {
			return nil, fmt.Errorf("create_content: %w", err)
		}
		return created, nil
	}
}

func editContent(api ContentAPI, userToken string) Executor {
	return func(ctx context.Context, args map[string]any) (any, error) {
		id, ok := getInt(args, "content_id")
		if !ok {
			return nil, fmt.Errorf("edit_content: content_id is required and must be an integer")
		}
		changes, ok := getMap(args, "changes")
		if !ok {
			return nil, fmt.Errorf("edit_content: changes is required and must be an object")
		}

		title, hasTitle := getString(changes, "title")
		description, hasDescription := getString(changes, "description")
		if !hasTitle && !hasDescription {
			return nil, fmt.Errorf("edit_content: changes must include title or description")
		}

		var html string
		if hasDescription {
			html = markup.ToHTML(description)
		}

		if !getBool(args, "confirm") {
			p := preview(title, html)
			p["content_id"] = id
			return p, nil
		}

		params := content.UpdateParams{}
		if hasTitle {
			params.Title = &title
		}
		if hasDescription {
			params.Body = &html
		}

		updated, err := api.Update(ctx, userToken, id, params)
		if err != nil {
			return nil, fmt.Errorf("edit_content: %w", err)
		}
		return updated, nil
	}
}

// preview is the no-mutation first phase of create/edit. It is pure
// recomputation from the arguments. No server-side state is kept, so an
// abandoned preview simply never happens.
func preview(title, html string) map[string]any {
	p := map[string]any{
		"preview":      true,
		"instructions": "Nothing has been saved. Show this preview to the user; if they approve, call the tool again with the same arguments plus confirm=true.",
	}
	if title != "" {
		p["title"] = title
	}
	if html != "" {
		p["html"] = html
		p["plain_text"] = markup.ToPlainText(html)
	}
	return p
}
