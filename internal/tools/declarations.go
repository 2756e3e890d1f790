package tools

import "github.com/chris/tutor/internal/llm"

// Declarations are the tools offered to the model on every round.
var Declarations = []llm.Tool{
	{
		Name:        "find_content",
		Description: "Search the study platform for existing content by title. Returns matching subjects, problems, and ideas.",
		Parameters: objReq(map[string]any{
			"query": prop("string", "Title text to search for"),
			"type":  prop("string", "Content type filter: subject, problem, idea, or all (default all)"),
		}, "query"),
	},
	{
		Name:        "create_content",
		Description: "Create new study content. Two-phase: the first call returns a preview and creates nothing; resubmit with confirm=true after the user approves.",
		Parameters: objReq(map[string]any{
			"title":        prop("string", "Title for the new content"),
			"description":  prop("string", "Body in lightweight markup: # headings, - lists, **bold**, *italics*, bare URLs"),
			"content_type": prop("string", "One of: subject, problem, idea"),
			"parent_id":    prop("integer", "Parent id: the subject for a problem, or the problem for an idea"),
			"confirm":      prop("boolean", "Set true only after the user approved the preview"),
		}, "title", "description", "content_type"),
	},
	{
		Name:        "edit_content",
		Description: "Edit an existing piece of content. Two-phase like create_content: preview first, then resubmit with confirm=true. Only the supplied fields are changed.",
		Parameters: objReq(map[string]any{
			"content_id": prop("integer", "Id of the content to edit"),
			"changes": map[string]any{
				"type":        "object",
				"description": "Fields to change",
				"properties": map[string]any{
					"title":       prop("string", "New title"),
					"description": prop("string", "New body in lightweight markup"),
				},
			},
			"confirm": prop("boolean", "Set true only after the user approved the preview"),
		}, "content_id", "changes"),
	},
}

func prop(typ, desc string) map[string]any {
	return map[string]any{"type": typ, "description": desc}
}

func objReq(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
