package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/chris/tutor/internal/content"
)

type fakeAPI struct {
	items   []content.Item
	creates []content.CreateParams
	updates []content.UpdateParams
	lastTok string
}

func (f *fakeAPI) Search(ctx context.Context, userToken, query, typ string) ([]content.Item, error) {
	f.lastTok = userToken
	return f.items, nil
}

func (f *fakeAPI) Create(ctx context.Context, userToken string, p content.CreateParams) (json.RawMessage, error) {
	f.creates = append(f.creates, p)
	return json.RawMessage(`{"id":1}`), nil
}

func (f *fakeAPI) Update(ctx context.Context, userToken string, id int64, p content.UpdateParams) (json.RawMessage, error) {
	f.updates = append(f.updates, p)
	return json.RawMessage(`{"id":1}`), nil
}

func run(t *testing.T, r Registry, name string, args map[string]any) (any, error) {
	t.Helper()
	exec, ok := r[name]
	if !ok {
		t.Fatalf("tool %q not registered", name)
	}
	return exec(context.Background(), args)
}

func TestFindContent_DefaultsTypeToAll(t *testing.T) {
	api := &fakeAPI{items: []content.Item{{Title: "Physics", Type: "subject"}}}
	r := NewRegistry(api, "utok")

	got, err := run(t, r, "find_content", map[string]any{"query": "Physics"})
	if err != nil {
		t.Fatalf("find_content: %v", err)
	}
	items := got.([]content.Item)
	if len(items) != 1 || items[0].Title != "Physics" {
		t.Errorf("unexpected items: %+v", items)
	}
	if api.lastTok != "utok" {
		t.Errorf("user token not forwarded: %q", api.lastTok)
	}
}

func TestFindContent_MissingQuery(t *testing.T) {
	r := NewRegistry(&fakeAPI{}, "")
	_, err := run(t, r, "find_content", map[string]any{})
	if err == nil || !strings.Contains(err.Error(), "query") {
		t.Errorf("expected descriptive validation error, got %v", err)
	}
}

func TestCreateContent_PreviewWithoutConfirm(t *testing.T) {
	api := &fakeAPI{}
	r := NewRegistry(api, "")

	got, err := run(t, r, "create_content", map[string]any{
		"title":        "Gravity",
		"description":  "# Overview\n**Newton** wrote this",
		"content_type": "idea",
	})
	if err != nil {
		t.Fatalf("create_content: %v", err)
	}
	if len(api.creates) != 0 {
		t.Fatal("preview must not issue a create request")
	}

	p := got.(map[string]any)
	if p["preview"] != true {
		t.Errorf("expected preview marker: %+v", p)
	}
	html, _ := p["html"].(string)
	if !strings.Contains(html, "<h1>Overview</h1>") || !strings.Contains(html, "<strong>Newton</strong>") {
		t.Errorf("markup not rendered: %q", html)
	}
	plain, _ := p["plain_text"].(string)
	if !strings.Contains(plain, "Newton wrote this") {
		t.Errorf("plain text missing: %q", plain)
	}
}

func TestCreateContent_ConfirmCreates(t *testing.T) {
	api := &fakeAPI{}
	r := NewRegistry(api, "")

	_, err := run(t, r, "create_content", map[string]any{
		"title":        "Pendulum",
		"description":  "swings",
		"content_type": "problem",
		"parent_id":    float64(7),
		"confirm":      true,
	})
	if err != nil {
		t.Fatalf("create_content: %v", err)
	}
	if len(api.creates) != 1 {
		t.Fatalf("expected exactly one create, got %d", len(api.creates))
	}
	p := api.creates[0]
	if p.PostType != "problem" || p.SubjectID != 7 || p.ProblemID != 0 {
		t.Errorf("parent not mapped to subject_id: %+v", p)
	}
}

func TestCreateContent_IdeaParentIsProblem(t *testing.T) {
	api := &fakeAPI{}
	r := NewRegistry(api, "")

	run(t, r, "create_content", map[string]any{
		"title": "t", "description": "d", "content_type": "idea",
		"parent_id": float64(3), "confirm": true,
	})
	if len(api.creates) != 1 || api.creates[0].ProblemID != 3 {
		t.Errorf("idea parent should map to problem_id: %+v", api.creates)
	}
}

func TestCreateContent_MissingFields(t *testing.T) {
	r := NewRegistry(&fakeAPI{}, "")
	_, err := run(t, r, "create_content", map[string]any{"title": "only title"})
	if err == nil {
		t.Error("expected validation error")
	}
}

func TestEditContent_PreviewWithoutConfirm(t *testing.T) {
	api := &fakeAPI{}
	r := NewRegistry(api, "")

	got, err := run(t, r, "edit_content", map[string]any{
		"content_id": float64(5),
		"changes":    map[string]any{"title": "Renamed"},
	})
	if err != nil {
		t.Fatalf("edit_content: %v", err)
	}
	if len(api.updates) != 0 {
		t.Fatal("preview must not issue an update request")
	}
	p := got.(map[string]any)
	if p["title"] != "Renamed" || p["content_id"] != int64(5) {
		t.Errorf("unexpected preview: %+v", p)
	}
}

func TestEditContent_ConfirmSendsOnlySuppliedFields(t *testing.T) {
	api := &fakeAPI{}
	r := NewRegistry(api, "")

	_, err := run(t, r, "edit_content", map[string]any{
		"content_id": float64(5),
		"changes":    map[string]any{"description": "new *body*"},
		"confirm":    true,
	})
	if err != nil {
		t.Fatalf("edit_content: %v", err)
	}
	if len(api.updates) != 1 {
		t.Fatalf("expected one update, got %d", len(api.updates))
	}
	u := api.updates[0]
	if u.Title != nil {
		t.Error("title should be absent when not supplied")
	}
	if u.Body == nil || !strings.Contains(*u.Body, "<em>body</em>") {
		t.Errorf("body not rendered: %v", u.Body)
	}
}

func TestEditContent_EmptyChanges(t *testing.T) {
	r := NewRegistry(&fakeAPI{}, "")
	_, err := run(t, r, "edit_content", map[string]any{
		"content_id": float64(5),
		"changes":    map[string]any{},
	})
	if err == nil {
		t.Error("expected validation error for empty changes")
	}
}
