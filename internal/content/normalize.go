package content

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// buckets are the categorized response keys, in priority order, with the
// item type each bucket implies.
var buckets = []struct {
	key string
	typ string
}{
	{"subjects", "subject"},
	{"problems", "problem"},
	{"ideas", "idea"},
}

// normalizeSearch flattens a search response into []Item. The upstream
// format is not under our control and has shipped in several shapes, all
// of which must keep working:
//
//  1. content is a flat array of posts
//  2. content is an object with subjects/problems/ideas arrays
//  3. anything else: the first array-valued field under content
func normalizeSearch(body []byte) []Item {
	root := gjson.GetBytes(body, "content")

	if root.IsArray() {
		return itemsFrom(root, "")
	}

	if root.IsObject() {
		var items []Item
		found := false
		for _, b := range buckets {
			arr := root.Get(b.key)
			if arr.IsArray() {
				found = true
				items = append(items, itemsFrom(arr, b.typ)...)
			}
		}
		if found {
			return items
		}

		// Fallback: first array-valued field, whatever it is called.
		root.ForEach(func(_, value gjson.Result) bool {
			if value.IsArray() {
				items = itemsFrom(value, "")
				return false
			}
			return true
		})
		return items
	}

	return nil
}

func itemsFrom(arr gjson.Result, typ string) []Item {
	var items []Item
	arr.ForEach(func(_, v gjson.Result) bool {
		item := Item{
			Title: v.Get("title").String(),
			Type:  typ,
			ID:    v.Get("id").Int(),
			Link:  v.Get("link").String(),
		}
		if item.Type == "" {
			item.Type = v.Get("post_type").String()
		}
		items = append(items, item)
		return true
	})
	return items
}

// createdPost extracts the post object from a {content:{post}} mutation
// response, falling back to the whole body when the envelope is missing.
func createdPost(body []byte) json.RawMessage {
	if post := gjson.GetBytes(body, "content.post"); post.Exists() {
		return json.RawMessage(post.Raw)
	}
	return json.RawMessage(body)
}
