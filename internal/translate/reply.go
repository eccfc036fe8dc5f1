package translate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mgpai22/captionit/internal/subtitle"
)

// parseReply reads the model answer for batch and returns the translated
// text of each request in batch order. Every request must be answered
// exactly once with text that fits in a single cue.
func parseReply(answer string, batch []Request) ([]string, error) {
	replies, err := findReplies(answer)
	if err != nil {
		return nil, err
	}

	pos := make(map[int]int, len(batch))
	for i, req := range batch {
		pos[req.Index] = i
	}

	texts := make([]string, len(batch))
	seen := make([]bool, len(batch))
	for _, r := range replies {
		i, ok := pos[r.Index]
		if !ok {
			return nil, fmt.Errorf("%w: unknown caption index %d", ErrReply, r.Index)
		}
		if seen[i] {
			return nil, fmt.Errorf("%w: caption %d answered twice", ErrReply, r.Index+1)
		}
		text := strings.TrimSpace(r.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: caption %d has no text", ErrReply, r.Index+1)
		}
		if err := subtitle.CheckText(text); err != nil {
			return nil, fmt.Errorf("%w: caption %d: %w", ErrReply, r.Index+1, err)
		}
		texts[i] = text
		seen[i] = true
	}

	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("%w: caption %d was not translated", ErrReply, batch[i].Index+1)
		}
	}
	return texts, nil
}

// findReplies locates the first JSON value in answer that holds replies:
// either an array of them or an object with one array field of them.
// Markdown fences and surrounding prose are ignored.
func findReplies(answer string) ([]Reply, error) {
	data := []byte(answer)
	for off := 0; off < len(data); off++ {
		if data[off] != '[' && data[off] != '{' {
			continue
		}
		var raw json.RawMessage
		if err := json.NewDecoder(bytes.NewReader(data[off:])).Decode(&raw); err != nil {
			continue
		}
		if replies, ok := asReplies(raw); ok {
			return replies, nil
		}
		off += len(raw) - 1
	}
	return nil, fmt.Errorf("%w: no caption array in %q", ErrReply, preview(answer))
}

func asReplies(raw json.RawMessage) ([]Reply, bool) {
	var replies []Reply
	if err := json.Unmarshal(raw, &replies); err == nil {
		return replies, len(replies) > 0
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, false
	}
	for _, field := range wrapper {
		if err := json.Unmarshal(field, &replies); err == nil && len(replies) > 0 {
			return replies, true
		}
	}
	return nil, false
}

func preview(s string) string {
	const limit = 120
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
