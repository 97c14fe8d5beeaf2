package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Progress maps dance style -> level -> completed item IDs. Each item appears
// at most once per (style, level); order carries no meaning.
type Progress map[string]map[string][]string

// Add inserts itemID under (style, level), creating intermediate entries as
// needed. It returns false when the item was already present.
func (p Progress) Add(style, level, itemID string) bool {
	levels, ok := p[style]
	if !ok {
		levels = make(map[string][]string)
		p[style] = levels
	}

	items := levels[level]
	for _, existing := range items {
		if existing == itemID {
			return false
		}
	}

	levels[level] = append(items, itemID)
	return true
}

// CompletedCount returns the number of completed items for one (style, level).
func (p Progress) CompletedCount(style, level string) int {
	return len(p[style][level])
}

// Clone deep-copies the structure so callers cannot alias stored state.
func (p Progress) Clone() Progress {
	out := make(Progress, len(p))
	for style, levels := range p {
		outLevels := make(map[string][]string, len(levels))
		for level, items := range levels {
			outLevels[level] = append([]string(nil), items...)
		}
		out[style] = outLevels
	}
	return out
}

func (p Progress) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (p *Progress) Scan(value interface{}) error {
	if value == nil {
		*p = Progress{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported progress column type %T", value)
	}

	if len(data) == 0 {
		*p = Progress{}
		return nil
	}
	return json.Unmarshal(data, p)
}
