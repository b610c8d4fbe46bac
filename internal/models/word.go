package models

import "time"

// CategoryAll is the level-category sentinel meaning "draw from every category".
const CategoryAll = "all"

// Categories is the fixed set of topical word groupings.
var Categories = []string{
	"greetings",
	"family",
	"numbers",
	"colors",
	"food",
	"animals",
	"body",
	"time",
	"phrases",
}

// ValidCategory reports whether c is a known word category.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Word is one German↔Kurdish (Badini) translation entry.
// The Ku side may encode dialectal variants inline, separated by " / ".
type Word struct {
	ID        int64     `json:"id"`
	De        string    `json:"de"`
	Ku        string    `json:"ku"`
	Category  string    `json:"category"`
	Note      string    `json:"note,omitempty"`
	IsPhrase  bool      `json:"is_phrase"`
	AudioURL  string    `json:"audio_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WordFilter narrows dictionary queries.
type WordFilter struct {
	Query    string
	Category string
	Limit    int
	Offset   int
}
