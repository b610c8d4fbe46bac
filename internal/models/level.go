package models

// Level is one ordered quiz unit. IDs are 0-based and gap-free; the order of
// ids is the unlock order.
type Level struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"` // a word category, or CategoryAll
	WordCount int    `json:"word_count"`
}

// LevelStatus decorates a Level with per-user unlock state and progress.
// Unlocked is derived: level i is unlocked iff i == 0 or level i-1 is completed.
type LevelStatus struct {
	Level
	Unlocked bool          `json:"unlocked"`
	Progress *UserProgress `json:"progress,omitempty"`
}
