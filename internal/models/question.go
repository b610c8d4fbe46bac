package models

// QuestionType distinguishes multiple-choice from type-in questions.
type QuestionType string

const (
	QuestionMultiple QuestionType = "multiple"
	QuestionTypeIn   QuestionType = "type-in"
)

// Direction is the translation direction of a question.
type Direction string

const (
	DirectionDeKu Direction = "de-ku" // prompt in German, answer in Kurdish
	DirectionKuDe Direction = "ku-de" // prompt in Kurdish, answer in German
)

// Question is an ephemeral, per-session quiz question. It is generated at
// session start and never persisted.
type Question struct {
	Word      Word         `json:"-"`
	Type      QuestionType `json:"type"`
	Direction Direction    `json:"direction"`
	Prompt    string       `json:"prompt"`
	Answer    string       `json:"-"`
	// Options holds the shuffled answer choices for multiple-choice questions
	// (1 correct + up to 3 distractors); empty for type-in.
	Options []string `json:"options,omitempty"`
}
