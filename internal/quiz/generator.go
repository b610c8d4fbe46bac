package quiz

import (
	"errors"
	"math/rand"
	"time"

	"github.com/dilan/peyvin/internal/models"
)

// ErrNoWords is returned when a level's candidate pool is empty. A zero-length
// session would report completed on its first render, so generation fails
// instead.
var ErrNoWords = errors.New("no words available for level")

const (
	// multipleChoiceRatio is the probability a question is multiple-choice
	// rather than type-in.
	multipleChoiceRatio = 0.6
	// distractorCount is the number of wrong options per multiple-choice
	// question. Pools smaller than distractorCount+1 yield fewer options.
	distractorCount = 3
)

// Generator produces randomized question sequences from the word bank.
// The random source is injectable so tests can fix the seed.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator creates a Generator. A nil source seeds one from the clock.
func NewGenerator(rnd *rand.Rand) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rnd: rnd}
}

// Generate builds the question sequence for one session of the given level.
// words must be the full word bank snapshot; the level's category selects the
// candidate pool. The result has min(level.WordCount, pool size) questions
// over distinct words, in shuffled order. An empty pool or a non-positive
// word count fails with ErrNoWords.
func (g *Generator) Generate(level models.Level, words []models.Word) ([]models.Question, error) {
	pool := words
	if level.Category != models.CategoryAll {
		pool = nil
		for _, w := range words {
			if w.Category == level.Category {
				pool = append(pool, w)
			}
		}
	}
	if len(pool) == 0 {
		return nil, ErrNoWords
	}

	shuffled := make([]models.Word, len(pool))
	copy(shuffled, pool)
	g.rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	count := level.WordCount
	if count > len(shuffled) {
		count = len(shuffled)
	}
	// A non-positive word count would build a zero-question session that can
	// never reach a terminal state.
	if count <= 0 {
		return nil, ErrNoWords
	}

	// Small category pools cannot supply 3 distinct distractors; fall back
	// to the whole bank so multiple-choice stays playable.
	distractors := pool
	if len(pool) < distractorCount+1 {
		distractors = words
	}

	questions := make([]models.Question, 0, count)
	for _, w := range shuffled[:count] {
		q := models.Question{Word: w}
		if g.rnd.Float64() < 0.5 {
			q.Direction = models.DirectionDeKu
			q.Prompt, q.Answer = w.De, w.Ku
		} else {
			q.Direction = models.DirectionKuDe
			q.Prompt, q.Answer = w.Ku, w.De
		}
		if g.rnd.Float64() < multipleChoiceRatio {
			q.Type = models.QuestionMultiple
			q.Options = g.buildOptions(q, distractors)
		} else {
			q.Type = models.QuestionTypeIn
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// buildOptions assembles the shuffled option list for a multiple-choice
// question: the correct answer plus up to distractorCount distinct texts drawn
// from the distractor pool. Entries whose answer-direction text equals the
// correct answer are excluded so two words with the same translation never
// produce duplicate-looking options.
func (g *Generator) buildOptions(q models.Question, pool []models.Word) []string {
	options := []string{q.Answer}
	seen := map[string]bool{q.Answer: true}

	order := g.rnd.Perm(len(pool))
	for _, idx := range order {
		if len(options) == distractorCount+1 {
			break
		}
		text := answerText(pool[idx], q.Direction)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true
		options = append(options, text)
	}

	g.rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

func answerText(w models.Word, d models.Direction) string {
	if d == models.DirectionDeKu {
		return w.Ku
	}
	return w.De
}
