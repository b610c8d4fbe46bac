package quiz

// QuestionXP is the XP awarded per correctly answered question, both during
// play and when a finished session is scored. The two totals must agree.
const QuestionXP = 10

// Stars maps a finished session's accuracy to a 0-3 star rating.
func Stars(correct, wrong int) int {
	total := correct + wrong
	if total == 0 {
		return 0
	}
	accuracy := float64(correct) / float64(total)
	switch {
	case accuracy >= 1.0:
		return 3
	case accuracy >= 0.8:
		return 2
	case accuracy >= 0.6:
		return 1
	default:
		return 0
	}
}

// SessionXP recomputes the XP for a finished session from its correct count.
func SessionXP(correct int) int {
	return correct * QuestionXP
}
