package app

import "quizmaster-service/internal/domain"

// Score grades an ordered answer sequence against a quiz's questions.
//
// Position i of answers is compared with strict equality against the correct
// index of question i. The shorter sequence bounds the comparison: missing
// trailing answers count as wrong, extra answers are ignored. Out-of-range
// answer values simply never match. The percentage is unrounded; rounding
// happens only in aggregation.
func Score(questions []domain.Question, answers []int) (correct int, percentage float64) {
	n := len(answers)
	if len(questions) < n {
		n = len(questions)
	}
	for i := 0; i < n; i++ {
		if answers[i] == questions[i].CorrectAnswer {
			correct++
		}
	}
	if len(questions) == 0 {
		return correct, 0
	}
	return correct, float64(correct) / float64(len(questions)) * 100
}
