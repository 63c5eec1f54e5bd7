package tutor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/codexa-learn/codexa/internal/domain"
)

// QuizQuestionCount is the exact number of questions a quiz must carry.
const QuizQuestionCount = 5

// QuizQuestion is one parsed multiple-choice question.
type QuizQuestion struct {
	Question string            `json:"question"`
	Options  map[string]string `json:"options"` // keyed A, B, C
	Correct  string            `json:"correct"` // option key
}

// QuizSheet is a fully parsed quiz ready to present.
type QuizSheet struct {
	Subject    string            `json:"subject"`
	Chapter    string            `json:"chapter"`
	Difficulty domain.Difficulty `json:"difficulty,omitempty"`
	Questions  []QuizQuestion    `json:"questions"`
}

// Grade scores the learner's chosen option keys against the sheet,
// returning per-question correctness in presentation order.
func (s *QuizSheet) Grade(chosen []string) ([]bool, int, error) {
	if len(chosen) != len(s.Questions) {
		return nil, 0, fmt.Errorf("%w: %d answers for %d questions",
			domain.ErrInvalidEvent, len(chosen), len(s.Questions))
	}
	results := make([]bool, len(chosen))
	correct := 0
	for i, key := range chosen {
		if strings.EqualFold(key, s.Questions[i].Correct) {
			results[i] = true
			correct++
		}
	}
	return results, correct, nil
}

var (
	quizBlockRe  = regexp.MustCompile(`(?s)\[QUIZ START\](.*?)\[QUIZ END\]`)
	questionRe   = regexp.MustCompile(`(?s)\[QUESTION\](.*?)\[/QUESTION\]`)
	promptLineRe = regexp.MustCompile(`(?m)^\s*Question:\s*(.+?)\s*$`)
	optionRe     = regexp.MustCompile(`(?m)^\s*\[([A-C])\]\s*(.+?)\s*$`)
	correctRe    = regexp.MustCompile(`(?m)^\s*\[CORRECT:\s*([A-C])\s*\]`)
)

// ParseQuiz extracts a quiz from raw model output. The format is strict:
// one [QUIZ START]..[QUIZ END] block holding exactly five
// [QUESTION]..[/QUESTION] blocks, each with a Question line, options A
// through C, and one [CORRECT: X] marker. Anything else returns
// ErrQuizMalformed so the caller can regenerate.
func ParseQuiz(raw string) (*QuizSheet, error) {
	block := quizBlockRe.FindStringSubmatch(raw)
	if block == nil {
		return nil, fmt.Errorf("%w: no quiz block found", domain.ErrQuizMalformed)
	}

	qBlocks := questionRe.FindAllStringSubmatch(block[1], -1)
	if len(qBlocks) != QuizQuestionCount {
		return nil, fmt.Errorf("%w: %d questions, want %d",
			domain.ErrQuizMalformed, len(qBlocks), QuizQuestionCount)
	}

	sheet := &QuizSheet{Questions: make([]QuizQuestion, 0, QuizQuestionCount)}
	for i, qb := range qBlocks {
		q, err := parseQuestion(qb[1])
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		sheet.Questions = append(sheet.Questions, q)
	}
	return sheet, nil
}

func parseQuestion(body string) (QuizQuestion, error) {
	var q QuizQuestion

	prompt := promptLineRe.FindStringSubmatch(body)
	if prompt == nil {
		return q, fmt.Errorf("%w: missing Question line", domain.ErrQuizMalformed)
	}
	q.Question = prompt[1]

	q.Options = make(map[string]string, 3)
	for _, m := range optionRe.FindAllStringSubmatch(body, -1) {
		q.Options[m[1]] = m[2]
	}
	for _, key := range []string{"A", "B", "C"} {
		if q.Options[key] == "" {
			return q, fmt.Errorf("%w: missing option %s", domain.ErrQuizMalformed, key)
		}
	}

	correct := correctRe.FindStringSubmatch(body)
	if correct == nil {
		return q, fmt.Errorf("%w: missing [CORRECT] marker", domain.ErrQuizMalformed)
	}
	q.Correct = correct[1]
	return q, nil
}
