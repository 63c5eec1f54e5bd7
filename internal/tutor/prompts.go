package tutor

import (
	"fmt"
	"strings"

	"github.com/codexa-learn/codexa/internal/domain"
)

// quizTemplate shows the model the exact wire format one question must
// follow. The parser in parser.go is the authority on what is accepted.
const quizTemplate = `[QUIZ START]
[QUESTION]
Question: Example question?
[A] Option A
[B] Option B
[C] Option C
[CORRECT: A]
[/QUESTION]
[QUIZ END]`

// systemPrompt frames every tutor conversation.
var systemPrompt = strings.TrimSpace(fmt.Sprintf(`
You are Study Buddy, an offline tutor for Classes 6-12.
RULES:
- Always respond in English.
- Use LaTeX ($...$) for math/chemistry formulas where needed.
- TEACHING: 3-4 concise subtopics, with analogies, and end with a one-line check ("Does this make sense?").
- QUIZ: Output ONLY a quiz block exactly in this format:
%s
STRICT CONSTRAINTS:
- Exactly 5 MCQs per quiz.
- Options limited to A, B, C.
- One correct answer per question.
- Each question must include a single-line 'Question: ' line.
- No extra text before [QUIZ START] or after [QUIZ END].
`, quizTemplate))

func lessonPrompt(subject, chapter string) string {
	return fmt.Sprintf(
		"TEACHING TASK.\nSubject: %s\nChapter: %s\n\n"+
			"Teach clearly, 3-4 key subtopics, use analogies, "+
			"and end with a one-line comprehension check. "+
			"Do NOT include any quiz block.",
		subject, chapter)
}

func quizPrompt(subject, chapter string, difficulty domain.Difficulty) string {
	var b strings.Builder
	fmt.Fprintf(&b, "QUIZ TASK.\n- Subject: %s\n- Chapter: %s\n", subject, chapter)
	switch difficulty {
	case domain.DifficultyEasy:
		b.WriteString("- Difficulty: easy, recall-level questions\n")
	case domain.DifficultyHard:
		b.WriteString("- Difficulty: hard, application-level questions\n")
	}
	b.WriteString("\nGenerate exactly 5 MCQs ONLY about this chapter. " +
		"Use the strict QUIZ format with [QUESTION], [A], [B], [C], [CORRECT].")
	return b.String()
}

func explainPrompt(q QuizQuestion, chosen string) string {
	return fmt.Sprintf(
		"The learner answered a quiz question incorrectly.\n"+
			"Question: %s\n"+
			"[A] %s\n[B] %s\n[C] %s\n"+
			"Correct answer: %s\n"+
			"Their answer: %s\n\n"+
			"Explain briefly why the correct answer is right and where "+
			"their choice goes wrong. Keep the response focused only on "+
			"this question.",
		q.Question, q.Options["A"], q.Options["B"], q.Options["C"],
		q.Correct, chosen)
}
