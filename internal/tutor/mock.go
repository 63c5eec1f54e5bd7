package tutor

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM is a scripted LLMClient for tests and the demo CLI. Replies
// are consumed in order; when the script runs out it falls back to a
// canned quiz so quiz flows keep working.
type MockLLM struct {
	Replies []string
	Err     error

	// Calls records every conversation received, newest last.
	Calls [][]ChatMessage

	next int
}

// Complete pops the next scripted reply.
func (m *MockLLM) Complete(_ context.Context, messages []ChatMessage) (string, error) {
	m.Calls = append(m.Calls, messages)
	if m.Err != nil {
		return "", m.Err
	}
	if m.next < len(m.Replies) {
		reply := m.Replies[m.next]
		m.next++
		return reply, nil
	}
	return CannedQuiz(), nil
}

// CannedQuiz returns a well-formed five-question quiz block.
func CannedQuiz() string {
	var b strings.Builder
	b.WriteString("[QUIZ START]\n")
	for i := 1; i <= QuizQuestionCount; i++ {
		fmt.Fprintf(&b, "[QUESTION]\nQuestion: Sample question %d?\n", i)
		b.WriteString("[A] First option\n[B] Second option\n[C] Third option\n")
		b.WriteString("[CORRECT: A]\n[/QUESTION]\n")
	}
	b.WriteString("[QUIZ END]")
	return b.String()
}
