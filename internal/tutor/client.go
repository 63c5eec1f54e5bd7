// Package tutor provides the AI study-buddy backend: lesson content,
// quiz generation, and free-form chat over a local Ollama server.
//
// Architecture:
//
//	Service.Lesson(subject, chapter)  → chat completion, returns markdown
//	Service.Quiz(subject, chapter)    → chat completion, parsed into 5 MCQs
//	                                    with bounded re-generation on
//	                                    malformed output
//	Service.Chat(history, message)    → chat completion with rolling history
package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/codexa-learn/codexa/internal/domain"
	"github.com/codexa-learn/codexa/internal/infra/metrics"
)

// DefaultModel is the chat model used when the config does not name one.
const DefaultModel = "gpt-oss:20b"

// ChatMessage is one turn of an Ollama conversation.
type ChatMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// LLMClient completes a chat conversation. The Ollama client implements
// it; tests substitute a scripted one.
type LLMClient interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// ─── Ollama Client ──────────────────────────────────────────────────────────

// OllamaClient talks to a local Ollama server via POST /api/chat.
type OllamaClient struct {
	addr   string
	model  string
	client *http.Client
	log    *logrus.Entry
}

// NewOllamaClient builds a client for the given server address
// (e.g. http://127.0.0.1:11434) and model name.
func NewOllamaClient(addr, model string) *OllamaClient {
	if model == "" {
		model = DefaultModel
	}
	return &OllamaClient{
		addr:  addr,
		model: model,
		client: &http.Client{
			Timeout: 10 * time.Minute, // Long timeout for generation
		},
		log: logrus.WithField("component", "tutor"),
	}
}

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type ollamaChatResponse struct {
	Message ChatMessage `json:"message"`
	Done    bool        `json:"done"`
	Error   string      `json:"error,omitempty"`
}

// Complete sends the conversation to Ollama and returns the assistant
// reply. Wraps connection failures in ErrTutorUnavailable so callers can
// degrade gracefully when no model server is running.
func (c *OllamaClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.addr+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.TutorErrors.WithLabelValues("chat").Inc()
		return "", fmt.Errorf("%w: %v", domain.ErrTutorUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.TutorLatency.WithLabelValues("chat").Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		metrics.TutorErrors.WithLabelValues("chat").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s",
			domain.ErrTutorUnavailable, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var out ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if out.Error != "" {
		metrics.TutorErrors.WithLabelValues("chat").Inc()
		return "", fmt.Errorf("%w: %s", domain.ErrTutorUnavailable, out.Error)
	}

	c.log.WithField("elapsed", time.Since(start).Round(time.Millisecond)).
		Debug("chat completion done")
	return out.Message.Content, nil
}

// Reachable reports whether the Ollama server answers at all.
// Used by the health checker.
func (c *OllamaClient) Reachable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.addr+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTutorUnavailable, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", domain.ErrTutorUnavailable, resp.StatusCode)
	}
	return nil
}

// ─── Service ────────────────────────────────────────────────────────────────

// Service wraps an LLMClient with the study-buddy prompts and the quiz
// parser. It is stateless; conversation history lives with the caller.
type Service struct {
	llm LLMClient
	log *logrus.Entry

	// MaxQuizRetries bounds re-generation when the model returns a
	// malformed quiz.
	MaxQuizRetries int
}

// NewService builds a tutor service over the given model client.
func NewService(llm LLMClient) *Service {
	return &Service{
		llm:            llm,
		log:            logrus.WithField("component", "tutor"),
		MaxQuizRetries: 2,
	}
}

// Lesson generates a markdown lesson for one chapter.
func (s *Service) Lesson(ctx context.Context, subject, chapter string) (string, error) {
	return s.llm.Complete(ctx, []ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: lessonPrompt(subject, chapter)},
	})
}

// Quiz generates a five-question quiz for one chapter, retrying a
// bounded number of times when the model's output does not parse.
func (s *Service) Quiz(ctx context.Context, subject, chapter string, difficulty domain.Difficulty) (*QuizSheet, error) {
	var lastErr error
	for attempt := 0; attempt <= s.MaxQuizRetries; attempt++ {
		if attempt > 0 {
			metrics.QuizParseRetries.Inc()
			s.log.WithFields(logrus.Fields{
				"attempt": attempt,
				"chapter": chapter,
			}).Warn("quiz output malformed, regenerating")
		}

		raw, err := s.llm.Complete(ctx, []ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: quizPrompt(subject, chapter, difficulty)},
		})
		if err != nil {
			return nil, err
		}

		sheet, err := ParseQuiz(raw)
		if err == nil {
			sheet.Subject = subject
			sheet.Chapter = chapter
			sheet.Difficulty = difficulty
			return sheet, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("quiz generation failed after %d attempts: %w",
		s.MaxQuizRetries+1, lastErr)
}

// Chat continues a free-form conversation. The caller passes the rolling
// history; the system prompt is prepended on every call.
func (s *Service) Chat(ctx context.Context, history []ChatMessage, message string) (string, error) {
	msgs := make([]ChatMessage, 0, len(history)+2)
	msgs = append(msgs, ChatMessage{Role: "system", Content: systemPrompt})
	msgs = append(msgs, history...)
	msgs = append(msgs, ChatMessage{Role: "user", Content: message})
	return s.llm.Complete(ctx, msgs)
}

// Explain answers a follow-up question about one quiz question the
// learner got wrong.
func (s *Service) Explain(ctx context.Context, q QuizQuestion, chosen string) (string, error) {
	return s.llm.Complete(ctx, []ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: explainPrompt(q, chosen)},
	})
}
