package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/codexa-learn/codexa/internal/domain"
	"github.com/codexa-learn/codexa/internal/tutor"
)

// ─── Tutor Content ──────────────────────────────────────────────────────────
// Lesson, quiz, and chat generation. All endpoints return 503 when no
// model server is running so the frontend can show a friendly banner
// instead of failing the whole page.

type lessonRequest struct {
	Subject string `json:"subject"`
	Chapter string `json:"chapter"`
}

func (s *Server) handleLesson(w http.ResponseWriter, r *http.Request) {
	if s.tutor == nil {
		writeError(w, http.StatusServiceUnavailable, "tutor not configured")
		return
	}
	var req lessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Chapter) == "" {
		writeError(w, http.StatusBadRequest, "subject and chapter are required")
		return
	}

	content, err := s.tutor.Lesson(r.Context(), req.Subject, req.Chapter)
	if err != nil {
		writeError(w, statusForTutorError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"subject": req.Subject,
		"chapter": req.Chapter,
		"content": content,
	})
}

type quizRequest struct {
	Subject    string            `json:"subject"`
	Chapter    string            `json:"chapter"`
	Difficulty domain.Difficulty `json:"difficulty,omitempty"`
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	if s.tutor == nil {
		writeError(w, http.StatusServiceUnavailable, "tutor not configured")
		return
	}
	var req quizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Chapter) == "" {
		writeError(w, http.StatusBadRequest, "subject and chapter are required")
		return
	}

	sheet, err := s.tutor.Quiz(r.Context(), req.Subject, req.Chapter, req.Difficulty)
	if err != nil {
		writeError(w, statusForTutorError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

type chatRequest struct {
	History []tutor.ChatMessage `json:"history,omitempty"`
	Message string              `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.tutor == nil {
		writeError(w, http.StatusServiceUnavailable, "tutor not configured")
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := s.tutor.Chat(r.Context(), req.History, req.Message)
	if err != nil {
		writeError(w, statusForTutorError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

type speechRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	audio, err := s.speaker.Synthesize(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrSpeechDisabled) {
			writeError(w, http.StatusNotImplemented, "speech synthesis is disabled")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	w.WriteHeader(http.StatusOK)
	w.Write(audio)
}

func statusForTutorError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTutorUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrQuizMalformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
