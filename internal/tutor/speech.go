package tutor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/codexa-learn/codexa/internal/domain"
)

// ─── Speech Synthesis ───────────────────────────────────────────────────────
// Lessons can be read aloud. Synthesis runs fully offline by shelling
// out to a local speech engine; no text leaves the machine.

// Speaker turns lesson text into WAV audio.
type Speaker interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// SpeechOptions tune the synthesized voice.
type SpeechOptions struct {
	Voice string // engine voice id, empty for the system default
	Rate  int    // words per minute
}

// DefaultSpeechOptions mirrors a comfortable reading pace.
func DefaultSpeechOptions() SpeechOptions {
	return SpeechOptions{Rate: 175}
}

// LocalSpeaker synthesizes via a local espeak-ng binary.
type LocalSpeaker struct {
	binPath string
	opts    SpeechOptions
	log     *logrus.Entry
}

// NewLocalSpeaker locates a speech engine binary. Returns
// ErrSpeechDisabled when none is installed so the caller can hide the
// read-aloud feature instead of failing requests.
func NewLocalSpeaker(opts SpeechOptions) (*LocalSpeaker, error) {
	path, err := findSpeechEngine()
	if err != nil {
		return nil, err
	}
	if opts.Rate <= 0 {
		opts.Rate = DefaultSpeechOptions().Rate
	}
	return &LocalSpeaker{
		binPath: path,
		opts:    opts,
		log:     logrus.WithField("component", "speech"),
	}, nil
}

func findSpeechEngine() (string, error) {
	names := []string{"espeak-ng", "espeak"}
	if runtime.GOOS == "darwin" {
		names = append([]string{"say"}, names...)
	}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no speech engine found (install espeak-ng)",
		domain.ErrSpeechDisabled)
}

// Synthesize renders text to WAV bytes.
func (s *LocalSpeaker) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty text", domain.ErrInvalidEvent)
	}

	tmp, err := os.CreateTemp("", "codexa-tts-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create temp wav: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	args := s.buildArgs(text, tmpPath)
	cmd := exec.CommandContext(ctx, s.binPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		s.log.WithField("stderr", strings.TrimSpace(stderr.String())).
			Warn("speech synthesis failed")
		return nil, fmt.Errorf("speech engine: %w", err)
	}

	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read synthesized wav: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("speech engine produced no audio")
	}
	return data, nil
}

func (s *LocalSpeaker) buildArgs(text, outPath string) []string {
	if filepath.Base(s.binPath) == "say" {
		args := []string{"-o", outPath, "--data-format=LEI16@22050"}
		if s.opts.Voice != "" {
			args = append(args, "-v", s.opts.Voice)
		}
		return append(args, text)
	}
	args := []string{"-w", outPath, "-s", fmt.Sprintf("%d", s.opts.Rate)}
	if s.opts.Voice != "" {
		args = append(args, "-v", s.opts.Voice)
	}
	return append(args, text)
}

// DisabledSpeaker is used when speech is turned off in config.
type DisabledSpeaker struct{}

// Synthesize always reports the feature as disabled.
func (DisabledSpeaker) Synthesize(context.Context, string) ([]byte, error) {
	return nil, domain.ErrSpeechDisabled
}
