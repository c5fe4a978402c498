// Package speech drives the platform text-to-speech command as a single
// global channel: starting a new utterance stops the previous one.
package speech

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/13pathak/AI-Popup-Infopedia/internal/domain"
	"github.com/13pathak/AI-Popup-Infopedia/internal/engine"
)

// wordsPerMinute is the speaking rate that Rate 1.0 maps to
const wordsPerMinute = 175

// ErrNoBackend is returned when no speech command is available
var ErrNoBackend = errors.New("no text-to-speech command found")

// Process is a running speech command
type Process interface {
	Wait() error
	Kill() error
}

// Launcher abstracts process creation for testing
type Launcher interface {
	LookPath(name string) (string, error)
	Start(name string, args ...string) (Process, error)
}

// ExecLauncher starts real processes using os/exec
type ExecLauncher struct{}

// LookPath reports whether name is on PATH
func (ExecLauncher) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Start launches name with args
func (ExecLauncher) Start(name string, args ...string) (Process, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return execProcess{cmd}, nil
}

type execProcess struct {
	cmd *exec.Cmd
}

func (p execProcess) Wait() error { return p.cmd.Wait() }
func (p execProcess) Kill() error { return p.cmd.Process.Kill() }

// EndedMsg is sent when an utterance finishes on its own
type EndedMsg struct{}

// ErrorMsg is sent when speech could not start
type ErrorMsg struct {
	Err error
}

type playback struct {
	proc    Process
	stopped bool
}

// Service implements engine.Speaker
type Service struct {
	launcher Launcher
	command  string
	logger   *slog.Logger

	mu      sync.Mutex
	current *playback
	events  chan tea.Msg
}

// NewService creates a speech service. command overrides the detected
// backend; it is split on whitespace and the text is appended.
func NewService(launcher Launcher, command string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		launcher: launcher,
		command:  command,
		logger:   logger,
		events:   make(chan tea.Msg, 1),
	}
}

// SetCommand changes the override command for later utterances
func (s *Service) SetCommand(command string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.command = command
}

// Speak stops whatever is playing and speaks text
func (s *Service) Speak(text string, opts engine.SpeechOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	text = CleanText(text)
	if text == "" {
		// nothing will play, so end the utterance the caller marked as started
		s.notify(EndedMsg{})
		return
	}

	name, args, err := s.resolveLocked(text, opts)
	if err != nil {
		s.notify(ErrorMsg{Err: &domain.SpeechError{Op: "speak", Err: err}})
		return
	}

	proc, err := s.launcher.Start(name, args...)
	if err != nil {
		s.notify(ErrorMsg{Err: &domain.SpeechError{Op: "speak", Err: err}})
		return
	}
	s.logger.Debug("speech started", "command", name, "chars", len(text))

	p := &playback{proc: proc}
	s.current = p
	go s.wait(p)
}

// Stop kills the current utterance, if any. No EndedMsg is sent for it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// Active reports whether something is being spoken
func (s *Service) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Listen returns a command that waits for the next speech event
func (s *Service) Listen() tea.Cmd {
	return func() tea.Msg {
		return <-s.events
	}
}

func (s *Service) stopLocked() {
	if s.current == nil {
		return
	}
	s.current.stopped = true
	if err := s.current.proc.Kill(); err != nil {
		s.logger.Debug("speech kill failed", "error", err)
	}
	s.current = nil
}

func (s *Service) wait(p *playback) {
	err := p.proc.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if p.stopped || s.current != p {
		return
	}
	s.current = nil
	if err != nil {
		s.logger.Warn("speech command failed", "error", err)
	}
	s.notify(EndedMsg{})
}

// notify never blocks; a pending event is replaced by the newer one
func (s *Service) notify(msg tea.Msg) {
	select {
	case s.events <- msg:
	default:
		select {
		case <-s.events:
		default:
		}
		s.events <- msg
	}
}

func (s *Service) resolveLocked(text string, opts engine.SpeechOptions) (string, []string, error) {
	if s.command != "" {
		fields := strings.Fields(s.command)
		return fields[0], append(fields[1:], text), nil
	}

	candidates := []string{"espeak-ng", "espeak", "spd-say"}
	if runtime.GOOS == "darwin" {
		candidates = append([]string{"say"}, candidates...)
	}
	for _, name := range candidates {
		if _, err := s.launcher.LookPath(name); err == nil {
			return name, Args(name, text, opts), nil
		}
	}
	return "", nil, ErrNoBackend
}

// Args builds the argument list for a known backend
func Args(backend, text string, opts engine.SpeechOptions) []string {
	var args []string
	switch backend {
	case "say":
		if opts.Rate > 0 {
			args = append(args, "-r", strconv.Itoa(wpm(opts.Rate)))
		}
		if opts.Voice != "" {
			args = append(args, "-v", opts.Voice)
		}
	case "espeak", "espeak-ng":
		if opts.Rate > 0 {
			args = append(args, "-s", strconv.Itoa(wpm(opts.Rate)))
		}
		if opts.Voice != "" {
			args = append(args, "-v", opts.Voice)
		}
	case "spd-say":
		args = append(args, "-w")
		if opts.Rate > 0 {
			args = append(args, "-r", strconv.Itoa(spdRate(opts.Rate)))
		}
		if opts.Voice != "" {
			args = append(args, "-y", opts.Voice)
		}
	}
	// text may start with a dash
	return append(args, "--", text)
}

func wpm(rate float64) int {
	return int(rate * wordsPerMinute)
}

// spdRate maps a 0.1..10 multiplier onto speech-dispatcher's -100..100
func spdRate(rate float64) int {
	r := int((rate - 1) * 100)
	return max(-100, min(100, r))
}

// CleanText strips markdown emphasis and flattens line breaks
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(text)
	return strings.TrimSpace(text)
}

func (m ErrorMsg) String() string {
	return fmt.Sprintf("speech error: %v", m.Err)
}
