package speech

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/13pathak/AI-Popup-Infopedia/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcess struct {
	once   sync.Once
	done   chan error
	killed bool
}

func newFakeProcess() *fakeProcess {
	return &fakeProcess{done: make(chan error, 1)}
}

func (p *fakeProcess) Wait() error { return <-p.done }

func (p *fakeProcess) Kill() error {
	p.killed = true
	p.finish(errors.New("signal: killed"))
	return nil
}

func (p *fakeProcess) finish(err error) {
	p.once.Do(func() { p.done <- err })
}

type startCall struct {
	name string
	args []string
}

type fakeLauncher struct {
	mu        sync.Mutex
	available map[string]bool
	starts    []startCall
	procs     []*fakeProcess
	startErr  error
}

func (l *fakeLauncher) LookPath(name string) (string, error) {
	if l.available[name] {
		return "/usr/bin/" + name, nil
	}
	return "", errors.New("not found")
}

func (l *fakeLauncher) Start(name string, args ...string) (Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.startErr != nil {
		return nil, l.startErr
	}
	p := newFakeProcess()
	l.starts = append(l.starts, startCall{name: name, args: args})
	l.procs = append(l.procs, p)
	return p, nil
}

func receive(t *testing.T, s *Service) any {
	t.Helper()
	select {
	case msg := <-s.events:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for speech event")
		return nil
	}
}

func TestService_SpeakUsesDetectedBackend(t *testing.T) {
	launcher := &fakeLauncher{available: map[string]bool{"espeak": true}}
	s := NewService(launcher, "", nil)

	s.Speak("**Leaf** is\ngreen", engine.SpeechOptions{Rate: 1, Voice: "en"})

	require.Len(t, launcher.starts, 1)
	assert.Equal(t, "espeak", launcher.starts[0].name)
	assert.Equal(t, []string{"-s", "175", "-v", "en", "--", "Leaf is green"}, launcher.starts[0].args)
	assert.True(t, s.Active())

	launcher.procs[0].finish(nil)
	assert.Equal(t, EndedMsg{}, receive(t, s))
	assert.False(t, s.Active())
}

func TestService_SpeakReplacesCurrent(t *testing.T) {
	launcher := &fakeLauncher{available: map[string]bool{"spd-say": true}}
	s := NewService(launcher, "", nil)

	s.Speak("one", engine.SpeechOptions{})
	s.Speak("two", engine.SpeechOptions{})

	require.Len(t, launcher.procs, 2)
	assert.True(t, launcher.procs[0].killed)
	assert.False(t, launcher.procs[1].killed)

	launcher.procs[1].finish(nil)
	assert.Equal(t, EndedMsg{}, receive(t, s), "only the surviving utterance reports")
	assert.Empty(t, s.events)
}

func TestService_StopSendsNothing(t *testing.T) {
	launcher := &fakeLauncher{available: map[string]bool{"espeak": true}}
	s := NewService(launcher, "", nil)

	s.Speak("hello", engine.SpeechOptions{})
	s.Stop()

	assert.True(t, launcher.procs[0].killed)
	assert.False(t, s.Active())

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, s.events)

	s.Stop()
}

func TestService_CommandOverride(t *testing.T) {
	launcher := &fakeLauncher{}
	s := NewService(launcher, "piper-say --fast", nil)

	s.Speak("word", engine.SpeechOptions{Rate: 2})

	require.Len(t, launcher.starts, 1)
	assert.Equal(t, "piper-say", launcher.starts[0].name)
	assert.Equal(t, []string{"--fast", "word"}, launcher.starts[0].args)
}

func TestService_Errors(t *testing.T) {
	t.Run("no backend", func(t *testing.T) {
		s := NewService(&fakeLauncher{}, "", nil)
		s.Speak("word", engine.SpeechOptions{})

		msg, ok := receive(t, s).(ErrorMsg)
		require.True(t, ok)
		assert.ErrorIs(t, msg.Err, ErrNoBackend)
		assert.False(t, s.Active())
	})

	t.Run("start fails", func(t *testing.T) {
		boom := errors.New("exec format error")
		s := NewService(&fakeLauncher{startErr: boom}, "say", nil)
		s.Speak("word", engine.SpeechOptions{})

		msg, ok := receive(t, s).(ErrorMsg)
		require.True(t, ok)
		assert.ErrorIs(t, msg.Err, boom)
	})

	t.Run("empty text", func(t *testing.T) {
		launcher := &fakeLauncher{available: map[string]bool{"espeak": true}}
		s := NewService(launcher, "", nil)
		s.Speak(" ** ", engine.SpeechOptions{})
		assert.Empty(t, launcher.starts)
		assert.Equal(t, EndedMsg{}, receive(t, s), "empty text still ends the utterance")
		assert.False(t, s.Active())
	})
}

func TestArgs(t *testing.T) {
	tests := []struct {
		backend string
		opts    engine.SpeechOptions
		want    []string
	}{
		{backend: "say", opts: engine.SpeechOptions{Rate: 2, Voice: "Alex"}, want: []string{"-r", "350", "-v", "Alex", "--", "hi"}},
		{backend: "espeak-ng", opts: engine.SpeechOptions{}, want: []string{"--", "hi"}},
		{backend: "spd-say", opts: engine.SpeechOptions{Rate: 1.5}, want: []string{"-w", "-r", "50", "--", "hi"}},
		{backend: "spd-say", opts: engine.SpeechOptions{Rate: 5, Voice: "female1"}, want: []string{"-w", "-r", "100", "-y", "female1", "--", "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			assert.Equal(t, tt.want, Args(tt.backend, "hi", tt.opts))
		})
	}
}

func TestArgs_DashLeadingText(t *testing.T) {
	for _, backend := range []string{"say", "espeak", "espeak-ng", "spd-say"} {
		t.Run(backend, func(t *testing.T) {
			args := Args(backend, "-v is a flag", engine.SpeechOptions{Voice: "en"})
			require.GreaterOrEqual(t, len(args), 2)
			assert.Equal(t, []string{"--", "-v is a flag"}, args[len(args)-2:])
		})
	}
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Bold and more", CleanText("**Bold** and\r\nmore"))
	assert.Equal(t, "", CleanText("\n"))
}
