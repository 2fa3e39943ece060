package speech

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"sync"
	"time"
)

// DefaultTimeout bounds a single TTS invocation. Coaching phrases are a
// few words, anything longer than this means the command is stuck.
const DefaultTimeout = 10 * time.Second

// queueSize bounds pending utterances. The feedback throttler upstream
// already rate-limits speech, so a small queue is enough; when it still
// fills up, newer utterances are dropped rather than spoken late.
const queueSize = 4

// ExecAnnouncer speaks by running a system TTS command (say, espeak,
// spd-say) once per utterance, with the text appended as the final
// argument. Utterances are spoken one at a time by a worker goroutine so
// they never overlap.
type ExecAnnouncer struct {
	command string
	args    []string
	timeout time.Duration

	queue chan string
	done  chan struct{}
	once  sync.Once
}

// NewExecAnnouncer creates an announcer that runs the given command for
// each utterance.
func NewExecAnnouncer(command string, args ...string) *ExecAnnouncer {
	a := &ExecAnnouncer{
		command: command,
		args:    args,
		timeout: DefaultTimeout,
		queue:   make(chan string, queueSize),
		done:    make(chan struct{}),
	}

	go a.run()
	return a
}

// SetTimeout overrides the per-utterance timeout.
func (a *ExecAnnouncer) SetTimeout(d time.Duration) {
	a.timeout = d
}

// Say queues text for speech. When the queue is full the text is dropped;
// stale coaching feedback is worse than none.
func (a *ExecAnnouncer) Say(text string) {
	if text == "" {
		return
	}

	select {
	case a.queue <- text:
	default:
		log.Printf("speech: queue full, dropping %q", text)
	}
}

// Close stops the worker. Queued utterances are discarded; an utterance
// already being spoken finishes or times out.
func (a *ExecAnnouncer) Close() error {
	a.once.Do(func() {
		close(a.done)
	})
	return nil
}

func (a *ExecAnnouncer) run() {
	for {
		select {
		case <-a.done:
			return
		case text := <-a.queue:
			if err := a.speak(text); err != nil {
				log.Printf("speech: %v", err)
			}
		}
	}
}

// speak runs one TTS invocation with a timeout.
func (a *ExecAnnouncer) speak(text string) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	args := make([]string, 0, len(a.args)+1)
	args = append(args, a.args...)
	args = append(args, text)

	cmd := exec.CommandContext(ctx, a.command, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("tts command timeout after %s", a.timeout)
	}

	if err != nil {
		if s := stderr.String(); s != "" {
			return fmt.Errorf("tts command failed: %w, stderr: %s", err, s)
		}
		return fmt.Errorf("tts command failed: %w", err)
	}

	return nil
}
