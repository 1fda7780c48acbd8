// Package detector supervises the external emotion detection process and
// runs the line-oriented request/response protocol against it.
package detector

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mtuomin/moodwatch-go/internal/conf"
	"github.com/mtuomin/moodwatch-go/internal/errors"
	"github.com/mtuomin/moodwatch-go/internal/logging"
)

// Protocol tokens, one per line on the child's stdin.
const (
	detectToken = "DETECT"
	quitToken   = "QUIT"
)

const (
	// stopPollInterval is how often Stop checks whether the child has
	// exited after QUIT.
	stopPollInterval = 100 * time.Millisecond
	// stopTimeout bounds the graceful shutdown wait before the child is
	// force-killed.
	stopTimeout = 5 * time.Second
)

// State is the detector session lifecycle state.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ErrNotRunning is returned by Detect when no detector process is running.
var ErrNotRunning = stderrors.New("detector process not running")

// Supervisor owns exactly one external detector process. The process handle
// never escapes it; all handle access (Start, Detect, Stop) is serialized
// through one mutex so a shutdown cannot race an in-flight round-trip.
type Supervisor struct {
	mu     sync.Mutex // guards the process handle and pipes
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	stateMu   sync.RWMutex // guards the fields below, readable while mu is held elsewhere
	state     State
	sessionID string
	pid       int
	startedAt time.Time

	command string
	args    []string
	log     *slog.Logger
}

// NewSupervisor creates a supervisor for the configured detector command.
// The process is not launched until Start.
func NewSupervisor(settings *conf.Settings) *Supervisor {
	return &Supervisor{
		command: settings.Detector.Command,
		args:    settings.Detector.Args,
		log:     logging.ForService("detector"),
	}
}

func (s *Supervisor) setState(state State) {
	s.stateMu.Lock()
	s.state = state
	s.stateMu.Unlock()
}

// State returns the current session state without touching the handle lock.
func (s *Supervisor) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Start launches the detector process with piped stdin, stdout and stderr.
// It is a no-op when a session is already running. A launch failure leaves
// the supervisor in NotStarted.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return nil
	}

	cmd := exec.Command(s.command, s.args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return s.launchError("stdin pipe", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return s.launchError("stdout pipe", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return s.launchError("stderr pipe", err)
	}

	if err := cmd.Start(); err != nil {
		return s.launchError("launch", err)
	}

	s.cmd = cmd
	s.stdin = stdin
	s.stdout = bufio.NewReader(stdout)

	s.stateMu.Lock()
	s.state = StateRunning
	s.sessionID = uuid.New().String()
	s.pid = cmd.Process.Pid
	s.startedAt = time.Now()
	s.stateMu.Unlock()

	// forward the child's stderr into our log; the goroutine ends when
	// the pipe closes on process exit
	go s.drainStderr(stderr)

	s.log.Info("detector process started",
		"pid", cmd.Process.Pid,
		"session_id", s.sessionID,
		"command", s.command)
	return nil
}

func (s *Supervisor) launchError(stage string, err error) error {
	return errors.New(fmt.Errorf("failed to start detector process (%s): %w", stage, err)).
		Component("detector").
		Category(errors.CategoryProcess).
		Context("stage", stage).
		Context("command", s.command).
		Build()
}

func (s *Supervisor) drainStderr(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		s.log.Debug("detector stderr", "line", scanner.Text())
	}
}

// Detect performs one request/response round-trip: it writes the DETECT
// token and blocks until one full response line arrives. There is no read
// timeout; callers wanting responsiveness run this off their interaction
// thread. A write or read failure means the process is dead — the error is
// surfaced and the process is not restarted.
func (s *Supervisor) Detect() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil {
		return "", errors.New(ErrNotRunning).
			Component("detector").
			Category(errors.CategoryProcess).
			Build()
	}

	if _, err := fmt.Fprintf(s.stdin, "%s\n", detectToken); err != nil {
		return "", errors.New(fmt.Errorf("failed to write to detector stdin: %w", err)).
			Component("detector").
			Category(errors.CategoryProcess).
			Context("pid", s.cmd.Process.Pid).
			Build()
	}

	line, err := s.stdout.ReadString('\n')
	if err != nil {
		return "", errors.New(fmt.Errorf("failed to read from detector stdout: %w", err)).
			Component("detector").
			Category(errors.CategoryProcess).
			Context("pid", s.cmd.Process.Pid).
			Build()
	}

	return strings.TrimSpace(line), nil
}

// Stop shuts the detector process down. It is idempotent and safe to call
// on teardown: a QUIT token is written best-effort, then the process exit
// is polled every stopPollInterval up to stopTimeout. A process that
// ignores QUIT is force-killed and reaped. The end state is Stopped either
// way.
func (s *Supervisor) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil {
		return nil
	}

	cmd := s.cmd
	s.setState(StateStopping)
	s.log.Info("stopping detector process", "pid", cmd.Process.Pid)

	// best-effort: a dead process cannot take the quit token anyway
	if s.stdin != nil {
		_, _ = fmt.Fprintf(s.stdin, "%s\n", quitToken)
		_ = s.stdin.Close()
	}

	waitDone := make(chan error, 1)
	go func() {
		waitDone <- cmd.Wait()
	}()

	exited := false
	deadline := time.Now().Add(stopTimeout)
poll:
	for time.Now().Before(deadline) {
		select {
		case <-waitDone:
			exited = true
			break poll
		case <-time.After(stopPollInterval):
		}
	}

	if exited {
		s.log.Info("detector process exited gracefully", "pid", cmd.Process.Pid)
	} else {
		s.log.Warn("detector process ignored quit, killing", "pid", cmd.Process.Pid)
		if err := cmd.Process.Kill(); err != nil {
			s.log.Error("failed to kill detector process", "pid", cmd.Process.Pid, "error", err)
		}
		// block until the OS reclaims the child
		<-waitDone
	}

	s.cmd = nil
	s.stdin = nil
	s.stdout = nil
	s.setState(StateStopped)
	return nil
}
