// Package client sends single commands to a running bridge and waits for
// the matching response.
package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sys/unix"

	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
	"github.com/cory-johannsen/simbridge/internal/bridge/transport"
)

// DefaultTimeout bounds each of the two phases of Send.
const DefaultTimeout = 2 * time.Second

// defaultPoll is the retry period while the pipe has no reader and the
// fallback re-read period while waiting for the response.
const defaultPoll = 50 * time.Millisecond

var (
	// ErrEmptyCommand is returned for a blank command.
	ErrEmptyCommand = errors.New("empty command")
	// ErrTimeout is returned when the pipe or the response does not appear in time.
	ErrTimeout = errors.New("timed out")
)

// Response is a decoded response together with the file text it came from.
type Response struct {
	transport.Envelope
	Raw string
}

// Client talks to one bridge through its pipe and response file.
type Client struct {
	InputPipe  string
	OutputPath string
	// Timeout bounds waiting for a reader on the pipe, and separately
	// waiting for the response. Zero uses DefaultTimeout.
	Timeout time.Duration
	// Poll is the retry period. Zero uses 50ms.
	Poll time.Duration
}

// New returns a Client with default timing.
func New(inputPipe, outputPath string) *Client {
	return &Client{InputPipe: inputPipe, OutputPath: outputPath}
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

func (c *Client) poll() time.Duration {
	if c.Poll > 0 {
		return c.Poll
	}
	return defaultPoll
}

// Send writes command to the pipe and returns the first response written
// after the send that echoes command. A rewrite is detected by a change of
// contents or of modification time, so repeating a command with an
// unchanged answer still completes.
//
// Precondition: ctx may carry an earlier deadline than Timeout.
// Postcondition: Returns the response, or ErrEmptyCommand, ErrTimeout or an
// I/O error.
func (c *Client) Send(ctx context.Context, command string) (Response, error) {
	command = textutil.Trim(command)
	if command == "" {
		return Response{}, ErrEmptyCommand
	}

	previous, err := readSnapshot(c.OutputPath)
	if err != nil {
		return Response{}, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return Response{}, fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(c.OutputPath)); err != nil {
		return Response{}, fmt.Errorf("watching %s: %w", filepath.Dir(c.OutputPath), err)
	}

	if err := c.write(ctx, command); err != nil {
		return Response{}, err
	}
	return c.wait(ctx, watcher, previous, command)
}

// write opens the pipe without blocking, retrying while it is missing or has
// no reader, and writes one line.
func (c *Client) write(ctx context.Context, command string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	var fd int
	for {
		var err error
		fd, err = unix.Open(c.InputPipe, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		if err == nil {
			break
		}
		if !errors.Is(err, unix.ENOENT) && !errors.Is(err, unix.ENXIO) {
			return fmt.Errorf("opening %s: %w", c.InputPipe, err)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w waiting for pipe %s", ErrTimeout, c.InputPipe)
		case <-time.After(c.poll()):
		}
	}

	pipe := os.NewFile(uintptr(fd), c.InputPipe)
	defer pipe.Close()
	if _, err := pipe.WriteString(command + "\n"); err != nil {
		return fmt.Errorf("writing to %s: %w", c.InputPipe, err)
	}
	return nil
}

// wait re-reads the response file on every change event, and on a timer in
// case an event is missed, until a fresh response for command appears.
func (c *Client) wait(ctx context.Context, watcher *fsnotify.Watcher, previous snapshot, command string) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	target := filepath.Clean(c.OutputPath)
	ticker := time.NewTicker(c.poll())
	defer ticker.Stop()

	for {
		if resp, done := c.check(previous, command); done {
			return resp, nil
		}
		select {
		case <-ctx.Done():
			return Response{}, fmt.Errorf("%w waiting for response in %s", ErrTimeout, c.OutputPath)
		case event, ok := <-watcher.Events:
			if !ok {
				return Response{}, errors.New("response watcher closed")
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return Response{}, errors.New("response watcher closed")
			}
			return Response{}, fmt.Errorf("watching response: %w", err)
		case <-ticker.C:
		}
	}
}

// check reports whether the response file now holds a complete response to
// command. A file caught mid-write is treated as not ready.
func (c *Client) check(previous snapshot, command string) (Response, bool) {
	current, err := readSnapshot(c.OutputPath)
	if err != nil || current.same(previous) || !strings.Contains(current.text, "command="+command) {
		return Response{}, false
	}
	env, err := transport.ParseEnvelope([]byte(current.text))
	if err != nil || env.Command != command {
		return Response{}, false
	}
	return Response{Envelope: env, Raw: current.text}, true
}

// snapshot is the observable state of the response file.
type snapshot struct {
	text     string
	modified time.Time
}

func (s snapshot) same(other snapshot) bool {
	return s.text == other.text && s.modified.Equal(other.modified)
}

// readSnapshot returns the file state, or the zero snapshot when the file
// does not exist.
func readSnapshot(path string) (snapshot, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return snapshot{}, nil
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("stat %s: %w", path, err)
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return snapshot{}, nil
	}
	if err != nil {
		return snapshot{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return snapshot{text: string(data), modified: info.ModTime()}, nil
}
