package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/cory-johannsen/simbridge/internal/bridge/transport"
)

// BridgePaths returns fresh command pipe and response file locations inside
// a per-test directory. Neither file exists yet.
func BridgePaths(t *testing.T) (inputPipe, outputPath string) {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "cli-in"), filepath.Join(dir, "cli-out.txt")
}

// PipeClient writes commands into a bridge pipe and reads back the response
// file, for tests that drive the bridge from the same goroutine.
type PipeClient struct {
	w      *os.File
	output string
	t      *testing.T
}

// NewPipeClient opens the write end of inputPipe and holds it for the rest
// of the test so the bridge never sees end of stream.
//
// Precondition: the bridge must already hold the read end of inputPipe.
// Postcondition: Returns a connected PipeClient or fails the test.
func NewPipeClient(t *testing.T, inputPipe, outputPath string) *PipeClient {
	t.Helper()
	start := time.Now()

	fd, err := unix.Open(inputPipe, unix.O_WRONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("opening %s for writing: %v [%s]", inputPipe, err, time.Since(start))
	}
	w := os.NewFile(uintptr(fd), inputPipe)
	t.Cleanup(func() {
		w.Close()
	})

	t.Logf("pipe client attached to %s [%s]", inputPipe, time.Since(start))
	return &PipeClient{w: w, output: outputPath, t: t}
}

// Send writes text followed by a newline.
//
// Precondition: text should not contain a trailing newline.
// Postcondition: text + "\n" is in the pipe, or the test has failed.
func (c *PipeClient) Send(text string) {
	c.t.Helper()
	if _, err := c.w.WriteString(text + "\n"); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// SendRaw writes text exactly as given.
func (c *PipeClient) SendRaw(text string) {
	c.t.Helper()
	if _, err := c.w.WriteString(text); err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Response parses the current response file.
//
// Postcondition: Returns the decoded envelope or fails the test.
func (c *PipeClient) Response() transport.Envelope {
	c.t.Helper()
	data, err := os.ReadFile(c.output)
	if err != nil {
		c.t.Fatalf("reading response: %v", err)
	}
	env, err := transport.ParseEnvelope(data)
	if err != nil {
		c.t.Fatalf("parsing response %q: %v", data, err)
	}
	return env
}
