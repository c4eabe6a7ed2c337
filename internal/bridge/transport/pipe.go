// Package transport moves bridge traffic over the filesystem: commands
// arrive on a named pipe read without blocking, and each response
// overwrites a plain output file.
package transport

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
	"github.com/cory-johannsen/simbridge/internal/observability"
)

const (
	// readChunk is the size of one non-blocking read.
	readChunk = 1024
	// maxPartialLine bounds the bytes buffered while waiting for a newline.
	maxPartialLine = 1 << 20
	// pipeMode is the permission set of a freshly created pipe.
	pipeMode = 0o666
)

// Pipe is the inbound command channel. It is not safe for concurrent use;
// the host polls it from the tick loop only.
type Pipe struct {
	path    string
	fd      int
	buf     []byte
	pending []string
	// failing is set after an open fails so the failure is logged once.
	failing bool

	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewPipe returns a closed Pipe for path.
//
// Precondition: path must be non-empty; logger must be non-nil.
func NewPipe(path string, logger *zap.Logger, metrics *observability.Metrics) *Pipe {
	return &Pipe{
		path:    path,
		fd:      -1,
		logger:  logger,
		metrics: metrics,
	}
}

// Path returns the pipe location.
func (p *Pipe) Path() string { return p.path }

// IsOpen reports whether the read end is currently held.
func (p *Pipe) IsOpen() bool { return p.fd >= 0 }

// Open creates the pipe if needed and opens it without blocking. The pipe is
// opened read-write so the Pipe itself counts as a writer: reads never see
// end of stream and clients can open the write end between polls.
// Opening an open Pipe is a no-op.
//
// Postcondition: IsOpen() is true when the returned error is nil.
func (p *Pipe) Open() error {
	if p.fd >= 0 {
		return nil
	}
	fd, err := p.open()
	p.metrics.ObservePipeOpen(err)
	if err != nil {
		if !p.failing {
			p.logger.Warn("request pipe unavailable",
				zap.String("path", p.path),
				zap.Error(err),
			)
		}
		p.failing = true
		return err
	}
	if p.failing {
		p.logger.Info("request pipe available again", zap.String("path", p.path))
	}
	p.failing = false
	p.fd = fd
	return nil
}

func (p *Pipe) open() (int, error) {
	if err := ensureFIFO(p.path); err != nil {
		return -1, err
	}
	fd, err := unix.Open(p.path, unix.O_RDWR|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("opening %s: %w", p.path, err)
	}
	return fd, nil
}

// ensureFIFO makes path a named pipe, replacing anything else found there.
func ensureFIFO(path string) error {
	var st unix.Stat_t
	err := unix.Stat(path, &st)
	switch {
	case err == nil:
		if st.Mode&unix.S_IFMT == unix.S_IFIFO {
			return nil
		}
		if err := unix.Unlink(path); err != nil {
			return fmt.Errorf("removing non-pipe %s: %w", path, err)
		}
	case !errors.Is(err, unix.ENOENT):
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := unix.Mkfifo(path, pipeMode); err != nil && !errors.Is(err, unix.EEXIST) {
		return fmt.Errorf("creating pipe %s: %w", path, err)
	}
	// Mkfifo honors the umask.
	if err := unix.Chmod(path, pipeMode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

// Poll reads everything currently available and returns up to max complete
// command lines, oldest first. max <= 0 returns every complete line. Lines
// beyond max stay queued for the next Poll.
//
// A closed pipe is reopened first. A read error closes it again; buffered
// bytes survive for the next Poll. Clients coming and going do not.
//
// Postcondition: Every returned line is trimmed and non-empty.
func (p *Pipe) Poll(max int) []string {
	if err := p.Open(); err == nil {
		p.drain()
	}
	p.splitLines()

	n := len(p.pending)
	if max > 0 && max < n {
		n = max
	}
	if n == 0 {
		return nil
	}
	lines := p.pending[:n:n]
	p.pending = p.pending[n:]
	return lines
}

func (p *Pipe) drain() {
	chunk := make([]byte, readChunk)
	for p.fd >= 0 {
		n, err := unix.Read(p.fd, chunk)
		switch {
		case err == nil && n > 0:
			p.buf = append(p.buf, chunk[:n]...)
		case err == nil:
			// Unreachable while the Pipe holds its own write side.
			p.logger.Debug("request pipe end of stream", zap.String("path", p.path))
			p.closeFD()
		case errors.Is(err, unix.EINTR):
		case errors.Is(err, unix.EAGAIN):
			return
		default:
			p.logger.Warn("reading request pipe",
				zap.String("path", p.path),
				zap.Error(err),
			)
			p.closeFD()
		}
	}
}

func (p *Pipe) splitLines() {
	for {
		i := bytes.IndexByte(p.buf, '\n')
		if i < 0 {
			break
		}
		line := string(p.buf[:i])
		p.buf = p.buf[i+1:]

		line = textutil.Trim(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		p.pending = append(p.pending, line)
	}

	if len(p.buf) > maxPartialLine {
		p.logger.Warn("discarding oversized partial command",
			zap.String("path", p.path),
			zap.Int("bytes", len(p.buf)),
		)
		p.buf = nil
	}
	if len(p.buf) == 0 {
		p.buf = nil
	}
}

func (p *Pipe) closeFD() {
	if p.fd < 0 {
		return
	}
	if err := unix.Close(p.fd); err != nil {
		p.logger.Debug("closing request pipe", zap.Error(err))
	}
	p.fd = -1
}

// Close releases the read end and discards buffered input. The pipe file
// itself is left in place.
func (p *Pipe) Close() {
	p.closeFD()
	p.buf = nil
	p.pending = nil
}
