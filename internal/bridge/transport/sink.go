package transport

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// ErrMalformedEnvelope is returned by ParseEnvelope for text that is not a
// complete response.
var ErrMalformedEnvelope = errors.New("malformed response envelope")

const (
	envelopeHeader = "[RESULT]"
	statusOK       = "ok"
	statusError    = "error"
)

// Envelope is one response as it appears in the output file:
//
//	[RESULT]
//	status=ok|error
//	command=<line>
//
//	<body>
type Envelope struct {
	OK      bool
	Command string
	Body    string
}

// Marshal renders e in the wire format.
func (e Envelope) Marshal() []byte {
	status := statusOK
	if !e.OK {
		status = statusError
	}
	var b strings.Builder
	b.Grow(len(envelopeHeader) + len(e.Command) + len(e.Body) + 32)
	b.WriteString(envelopeHeader + "\n")
	b.WriteString("status=" + status + "\n")
	b.WriteString("command=" + e.Command + "\n")
	b.WriteString("\n")
	b.WriteString(e.Body + "\n")
	return []byte(b.String())
}

// ParseEnvelope decodes the output file contents. A file caught mid-write
// fails with ErrMalformedEnvelope.
func ParseEnvelope(data []byte) (Envelope, error) {
	text := string(data)
	header, rest, found := strings.Cut(text, "\n")
	if !found || header != envelopeHeader {
		return Envelope{}, fmt.Errorf("%w: missing %s header", ErrMalformedEnvelope, envelopeHeader)
	}

	statusLine, rest, found := strings.Cut(rest, "\n")
	if !found {
		return Envelope{}, fmt.Errorf("%w: missing status", ErrMalformedEnvelope)
	}
	var env Envelope
	switch statusLine {
	case "status=" + statusOK:
		env.OK = true
	case "status=" + statusError:
	default:
		return Envelope{}, fmt.Errorf("%w: bad status line %q", ErrMalformedEnvelope, statusLine)
	}

	commandLine, rest, found := strings.Cut(rest, "\n")
	command, hasPrefix := strings.CutPrefix(commandLine, "command=")
	if !found || !hasPrefix {
		return Envelope{}, fmt.Errorf("%w: missing command", ErrMalformedEnvelope)
	}
	env.Command = command

	body, hasSeparator := strings.CutPrefix(rest, "\n")
	if !hasSeparator || !strings.HasSuffix(body, "\n") {
		return Envelope{}, fmt.Errorf("%w: incomplete body", ErrMalformedEnvelope)
	}
	env.Body = strings.TrimSuffix(body, "\n")
	return env, nil
}

// Sink is the outbound response file. Every write replaces the previous
// response.
type Sink struct {
	path   string
	logger *zap.Logger
}

// NewSink returns a Sink writing to path.
//
// Precondition: path must be non-empty; logger must be non-nil.
func NewSink(path string, logger *zap.Logger) *Sink {
	return &Sink{path: path, logger: logger}
}

// Path returns the output file location.
func (s *Sink) Path() string { return s.path }

// Write truncates the output file and writes env. Short writes are not
// retried.
func (s *Sink) Write(env Envelope) error {
	if err := os.WriteFile(s.path, env.Marshal(), 0o644); err != nil {
		s.logger.Warn("writing response",
			zap.String("path", s.path),
			zap.String("command", env.Command),
			zap.Error(err),
		)
		return fmt.Errorf("writing response to %s: %w", s.path, err)
	}
	return nil
}
