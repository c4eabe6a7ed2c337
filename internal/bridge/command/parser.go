package command

import (
	"errors"

	"github.com/cory-johannsen/simbridge/internal/bridge/textutil"
)

// ErrEmpty is returned for a line with no tokens.
var ErrEmpty = errors.New("empty_command")

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first token, lowercased.
	Command string
	// Args are the remaining tokens with quoting removed and case preserved.
	Args []string
}

// Arg returns the i-th argument, or "" when absent.
func (p ParseResult) Arg(i int) string {
	if i < 0 || i >= len(p.Args) {
		return ""
	}
	return p.Args[i]
}

// Rest joins the arguments from index first onward with single spaces.
func (p ParseResult) Rest(first int) string {
	return textutil.JoinTokens(p.Args, first)
}

// Parse tokenizes a request line into a command and arguments.
//
// Postcondition: Returns ErrEmpty if the line holds no tokens; otherwise
// Command is non-empty and lowercase.
func Parse(line string) (ParseResult, error) {
	tokens := textutil.Tokenize(line)
	if len(tokens) == 0 {
		return ParseResult{}, ErrEmpty
	}
	result := ParseResult{Command: textutil.Lower(tokens[0])}
	if len(tokens) > 1 {
		result.Args = tokens[1:]
	}
	return result, nil
}
