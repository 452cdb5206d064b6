package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cory-johannsen/thirty/internal/game/scoring"
)

// ErrBadArgument is returned when a command argument cannot be interpreted.
var ErrBadArgument = errors.New("bad argument")

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command.
	RawArgs string
}

// Parse splits a text line into a command and arguments.
//
// Postcondition: Returns a ParseResult. If line is blank, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	spaceIdx := strings.IndexAny(line, " \t")
	if spaceIdx < 0 {
		return ParseResult{Command: strings.ToLower(line)}
	}

	rest := strings.TrimSpace(line[spaceIdx+1:])
	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}
	return ParseResult{
		Command: strings.ToLower(line[:spaceIdx]),
		Args:    args,
		RawArgs: rest,
	}
}

// DieIndices converts one-based die numbers into zero-based indices.
// Numbers may be separated by spaces or commas. A die named twice is held
// once, so "hold 1 1" does not toggle it back.
//
// Postcondition: Returns at least one distinct index in [0, scoring.DiceCount)
// in first-mention order, or an error wrapping ErrBadArgument.
func DieIndices(args []string) ([]int, error) {
	var out []int
	var seen [scoring.DiceCount]bool
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			if field == "" {
				continue
			}
			n, err := strconv.Atoi(field)
			if err != nil || n < 1 || n > scoring.DiceCount {
				return nil, fmt.Errorf("%w: die %q, want 1-%d", ErrBadArgument, field, scoring.DiceCount)
			}
			if seen[n-1] {
				continue
			}
			seen[n-1] = true
			out = append(out, n-1)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no dice named", ErrBadArgument)
	}
	return out, nil
}

// CategoryArg parses the single category argument of the score command.
//
// Postcondition: Returns a valid category, or an error wrapping ErrBadArgument
// or scoring.ErrInvalidCategory.
func CategoryArg(args []string) (scoring.Category, error) {
	if len(args) != 1 {
		return scoring.Category{}, fmt.Errorf("%w: want exactly one category", ErrBadArgument)
	}
	return scoring.ParseCategory(args[0])
}
