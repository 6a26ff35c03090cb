package cli

import "strings"

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command (preserving spacing for
	// multi-word target names).
	RawArgs string
}

// Parse splits a text line into a command word and its arguments. The
// command is lowercased; the argument text keeps its original case so
// target-name matching can decide its own folding.
//
// Postcondition: An empty or all-whitespace line yields a zero ParseResult.
func Parse(line string) ParseResult {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	if cmd == "" {
		return ParseResult{}
	}
	rest = strings.TrimSpace(rest)

	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}
	return ParseResult{
		Command: strings.ToLower(cmd),
		Args:    args,
		RawArgs: rest,
	}
}
