// Package cli provides the interactive encounter front end: command parsing,
// text rendering, and the turn loop that drives an encounter.
package cli

import "fmt"

// ANSI escape code constants for terminal styling.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	// Foreground colors
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"

	// Bright foreground colors
	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightCyan   = "\033[96m"
	BrightWhite  = "\033[97m"
)

// Colorize wraps text with the given ANSI color code and a reset suffix.
//
// Precondition: color must be a valid ANSI escape sequence.
// Postcondition: Returns text wrapped with the color code and Reset.
func Colorize(color, text string) string {
	return color + text + Reset
}

// Colorf wraps a formatted string with the given ANSI color code.
//
// Precondition: color must be a valid ANSI escape sequence.
// Postcondition: Returns the formatted text wrapped with color and Reset.
func Colorf(color, format string, args ...interface{}) string {
	return color + fmt.Sprintf(format, args...) + Reset
}
