// Package telnet serves the Thirty table over Telnet with ANSI styling.
package telnet

import "fmt"

// ANSI escape codes used when rendering dice and score sheets.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Cyan    = "\033[36m"
	Magenta = "\033[35m"

	BrightWhite = "\033[97m"
)

// Colorize wraps text with the given ANSI code and a reset suffix.
func Colorize(color, text string) string {
	return color + text + Reset
}

// Colorf wraps a formatted string with the given ANSI code.
func Colorf(color, format string, args ...interface{}) string {
	return color + fmt.Sprintf(format, args...) + Reset
}

// StripANSI removes \033[...m sequences, giving the printable text of a
// styled string. An unterminated sequence is kept as-is.
func StripANSI(s string) string {
	result := make([]byte, 0, len(s))
	for i := 0; i < len(s); {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			if j < len(s) {
				i = j + 1
				continue
			}
		}
		result = append(result, s[i])
		i++
	}
	return string(result)
}

// VisibleWidth is the printable length of s once ANSI codes are removed.
func VisibleWidth(s string) int {
	return len([]rune(StripANSI(s)))
}

// PadRight pads s with spaces to a printable width of n.
func PadRight(s string, n int) string {
	for w := VisibleWidth(s); w < n; w++ {
		s += " "
	}
	return s
}
