package utils

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// MaxLogStringLength is the maximum number of runes kept from user-provided strings in logs
const MaxLogStringLength = 200

// logTimeLayout is the compact timestamp used for booking ranges in logs
const logTimeLayout = "2006-01-02 15:04"

// unprintable matches anything that is not a letter, number, punctuation, symbol or space
var unprintable = regexp.MustCompile(`[^\p{L}\p{N}\p{P}\p{S}\p{Z}]`)

// SanitizeLogString sanitizes a user-controlled string such as a room name or
// booking title for safe logging. It replaces control characters and limits
// the length without splitting a character. The result is meant to be passed
// as a log argument, never as a format string.
func SanitizeLogString(input string) string {
	if input == "" {
		return ""
	}

	if utf8.RuneCountInString(input) > MaxLogStringLength {
		input = string([]rune(input)[:MaxLogStringLength]) + "... (truncated)"
	}

	// Pre-process CRLF to avoid double spaces
	input = strings.ReplaceAll(input, "\r\n", "\n")

	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, input)

	return unprintable.ReplaceAllString(sanitized, "")
}

// FormatRange renders a booking interval for logs, omitting the end date when
// both ends fall on the same day
func FormatRange(start, end time.Time) string {
	if start.Year() == end.Year() && start.YearDay() == end.YearDay() && start.Location() == end.Location() {
		return start.Format(logTimeLayout) + "-" + end.Format("15:04")
	}
	return start.Format(logTimeLayout) + " - " + end.Format(logTimeLayout)
}
