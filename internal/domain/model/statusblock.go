package model

import (
	"fmt"
	"strings"
)

// HTML comment markers delimiting the iteration status block in a PR body.
const (
	statusBlockStart = "<!-- prpilot-status-start -->"
	statusBlockEnd   = "<!-- prpilot-status-end -->"
)

// BuildStatusBlock renders the status block content, with an optional
// free-form status message appended.
func BuildStatusBlock(statusMessage string) string {
	var b strings.Builder
	b.WriteString(statusBlockStart)
	b.WriteString("\n")
	b.WriteString("> **🤖 LLM Iteration In Progress**\n")
	b.WriteString("> \n")
	b.WriteString("> This PR is being iterated on with help from an LLM assistant.\n")
	b.WriteString("> It is not ready for human review yet.\n")
	if statusMessage != "" {
		b.WriteString("> \n")
		fmt.Fprintf(&b, "> **Status:** %s\n", statusMessage)
	}
	b.WriteString(statusBlockEnd)
	return b.String()
}

// UpdateBodyWithStatus returns the body with a fresh status block at the top,
// replacing any existing one.
func UpdateBodyWithStatus(currentBody, statusMessage string) string {
	withoutStatus := RemoveStatusBlock(currentBody)
	block := BuildStatusBlock(statusMessage)

	if withoutStatus == "" {
		return block
	}
	return block + "\n\n" + withoutStatus
}

// RemoveStatusBlock returns the body with the status block removed and the
// surrounding blank lines tidied. A malformed block (start marker without an
// end marker) is left untouched.
func RemoveStatusBlock(body string) string {
	startIdx := strings.Index(body, statusBlockStart)
	if startIdx < 0 {
		return body
	}
	endIdx := strings.Index(body, statusBlockEnd)
	if endIdx < 0 {
		return body
	}
	endIdx += len(statusBlockEnd)

	before := strings.TrimRight(body[:startIdx], " \t\n")
	after := strings.TrimLeft(body[endIdx:], " \t\n")

	switch {
	case before == "":
		return after
	case after == "":
		return before
	default:
		return before + "\n\n" + after
	}
}

// HasStatusBlock reports whether the body contains a complete status block.
func HasStatusBlock(body string) bool {
	return strings.Contains(body, statusBlockStart) && strings.Contains(body, statusBlockEnd)
}
