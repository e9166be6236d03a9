package lmc

import "strings"

// token is one lexical unit of the source language, tagged with the source
// line it came from so the compiler can report "source:line: syntax error:
// '<token>'" (spec ss4.2, ss7).
type token struct {
	text string
	line int
}

// tokenize strips "//" and "#" comments to end of line, then splits the
// remainder into whitespace-delimited tokens. This mirrors the teacher's
// preprocessLine (comment-stripping regex + strings.Split), simplified
// because the LMC source grammar has no labels or quoted strings.
func tokenize(source string) []token {
	var tokens []token
	for i, raw := range strings.Split(source, "\n") {
		line := stripComment(raw)
		for _, f := range strings.Fields(line) {
			tokens = append(tokens, token{text: f, line: i + 1})
		}
	}
	return tokens
}

func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}
	if idx := strings.Index(line, "//"); idx >= 0 {
		line = line[:idx]
	}
	return line
}

// isAddrMode reports whether text is one of the addressing-mode modifiers
// from spec ss4.2's grammar ('@', '*@', '*').
func isAddrMode(text string) bool {
	switch text {
	case "@", "*@", "*":
		return true
	}
	return false
}

// addrModeIndirection maps an addressing-mode token to the opcode bits it
// contributes (spec ss4.1: '@' sets VAR, '*@'/'*' sets VAR|PTR).
func addrModeIndirection(text string) Opcode {
	switch text {
	case "@":
		return VAR
	case "*@", "*":
		return VAR | PTR
	}
	return 0
}
