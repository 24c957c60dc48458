// Package jsonx extracts JSON payloads from free-form model output.
//
// Generative providers wrap JSON in markdown fences, prepend prose, and
// truncate mid-structure when an output-token cap is hit. Extract applies a
// sequence of increasingly tolerant recovery steps and returns the first
// payload that parses.
package jsonx

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrParse indicates that no parseable JSON payload could be recovered.
var ErrParse = errors.New("jsonx: no parseable JSON payload")

// A closing fence is optional: truncated responses often lose it.
var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)(?:```|$)")

// Extract returns the best-effort JSON payload contained in text.
//
// Recovery order: fenced block contents, substring from the first opening
// brace or bracket, the last complete top-level value found by depth
// scanning, and finally the text with the minimum closing sequence appended.
func Extract(text string) (json.RawMessage, error) {
	candidate := strings.TrimSpace(text)
	if candidate == "" {
		return nil, ErrParse
	}

	if m := fencedBlock.FindStringSubmatch(candidate); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	if idx := strings.IndexAny(candidate, "{["); idx >= 0 {
		candidate = candidate[idx:]
	} else {
		return nil, ErrParse
	}

	if json.Valid([]byte(candidate)) {
		return json.RawMessage(candidate), nil
	}

	if end, ok := completeValueEnd(candidate); ok {
		trimmed := candidate[:end]
		if json.Valid([]byte(trimmed)) {
			return json.RawMessage(trimmed), nil
		}
	}

	if repaired, ok := completeTruncated(candidate); ok {
		if json.Valid([]byte(repaired)) {
			return json.RawMessage(repaired), nil
		}
	}

	return nil, ErrParse
}

// Unmarshal extracts the payload from text and decodes it into v.
func Unmarshal(text string, v any) error {
	raw, err := Extract(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Join(ErrParse, err)
	}
	return nil
}

// completeValueEnd scans brace/bracket depth and reports the byte offset one
// past the end of the first complete top-level value, if one exists.
func completeValueEnd(s string) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

// completeTruncated appends the minimum closing sequence implied by the
// unmatched opening braces/brackets. When the scan ends inside a string
// literal or after a dangling comma, the incomplete tail is dropped first
// so the appended closers produce valid JSON.
func completeTruncated(s string) (string, bool) {
	var stack []byte
	inString := false
	escaped := false
	stringStart := -1
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			stringStart = i
		case '{', '[':
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				return "", false
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) == 0 {
		return "", false
	}

	if inString && stringStart >= 0 {
		s = s[:stringStart]
	}
	s = strings.TrimRight(s, " \t\r\n")
	s = strings.TrimSuffix(s, ",")

	var closers strings.Builder
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			closers.WriteByte('}')
		} else {
			closers.WriteByte(']')
		}
	}
	return s + closers.String(), true
}
