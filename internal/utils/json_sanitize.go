package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// nonFiniteTokens are bare literals that pandas writes for missing floats
var nonFiniteTokens = [][]byte{
	[]byte("-Infinity"),
	[]byte("Infinity"),
	[]byte("NaN"),
}

// SanitizeJSON replaces bare NaN / Infinity / -Infinity literals outside of
// strings with null so the document can be decoded by encoding/json.
func SanitizeJSON(input []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(input))

	inString := false
	escape := false

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if escape {
			out.WriteByte(ch)
			escape = false
			continue
		}

		if inString {
			if ch == '\\' {
				escape = true
			} else if ch == '"' {
				inString = false
			}
			out.WriteByte(ch)
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if n := matchNonFinite(input[i:]); n > 0 {
			out.WriteString("null")
			i += n - 1
			continue
		}

		out.WriteByte(ch)
	}

	return out.Bytes()
}

func matchNonFinite(rest []byte) int {
	for _, tok := range nonFiniteTokens {
		if bytes.HasPrefix(rest, tok) {
			return len(tok)
		}
	}
	return 0
}

// DecodeTolerant sanitises and decodes input into target
func DecodeTolerant(input []byte, target interface{}) error {
	if len(bytes.TrimSpace(input)) == 0 {
		return fmt.Errorf("empty input")
	}
	if err := json.Unmarshal(SanitizeJSON(input), target); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// Truncate shortens s to maxLen runes, appending "..." when cut
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
