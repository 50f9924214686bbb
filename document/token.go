package document

import "strings"

// isTokenByte reports whether b can be part of a completion token.
// Colons are included so colon-triggered prefixes like "Fn:" survive,
// as are the characters appearing in resource type names and parameter
// types (AWS::S3::Bucket, List<Number>).
func isTokenByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_', b == ':', b == '!', b == '.', b == '-', b == '<', b == '>':
		return true
	}

	return false
}

// TokenAt extracts the partial token surrounding pos together with its
// span. The token is what fuzzy matching filters on and what a text
// edit replaces.
func (t *Tree) TokenAt(pos Position) (string, Range) {
	line := t.Line(int(pos.Line))
	col := int(pos.Character)

	if col > len(line) {
		col = len(line)
	}

	start := col
	for start > 0 && isTokenByte(line[start-1]) {
		start--
	}

	end := col
	for end < len(line) && isTokenByte(line[end]) {
		end++
	}

	return line[start:end], Range{
		Start: Position{Line: pos.Line, Character: uint32(start)},
		End:   Position{Line: pos.Line, Character: uint32(end)},
	}
}

// QuotedRange widens r by one character on each side when the token is
// wrapped in double quotes, so a replacement can swallow them. Used for
// JSON documents only.
func (t *Tree) QuotedRange(r Range) (Range, bool) {
	line := t.Line(int(r.Start.Line))

	s, e := int(r.Start.Character), int(r.End.Character)
	if s > 0 && e < len(line) && line[s-1] == '"' && line[e] == '"' {
		return Range{
			Start: Position{Line: r.Start.Line, Character: uint32(s - 1)},
			End:   Position{Line: r.End.Line, Character: uint32(e + 1)},
		}, true
	}

	return r, false
}

// DetectIndent returns the document's indentation unit in spaces, or
// zero when no indented line exists yet and the unit cannot be known.
func (t *Tree) DetectIndent() int {
	for _, line := range t.lines {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" || trimmed == line || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if n := len(line) - len(trimmed); n > 0 {
			return n
		}
	}

	return 0
}
