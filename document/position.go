package document

// Position is a zero-based row/column location, matching LSP coordinates.
type Position struct {
	Line      uint32
	Character uint32
}

// Range is a half-open [Start, End) span of document text.
type Range struct {
	Start Position
	End   Position
}

// Before reports whether p is strictly before q in document order.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}

	return p.Character < q.Character
}

// Contains reports whether pos falls within r. The end bound is
// inclusive so that a cursor sitting immediately after the last rune of
// a token still counts as inside it.
func (r Range) Contains(pos Position) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}

	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}

	if pos.Line == r.End.Line && pos.Character > r.End.Character {
		return false
	}

	return true
}

// fromYAML converts yaml.v3's one-based line/column to a Position.
func fromYAML(line, column int) Position {
	if line < 1 {
		line = 1
	}

	if column < 1 {
		column = 1
	}

	return Position{Line: uint32(line - 1), Character: uint32(column - 1)}
}
