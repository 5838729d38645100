// Package lexer splits source text into annotated lines. It does not parse;
// it only tracks which byte ranges of each line are code, string literal, or
// comment, so detectors can gate their matching on lexical context.
package lexer

import (
	"strings"

	"github.com/LetsJonnTV/CodeAnalytics/internal/lang"
)

// SpanKind classifies a byte range of a line.
type SpanKind int

const (
	KindCode SpanKind = iota
	KindString
	KindComment
)

// Span is a half-open byte range [Start, End) within a line's raw text.
type Span struct {
	Start, End int
	Kind       SpanKind
}

// Line is one annotated source line. Spans cover the raw text completely and
// in order. String spans include their delimiters.
type Line struct {
	Number int // 1-based
	Raw    string
	Spans  []Span
}

// Document is the lexer's output: the declared language plus one Line per
// source line. Immutable after Scan returns.
type Document struct {
	Language lang.Language
	Lines    []Line
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int { return len(d.Lines) }

// Blank reports whether the line is empty or whitespace only.
func (l *Line) Blank() bool { return strings.TrimSpace(l.Raw) == "" }

// CommentOnly reports whether every non-whitespace byte of the line lies in
// a comment span.
func (l *Line) CommentOnly() bool {
	if l.Blank() {
		return false
	}
	for _, sp := range l.Spans {
		if sp.Kind == KindComment {
			continue
		}
		if strings.TrimSpace(l.Raw[sp.Start:sp.End]) != "" {
			return false
		}
	}
	return true
}

// KindAt returns the span kind at a byte column (0-based). Out-of-range
// columns report KindCode.
func (l *Line) KindAt(col int) SpanKind {
	for _, sp := range l.Spans {
		if col >= sp.Start && col < sp.End {
			return sp.Kind
		}
	}
	return KindCode
}

// mask returns the raw line with every byte outside the kept kinds replaced
// by a space, preserving byte offsets for pattern matching.
func (l *Line) mask(keep func(SpanKind) bool) string {
	b := []byte(l.Raw)
	for _, sp := range l.Spans {
		if keep(sp.Kind) {
			continue
		}
		for i := sp.Start; i < sp.End; i++ {
			b[i] = ' '
		}
	}
	return string(b)
}

// Code returns the line with string and comment spans blanked out.
func (l *Line) Code() string {
	return l.mask(func(k SpanKind) bool { return k == KindCode })
}

// Strings returns the line with everything but string spans blanked out.
func (l *Line) Strings() string {
	return l.mask(func(k SpanKind) bool { return k == KindString })
}

// Comments returns the line with everything but comment spans blanked out.
func (l *Line) Comments() string {
	return l.mask(func(k SpanKind) bool { return k == KindComment })
}

// NoComments returns the line with only comment spans blanked out.
func (l *Line) NoComments() string {
	return l.mask(func(k SpanKind) bool { return k != KindComment })
}

// lexState carries open string/comment constructs across line boundaries.
type lexState struct {
	inString   bool
	strDelim   lang.StringDelim
	inComment  bool
	commentEnd string
}

// Scan lexes text into a Document for the given language. Unterminated
// multi-line strings and comments extend to end of file; no error is ever
// produced.
func Scan(text string, language lang.Language) *Document {
	syntax := lang.SyntaxFor(language)
	raw := splitLines(text)
	lines := make([]Line, len(raw))

	var st lexState
	for i, r := range raw {
		lines[i] = Line{Number: i + 1, Raw: r}
		lines[i].Spans = lexLine(r, syntax, &st)
	}
	return &Document{Language: language, Lines: lines}
}

func lexLine(line string, syntax lang.Syntax, st *lexState) []Span {
	var spans []Span
	pos := 0
	start := 0

	emit := func(end int, kind SpanKind) {
		if end > start {
			spans = append(spans, Span{Start: start, End: end, Kind: kind})
		}
		start = end
	}

	for pos < len(line) {
		switch {
		case st.inComment:
			if idx := strings.Index(line[pos:], st.commentEnd); idx >= 0 {
				pos += idx + len(st.commentEnd)
				emit(pos, KindComment)
				st.inComment = false
			} else {
				pos = len(line)
				emit(pos, KindComment)
			}

		case st.inString:
			closed := false
			for pos < len(line) {
				if st.strDelim.Escape && line[pos] == '\\' && pos+1 < len(line) {
					pos += 2
					continue
				}
				if strings.HasPrefix(line[pos:], st.strDelim.Close) {
					pos += len(st.strDelim.Close)
					closed = true
					break
				}
				pos++
			}
			emit(pos, KindString)
			if closed {
				st.inString = false
			}

		default:
			if open, kind, skip := openAt(line, pos, syntax, st); open {
				emit(pos, KindCode)
				pos += skip
				if kind == KindComment && st.commentEnd == "" {
					// line comment runs to end of line
					pos = len(line)
					emit(pos, KindComment)
					st.inComment = false
				}
				continue
			}
			pos++
		}
	}
	emit(len(line), trailingKind(st))

	// Non-multiline strings close at end of line, best effort.
	if st.inString && !st.strDelim.Multiline {
		st.inString = false
	}
	return spans
}

// openAt checks whether a comment or string construct opens at pos. It
// updates st and returns the number of bytes consumed by the delimiter.
func openAt(line string, pos int, syntax lang.Syntax, st *lexState) (bool, SpanKind, int) {
	for _, lc := range syntax.LineComments {
		if strings.HasPrefix(line[pos:], lc) {
			st.inComment = true
			st.commentEnd = ""
			return true, KindComment, len(lc)
		}
	}
	for _, bc := range syntax.BlockComments {
		if strings.HasPrefix(line[pos:], bc[0]) {
			st.inComment = true
			st.commentEnd = bc[1]
			return true, KindComment, len(bc[0])
		}
	}
	for _, sd := range syntax.Strings {
		if strings.HasPrefix(line[pos:], sd.Open) {
			st.inString = true
			st.strDelim = sd
			return true, KindString, len(sd.Open)
		}
	}
	return false, KindCode, 0
}

func trailingKind(st *lexState) SpanKind {
	switch {
	case st.inComment:
		return KindComment
	case st.inString:
		return KindString
	default:
		return KindCode
	}
}

// splitLines breaks text on \n, \r\n, or \r. A trailing unterminated line
// counts as a line; empty input yields no lines.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
