package lang

import "regexp"

// StringDelim describes one string literal form for a language.
type StringDelim struct {
	Open      string
	Close     string
	Escape    bool // backslash escapes the closing delimiter
	Multiline bool // literal may span line breaks
}

// Syntax is a language's lexical table. The lexer, structure extractor, and
// flow detector all read from it; it is never mutated after construction.
type Syntax struct {
	LineComments  []string
	BlockComments [][2]string
	Strings       []StringDelim
	IndentBased   bool // nesting tracked by indentation instead of braces
	FuncPattern   *regexp.Regexp
	ClassPattern  *regexp.Regexp
	LoopPattern   *regexp.Regexp
}

var (
	cFunc      = regexp.MustCompile(`^\s*(?:[\w<>\[\]:*&]+\s+)+\w+\s*\([^;]*$|^\s*(?:function|func|fn)\s+\w+`)
	genericCls = regexp.MustCompile(`^\s*(?:public\s+|private\s+|abstract\s+|final\s+|export\s+)*(?:class|struct|interface|enum)\s+\w+`)
	cLoop      = regexp.MustCompile(`^\s*(?:for|while|do)\b`)
)

var syntaxes = map[Language]Syntax{
	Python: {
		LineComments: []string{"#"},
		Strings: []StringDelim{
			{Open: `"""`, Close: `"""`, Escape: true, Multiline: true},
			{Open: `'''`, Close: `'''`, Escape: true, Multiline: true},
			{Open: `"`, Close: `"`, Escape: true},
			{Open: `'`, Close: `'`, Escape: true},
		},
		IndentBased:  true,
		FuncPattern:  regexp.MustCompile(`^\s*(?:async\s+)?def\s+\w+`),
		ClassPattern: regexp.MustCompile(`^\s*class\s+\w+`),
		LoopPattern:  regexp.MustCompile(`^\s*(?:for|while)\b.*:`),
	},
	JavaScript: {
		LineComments:  []string{"//"},
		BlockComments: [][2]string{{"/*", "*/"}},
		Strings: []StringDelim{
			{Open: "`", Close: "`", Escape: true, Multiline: true},
			{Open: `"`, Close: `"`, Escape: true},
			{Open: `'`, Close: `'`, Escape: true},
		},
		FuncPattern:  regexp.MustCompile(`^\s*(?:async\s+)?function\s*\*?\s*\w*|^\s*(?:const|let|var)\s+\w+\s*=\s*(?:async\s*)?(?:function|\([^)]*\)\s*=>|\w+\s*=>)`),
		ClassPattern: regexp.MustCompile(`^\s*(?:export\s+)?(?:default\s+)?class\s+\w+`),
		LoopPattern:  cLoop,
	},
	Go: {
		LineComments:  []string{"//"},
		BlockComments: [][2]string{{"/*", "*/"}},
		Strings: []StringDelim{
			{Open: "`", Close: "`", Multiline: true},
			{Open: `"`, Close: `"`, Escape: true},
			{Open: `'`, Close: `'`, Escape: true},
		},
		FuncPattern:  regexp.MustCompile(`^\s*func\s+(?:\([^)]+\)\s*)?\w+`),
		ClassPattern: regexp.MustCompile(`^\s*type\s+\w+\s+(?:struct|interface)\b`),
		LoopPattern:  regexp.MustCompile(`^\s*for\b`),
	},
	Rust: {
		LineComments:  []string{"//"},
		BlockComments: [][2]string{{"/*", "*/"}},
		Strings: []StringDelim{
			{Open: `"`, Close: `"`, Escape: true, Multiline: true},
		},
		FuncPattern:  regexp.MustCompile(`^\s*(?:pub\s+)?(?:async\s+)?fn\s+\w+`),
		ClassPattern: regexp.MustCompile(`^\s*(?:pub\s+)?(?:struct|enum|trait)\s+\w+`),
		LoopPattern:  regexp.MustCompile(`^\s*(?:for|while|loop)\b`),
	},
	Ruby: {
		LineComments: []string{"#"},
		Strings: []StringDelim{
			{Open: `"`, Close: `"`, Escape: true},
			{Open: `'`, Close: `'`, Escape: true},
		},
		IndentBased:  true,
		FuncPattern:  regexp.MustCompile(`^\s*def\s+\w+`),
		ClassPattern: regexp.MustCompile(`^\s*(?:class|module)\s+\w+`),
		LoopPattern:  regexp.MustCompile(`^\s*(?:for|while|until)\b|\.each\b`),
	},
	Shell: {
		LineComments: []string{"#"},
		Strings: []StringDelim{
			{Open: `"`, Close: `"`, Escape: true, Multiline: true},
			{Open: `'`, Close: `'`, Multiline: true},
		},
		IndentBased: true,
		FuncPattern: regexp.MustCompile(`^\s*(?:function\s+)?\w+\s*\(\)\s*\{?`),
		LoopPattern: regexp.MustCompile(`^\s*(?:for|while|until)\b`),
	},
	SQL: {
		LineComments:  []string{"--"},
		BlockComments: [][2]string{{"/*", "*/"}},
		Strings: []StringDelim{
			{Open: `'`, Close: `'`},
		},
	},
	HTML: {
		BlockComments: [][2]string{{"<!--", "-->"}},
		Strings: []StringDelim{
			{Open: `"`, Close: `"`},
			{Open: `'`, Close: `'`},
		},
	},
	CSS: {
		BlockComments: [][2]string{{"/*", "*/"}},
		Strings: []StringDelim{
			{Open: `"`, Close: `"`, Escape: true},
			{Open: `'`, Close: `'`, Escape: true},
		},
	},
	YAML: {
		LineComments: []string{"#"},
		Strings: []StringDelim{
			{Open: `"`, Close: `"`, Escape: true},
			{Open: `'`, Close: `'`},
		},
		IndentBased: true,
	},
	Markdown: {
		Strings: nil,
	},
	JSON: {
		Strings: []StringDelim{
			{Open: `"`, Close: `"`, Escape: true},
		},
	},
}

// cStyle covers the brace languages that share C's comment and string forms.
var cStyle = Syntax{
	LineComments:  []string{"//"},
	BlockComments: [][2]string{{"/*", "*/"}},
	Strings: []StringDelim{
		{Open: `"`, Close: `"`, Escape: true},
		{Open: `'`, Close: `'`, Escape: true},
	},
	FuncPattern:  cFunc,
	ClassPattern: genericCls,
	LoopPattern:  cLoop,
}

// generic is the Unknown-language fallback: both comment families, both
// quote styles, brace/indent hybrid nesting.
var generic = Syntax{
	LineComments:  []string{"#", "//"},
	BlockComments: [][2]string{{"/*", "*/"}},
	Strings: []StringDelim{
		{Open: `"`, Close: `"`, Escape: true},
		{Open: `'`, Close: `'`, Escape: true},
	},
	FuncPattern:  regexp.MustCompile(`^\s*(?:def|function|func|fn)\s+\w+`),
	ClassPattern: regexp.MustCompile(`^\s*class\s+\w+`),
	LoopPattern:  cLoop,
}

// SyntaxFor returns the lexical table for a language. TypeScript shares
// JavaScript's table; C-family languages share one C-style table; anything
// unmapped gets the generic fallback.
func SyntaxFor(l Language) Syntax {
	switch l {
	case TypeScript:
		return syntaxes[JavaScript]
	case C, CPP, CSharp, Java, Swift, Kotlin, PHP:
		s := cStyle
		if l == PHP {
			s.LineComments = []string{"//", "#"}
		}
		return s
	}
	if s, ok := syntaxes[l]; ok {
		return s
	}
	return generic
}
