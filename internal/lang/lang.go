// Package lang maps file names to language identifiers and carries the
// per-language lexical tables (comment markers, string delimiters, structure
// patterns) that the rest of the engine is parameterized by.
package lang

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Language identifies a supported programming language. Unknown disables
// language-specific rules but keeps the generic rule set active.
type Language int

const (
	Unknown Language = iota
	Python
	JavaScript
	TypeScript
	Go
	Rust
	C
	CPP
	CSharp
	Java
	Ruby
	PHP
	Swift
	Kotlin
	Shell
	SQL
	HTML
	CSS
	YAML
	JSON
	Markdown
)

var names = map[Language]string{
	Unknown:    "Unknown",
	Python:     "Python",
	JavaScript: "JavaScript",
	TypeScript: "TypeScript",
	Go:         "Go",
	Rust:       "Rust",
	C:          "C",
	CPP:        "C++",
	CSharp:     "C#",
	Java:       "Java",
	Ruby:       "Ruby",
	PHP:        "PHP",
	Swift:      "Swift",
	Kotlin:     "Kotlin",
	Shell:      "Shell",
	SQL:        "SQL",
	HTML:       "HTML",
	CSS:        "CSS",
	YAML:       "YAML",
	JSON:       "JSON",
	Markdown:   "Markdown",
}

func (l Language) String() string {
	if name, ok := names[l]; ok {
		return name
	}
	return "Unknown"
}

// Parse converts a language name (as used in rule files and CLI flags) to a
// Language. Matching is case-insensitive and accepts common aliases.
func Parse(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "python", "py":
		return Python, nil
	case "javascript", "js":
		return JavaScript, nil
	case "typescript", "ts":
		return TypeScript, nil
	case "go", "golang":
		return Go, nil
	case "rust":
		return Rust, nil
	case "c":
		return C, nil
	case "c++", "cpp":
		return CPP, nil
	case "c#", "csharp":
		return CSharp, nil
	case "java":
		return Java, nil
	case "ruby", "rb":
		return Ruby, nil
	case "php":
		return PHP, nil
	case "swift":
		return Swift, nil
	case "kotlin", "kt":
		return Kotlin, nil
	case "shell", "sh", "bash":
		return Shell, nil
	case "sql":
		return SQL, nil
	case "html":
		return HTML, nil
	case "css":
		return CSS, nil
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	case "markdown", "md":
		return Markdown, nil
	case "unknown", "":
		return Unknown, nil
	default:
		return Unknown, fmt.Errorf("unknown language: %q", s)
	}
}

var extensions = map[string]Language{
	".py":       Python,
	".pyw":      Python,
	".js":       JavaScript,
	".jsx":      JavaScript,
	".mjs":      JavaScript,
	".cjs":      JavaScript,
	".ts":       TypeScript,
	".tsx":      TypeScript,
	".go":       Go,
	".rs":       Rust,
	".c":        C,
	".h":        C,
	".cpp":      CPP,
	".cc":       CPP,
	".cxx":      CPP,
	".hpp":      CPP,
	".cs":       CSharp,
	".java":     Java,
	".rb":       Ruby,
	".php":      PHP,
	".swift":    Swift,
	".kt":       Kotlin,
	".kts":      Kotlin,
	".sh":       Shell,
	".bash":     Shell,
	".zsh":      Shell,
	".sql":      SQL,
	".html":     HTML,
	".htm":      HTML,
	".css":      CSS,
	".scss":     CSS,
	".yaml":     YAML,
	".yml":      YAML,
	".json":     JSON,
	".md":       Markdown,
	".markdown": Markdown,
}

// Classify maps a file name to a Language by extension, falling back to
// Unknown. Pure function; content sniffing is available via ClassifyContent.
func Classify(filename string) Language {
	ext := strings.ToLower(filepath.Ext(filename))
	if l, ok := extensions[ext]; ok {
		return l
	}
	return Unknown
}

// ClassifyContent classifies by file name first and falls back to a shebang
// sniff of the first line when the extension is not recognized.
func ClassifyContent(filename string, content string) Language {
	if l := Classify(filename); l != Unknown {
		return l
	}
	first, _, _ := strings.Cut(content, "\n")
	if !strings.HasPrefix(first, "#!") {
		return Unknown
	}
	switch {
	case strings.Contains(first, "python"):
		return Python
	case strings.Contains(first, "node"):
		return JavaScript
	case strings.Contains(first, "ruby"):
		return Ruby
	case strings.Contains(first, "php"):
		return PHP
	case strings.Contains(first, "sh"):
		return Shell
	default:
		return Unknown
	}
}
