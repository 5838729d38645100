package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchGlob(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"*.py", "main.py", true},
		{"*.py", "sub/main.py", true}, // base-name match
		{"*.py", "main.js", false},
		{"dist/**", "dist/a/b.js", true},
		{"dist/**", "dist", true},
		{"dist/**", "src/a.js", false},
		{"**/*.min.js", "a/b/app.min.js", true},
		{"**/*.min.js", "app.min.js", true},
		{"**/*.min.js", "app.js", false},
		{"src/**/testdata", "src/a/b/testdata", true},
		{"src/**/testdata", "lib/testdata", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, matchGlob(tc.pattern, tc.path),
			"%s vs %s", tc.pattern, tc.path)
	}
}

func TestIsBinaryExt(t *testing.T) {
	assert.True(t, isBinaryExt("img.PNG"))
	assert.True(t, isBinaryExt("app.exe"))
	assert.False(t, isBinaryExt("main.py"))
	assert.False(t, isBinaryExt("README.md"))
}
