package output

import (
	"encoding/json"
	"io"

	"github.com/LetsJonnTV/CodeAnalytics/internal/types"
)

// JSONFormatter outputs the full scan result as indented JSON.
type JSONFormatter struct{}

func (f *JSONFormatter) Format(w io.Writer, result *types.ScanResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
