package output

import (
	"encoding/json"
	"io"

	"prwatch/internal/model"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format outputs processed pull requests as a JSON array. An empty result
// set encodes as [], never null.
func (f *JSONFormatter) Format(prs []model.ProcessedPR, w io.Writer) error {
	if prs == nil {
		prs = []model.ProcessedPR{}
	}
	encoder := json.NewEncoder(w)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(prs)
}
