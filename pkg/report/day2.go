package report

import (
	"encoding/json"
	"io"

	"github.com/netsim-forge/netsim/pkg/day2"
)

// WriteDay2JSON marshals a Day-2 test report as indented JSON to w.
func WriteDay2JSON(w io.Writer, r *day2.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
