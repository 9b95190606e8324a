package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nvandessel/flipstudy/internal/spacing"
)

// WriteJSONL writes one JSON object per row.
func WriteJSONL(w io.Writer, rows []spacing.ExportRow) error {
	enc := json.NewEncoder(w)
	for i, r := range rows {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding row %d: %w", i, err)
		}
	}
	return nil
}
