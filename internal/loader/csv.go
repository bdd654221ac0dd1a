package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVLoader handles tabular note exports, e.g. an EHR dump with one field
// per column. Each row flattens to one line; a header row whose second
// cell carries the body ("section,text") degrades gracefully because the
// detector ignores lines it cannot classify.
type CSVLoader struct{}

func (l *CSVLoader) Load(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are fine

	var out strings.Builder
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read csv: %w", err)
		}

		var cells []string
		for _, cell := range record {
			cell = strings.TrimSpace(cell)
			if cell != "" {
				cells = append(cells, cell)
			}
		}
		if len(cells) == 0 {
			continue
		}
		if out.Len() > 0 {
			out.WriteString("\n")
		}
		// Two-column rows read naturally as "header: content".
		if len(cells) == 2 {
			out.WriteString(cells[0] + ": " + cells[1])
		} else {
			out.WriteString(strings.Join(cells, " "))
		}
	}

	return out.String(), nil
}
