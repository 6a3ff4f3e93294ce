package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"leetracker/internal/models"
)

// Header is the column layout produced by Write and understood by Parse.
var Header = []string{"Difficulty", "Title", "Frequency", "Acceptance Rate", "Link", "Topics", "Completed"}

// Write renders questions as CSV that Parse reads back.
func Write(w io.Writer, questions []models.Question) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, q := range questions {
		record := []string{
			string(q.Difficulty),
			q.Title,
			strconv.FormatFloat(q.Frequency, 'f', -1, 64),
			strconv.FormatFloat(q.AcceptanceRate, 'f', -1, 64) + "%",
			q.Link,
			strings.Join(q.Topics, ";"),
			strconv.FormatBool(q.Completed),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %q: %w", q.Title, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
