// Package ingest turns uploaded CSV question lists into question drafts.
//
// Parsing is permissive: malformed rows are dropped rather than rejected, and
// every field falls back to a neutral value when it is missing or garbage.
// The only hard failure is a file without any data rows.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"leetracker/internal/models"
)

var ErrEmptyInput = errors.New("csv has no data rows")

// Result is the outcome of parsing one file.
type Result struct {
	Drafts  []models.QuestionDraft
	Dropped int // rows with fewer than two fields
}

// columns holds the header index for each known field, -1 when absent.
type columns struct {
	difficulty int
	title      int
	frequency  int
	acceptance int
	link       int
	topics     int
	completed  int
}

// ParseReader reads r fully and parses it.
func ParseReader(r io.Reader) (*Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return Parse(string(raw))
}

// Parse parses raw CSV text.
func Parse(raw string) (*Result, error) {
	lines := nonBlankLines(raw)
	if len(lines) < 2 {
		return nil, ErrEmptyInput
	}

	cols := locateColumns(SplitLine(lines[0]))
	res := &Result{Drafts: make([]models.QuestionDraft, 0, len(lines)-1)}

	for i := 1; i < len(lines); i++ {
		fields := SplitLine(lines[i])
		if len(fields) < 2 {
			res.Dropped++
			continue
		}
		res.Drafts = append(res.Drafts, coerceRow(fields, cols, i))
	}
	return res, nil
}

func nonBlankLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// SplitLine splits one CSV line on commas outside double quotes. A quote only
// toggles quoting; it is never part of the field. Fields are trimmed.
func SplitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}

func locateColumns(header []string) columns {
	find := func(key string) int {
		for i, h := range header {
			if strings.Contains(strings.ToLower(h), key) {
				return i
			}
		}
		return -1
	}
	return columns{
		difficulty: find("difficulty"),
		title:      find("title"),
		frequency:  find("frequency"),
		acceptance: find("acceptance"),
		link:       find("link"),
		topics:     find("topic"),
		completed:  find("completed"),
	}
}

// field returns the value at idx, or "" when the column is missing or the
// row is short.
func field(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}

func coerceRow(fields []string, cols columns, rowIndex int) models.QuestionDraft {
	title := strings.TrimSpace(field(fields, cols.title))
	if title == "" {
		title = fmt.Sprintf("Question %d", rowIndex)
	}
	return models.QuestionDraft{
		Title:          title,
		Difficulty:     CoerceDifficulty(field(fields, cols.difficulty)),
		Frequency:      coerceFrequency(field(fields, cols.frequency)),
		AcceptanceRate: coerceAcceptance(field(fields, cols.acceptance)),
		Link:           strings.TrimSpace(field(fields, cols.link)),
		Topics:         SplitTopics(field(fields, cols.topics)),
		Completed:      coerceBool(field(fields, cols.completed)),
	}
}

// CoerceDifficulty maps free text onto the three levels, Medium by default.
func CoerceDifficulty(s string) models.Difficulty {
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "easy"):
		return models.Easy
	case strings.Contains(lower, "hard"):
		return models.Hard
	default:
		return models.Medium
	}
}

func coerceFrequency(s string) float64 {
	v := parseFloat(s)
	if v < 0 {
		return 0
	}
	return v
}

func coerceAcceptance(s string) float64 {
	v := parseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

var topicStrip = strings.NewReplacer("[", "", "]", "", `"`, "")

// SplitTopics strips list punctuation and splits on , ; or |.
func SplitTopics(s string) []string {
	cleaned := topicStrip.Replace(s)
	parts := strings.FieldsFunc(cleaned, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	topics := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			topics = append(topics, p)
		}
	}
	return topics
}

func coerceBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	}
	return false
}
