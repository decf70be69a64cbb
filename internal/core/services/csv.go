package services

import (
	"strings"

	"finvault/internal/core/domain"
)

// splitLines breaks file content on bare or carriage-return-prefixed line
// endings and discards blank lines. The first surviving line is the header.
func splitLines(content string) []string {
	raw := strings.Split(content, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// parseLine splits one CSV line on commas, honoring double-quoted fields:
// a comma inside quotes is literal, a doubled quote inside a quoted field is
// an escaped quote, and each field is whitespace-trimmed after unquoting.
func parseLine(line string) []string {
	var (
		result   []string
		current  strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if ch == '"' {
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
			continue
		}

		if ch == ',' && !inQuotes {
			result = append(result, strings.TrimSpace(current.String()))
			current.Reset()
			continue
		}

		current.WriteRune(ch)
	}

	result = append(result, strings.TrimSpace(current.String()))
	return result
}

// columnIndex maps the logical import columns onto header positions.
// category is optional and stays -1 when absent.
type columnIndex struct {
	date     int
	title    int
	amount   int
	typ      int
	category int
}

// resolveHeader lower-cases the header fields and locates the logical
// columns. Missing any required column rejects the whole upload before a
// single row is touched.
func resolveHeader(fields []string) (columnIndex, error) {
	idx := columnIndex{date: -1, title: -1, amount: -1, typ: -1, category: -1}

	for i, field := range fields {
		switch strings.ToLower(field) {
		case "date":
			idx.date = i
		case "title":
			idx.title = i
		case "amount":
			idx.amount = i
		case "type":
			idx.typ = i
		case "category":
			idx.category = i
		}
	}

	if idx.date == -1 || idx.title == -1 || idx.amount == -1 || idx.typ == -1 {
		return columnIndex{}, domain.ErrMissingColumns
	}
	return idx, nil
}

// pick returns the field at position i, or "" when the row is shorter than
// the header promised.
func pick(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}
