// Package csvtable parses published spreadsheet CSV exports.
//
// Google Sheets "publish to web" output is comma-separated with optional
// quoted fields and "" as the escaped-quote sequence. Column order is not
// guaranteed; headers drift across independently maintained sheets, so
// callers resolve columns through alias lists rather than fixed indices.
package csvtable

import "strings"

// NotFound is the sentinel returned by FindColumn when no alias matches.
const NotFound = -1

// SplitLine tokenizes one line of CSV text into its raw field values.
//
// A quote toggles the in-quotes flag unless the next character is also a
// quote, which encodes one literal quote inside the field. A comma outside
// quotes ends the field. An unterminated quote at end of line is tolerated;
// the field simply ends. This never fails: malformed quoting degrades to a
// best-effort split instead of dropping the row.
func SplitLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	fields = append(fields, current.String())

	return fields
}

// Table is a parsed CSV payload: a lowercased header row and trimmed data rows.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Parse splits full CSV text into a header row and data rows. Blank lines
// are dropped. Fewer than two non-blank lines yields an empty table, never
// an error.
func Parse(text string) Table {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var lines []string
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) < 2 {
		return Table{}
	}

	headers := SplitLine(lines[0])
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	rows := make([][]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := SplitLine(line)
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
		}
		rows = append(rows, fields)
	}

	return Table{Headers: headers, Rows: rows}
}

// FindColumn returns the index of the first alias present in the header
// row, or NotFound. Headers are already lowercased by Parse; aliases are
// expected lowercase.
func FindColumn(headers []string, aliases ...string) int {
	for _, alias := range aliases {
		for i, h := range headers {
			if h == alias {
				return i
			}
		}
	}
	return NotFound
}

// Field returns the trimmed value of column idx in row, or "" when the
// column is missing or the row is short.
func Field(row []string, idx int) string {
	if idx == NotFound || idx >= len(row) {
		return ""
	}
	return row[idx]
}
