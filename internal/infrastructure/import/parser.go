package csvimport

import (
	"errors"
	"strings"
)

// ErrEmptyFile is returned when the CSV file has no non-blank lines
var ErrEmptyFile = errors.New("CSV file is empty")

// Record is a parsed CSV data row
type Record struct {
	// Line is the 1-indexed position within the file's non-blank lines;
	// the header row is line 1.
	Line int
	// Fields holds the raw field values in column order
	Fields []string
	// Data maps header name to field value
	Data map[string]string
}

// IsEmpty returns true if every field of the record is empty
func (r *Record) IsEmpty() bool {
	for _, f := range r.Fields {
		if f != "" {
			return false
		}
	}
	return true
}

// Get returns the value for a column by header name
func (r *Record) Get(header string) string {
	return r.Data[header]
}

// Document is a fully parsed CSV/TSV export
type Document struct {
	Headers   []string
	Delimiter rune
	Rows      []Record
}

// DetectDelimiter picks the field delimiter by counting occurrences in a
// text sample (the first few lines). Sampling only the head avoids
// mis-detecting a delimiter that shows up inside quoted free text further
// down. Tabs win only when strictly more frequent than both alternatives;
// semicolons beat commas the same way.
func DetectDelimiter(sample string) rune {
	commas := strings.Count(sample, ",")
	semicolons := strings.Count(sample, ";")
	tabs := strings.Count(sample, "\t")

	if tabs > commas && tabs > semicolons {
		return '\t'
	}
	if semicolons > commas {
		return ';'
	}
	return ','
}

// ParseLine splits one line into trimmed fields, honoring RFC-4180 quoting:
// a doubled quote inside a quoted span unescapes to a literal quote, and
// delimiters inside quotes do not end the field.
func ParseLine(line string, delimiter rune) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == delimiter && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// ParseText parses a whole decoded export: normalizes line endings, drops
// blank lines, reads the first non-blank line as headers and skips trailing
// report footer lines whose every field is empty.
func ParseText(text string) (*Document, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var nonEmpty []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}
	if len(nonEmpty) == 0 {
		return nil, ErrEmptyFile
	}

	sampleLen := len(nonEmpty)
	if sampleLen > 3 {
		sampleLen = 3
	}
	delimiter := DetectDelimiter(strings.Join(nonEmpty[:sampleLen], "\n"))

	rawHeaders := ParseLine(nonEmpty[0], delimiter)
	headers := make([]string, len(rawHeaders))
	for i, h := range rawHeaders {
		headers[i] = strings.Trim(h, "\"' \t")
	}

	doc := &Document{
		Headers:   headers,
		Delimiter: delimiter,
	}

	for i := 1; i < len(nonEmpty); i++ {
		record := Record{
			Line:   i + 1,
			Fields: ParseLine(nonEmpty[i], delimiter),
		}
		if record.IsEmpty() {
			continue
		}
		record.Data = make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(record.Fields) {
				record.Data[h] = record.Fields[j]
			} else {
				record.Data[h] = ""
			}
		}
		doc.Rows = append(doc.Rows, record)
	}

	return doc, nil
}

// FindHeader locates a header matching one of the candidate names,
// comparing alphanumeric-normalized forms so "Order ID", "order_id" and
// "OrderId" all resolve to the same column. The first header that matches
// any candidate wins.
func FindHeader(headers []string, candidates []string) (string, bool) {
	normCandidates := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		normCandidates[normalizeAlnum(c)] = struct{}{}
	}
	for _, h := range headers {
		if _, ok := normCandidates[normalizeAlnum(h)]; ok {
			return h, true
		}
	}
	return "", false
}

// normalizeAlnum lowercases and strips everything but letters and digits
func normalizeAlnum(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
