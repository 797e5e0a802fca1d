package paravision

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

const (
	declarationPrefix = "##$"
	labelPrefix       = "##"
	commentPrefix     = "$$"

	maxLineLength = 16 * 1024 * 1024
)

var (
	sizedPattern  = regexp.MustCompile(`^##\$(\w+)=\( ([\d,\s]*) \)`)
	inlinePattern = regexp.MustCompile(`^##\$(\w+)=\((.*)$`)
	scalarPattern = regexp.MustCompile(`^##\$(\w+)=(.*)$`)
	repeatPattern = regexp.MustCompile(`^@(\d+)\*\((.*)\)$`)
)

// SkippedLine is a declaration line that could not be classified.
type SkippedLine struct {
	Line int
	Text string
}

// Diagnostics collects the anomalies recovered from while parsing.
type Diagnostics struct {
	// Skipped lists declaration lines that matched no known form.
	Skipped []SkippedLine

	// Degraded lists parameters whose declared size did not match the
	// number of numeric tokens. Their values have KindDegraded.
	Degraded []string
}

// Clean reports whether nothing was skipped or degraded.
func (d Diagnostics) Clean() bool {
	return len(d.Skipped) == 0 && len(d.Degraded) == 0
}

// record is one declaration line plus the continuation lines that follow it
// up to the next terminator.
type record struct {
	line int
	head string
	body []string
}

// ParseFile reads and parses the method file at path.
func ParseFile(path string) (Table, Diagnostics, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, Diagnostics{}, fmt.Errorf("failed to open parameter file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads the whole of r and parses it as a method file.
func Parse(r io.Reader) (Table, Diagnostics, error) {
	lines, err := readLines(r)
	if err != nil {
		return Table{}, Diagnostics{}, fmt.Errorf("failed to read parameter file: %w", err)
	}
	table, diag := ParseLines(lines)
	return table, diag, nil
}

// ParseLines parses the lines of a method file. Line endings must already be
// removed.
func ParseLines(lines []string) (Table, Diagnostics) {
	var diag Diagnostics
	values := make(map[string]Value)

	for _, rec := range splitRecords(lines) {
		name, value, ok := classify(rec)
		if !ok {
			diag.Skipped = append(diag.Skipped, SkippedLine{Line: rec.line, Text: rec.head})
			continue
		}
		if value.Kind == KindDegraded {
			diag.Degraded = append(diag.Degraded, name)
		}
		values[name] = value
	}

	return Table{values: values}, diag
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLength)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	return lines, scanner.Err()
}

// isTerminator reports whether line ends a continuation: any labelled record
// or comment line. End of input is handled by the caller.
func isTerminator(line string) bool {
	return strings.HasPrefix(line, labelPrefix) || strings.HasPrefix(line, commentPrefix)
}

// splitRecords groups lines into declaration records. Lines that are neither
// declarations nor continuations of one are dropped.
func splitRecords(lines []string) []record {
	var records []record
	current := -1

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, declarationPrefix):
			records = append(records, record{line: i + 1, head: strings.TrimSpace(line)})
			current = len(records) - 1
		case isTerminator(line):
			current = -1
		case current >= 0:
			records[current].body = append(records[current].body, line)
		}
	}

	return records
}

// classify turns a record into a named value. It returns false when the
// declaration line matches none of the known forms.
func classify(rec record) (string, Value, bool) {
	if m := sizedPattern.FindStringSubmatch(rec.head); m != nil {
		shape, ok := parseShape(m[2])
		if !ok {
			return "", Value{}, false
		}
		return m[1], classifySized(rec.body, shape), true
	}

	if m := inlinePattern.FindStringSubmatch(rec.head); m != nil {
		return m[1], Text(inlineText(m[2], rec.body)), true
	}

	if m := scalarPattern.FindStringSubmatch(rec.head); m != nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(m[2]), 64); err == nil {
			return m[1], Number(f), true
		}
		return m[1], Text(m[2]), true
	}

	return "", Value{}, false
}

func parseShape(s string) ([]int, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, false
	}

	shape := make([]int, len(fields))
	for i, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return nil, false
		}
		shape[i] = n
	}
	return shape, true
}

// classifySized interprets the continuation lines of a sized declaration.
func classifySized(body []string, shape []int) Value {
	var parts []string
	var tokens []string
	for _, line := range body {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		parts = append(parts, strings.TrimSpace(line))
		tokens = append(tokens, fields...)
	}
	raw := strings.Join(parts, " ")

	data, ok := parseNumbers(tokens)
	if !ok {
		return Text(raw)
	}

	want := 1
	for _, n := range shape {
		want *= n
	}
	if len(data) != want {
		return Degraded(raw, shape...)
	}
	return Array(data, shape...)
}

// parseNumbers parses tokens as floats, expanding "@N*(v)" repeat tokens.
func parseNumbers(tokens []string) ([]float64, bool) {
	data := make([]float64, 0, len(tokens))
	for _, token := range tokens {
		if m := repeatPattern.FindStringSubmatch(token); m != nil {
			count, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, false
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(m[2]), 64)
			if err != nil {
				return nil, false
			}
			for i := 0; i < count; i++ {
				data = append(data, f)
			}
			continue
		}

		f, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, false
		}
		data = append(data, f)
	}
	return data, true
}

// inlineText assembles an inline parenthesised value. A value ending in a
// comma continues onto the following lines.
func inlineText(first string, body []string) string {
	if !strings.HasSuffix(first, ",") || len(body) == 0 {
		return strings.TrimSuffix(first, ")")
	}

	var sb strings.Builder
	sb.WriteString(first)
	for _, line := range body {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		sb.WriteString(strings.TrimSuffix(line, ")"))
	}
	return sb.String()
}
