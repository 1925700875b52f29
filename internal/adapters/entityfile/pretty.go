package entityfile

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

var (
	scalarPrefix = regexp.MustCompile(`^("[A-Za-z-]+"|[\d.-]+)`)
	scalarLine   = regexp.MustCompile(`^("[A-Za-z-]+"|[\d.-]+),?$`)
)

// Indent re-encodes a JSON document with two-space indentation.
func Indent(data []byte) ([]byte, error) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, data); err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Prettify indents a JSON document and folds arrays of numbers and simple
// strings onto one line, so coordinate lists stay readable:
//
//	"region": ["DE", "AT"],
//	"coordinates": [[[5.87, 47.27], [15.04, 47.27]]]
//
// The result ends with a newline.
func Prettify(data []byte) ([]byte, error) {
	indented, err := Indent(data)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(indented), "\n")

	// first element joins the opening bracket
	lines = fold(lines, func(prev, line string, _ bool) (string, bool) {
		if strings.HasSuffix(prev, "[") && isNested(line) && scalarPrefix.MatchString(strings.TrimLeft(line, " ")) {
			return prev + strings.TrimLeft(line, " "), true
		}
		return "", false
	})
	// following elements join the previous one
	lines = fold(lines, func(prev, line string, _ bool) (string, bool) {
		if strings.HasSuffix(prev, ",") && isNested(line) && scalarLine.MatchString(strings.TrimLeft(line, " ")) {
			return prev + " " + strings.TrimLeft(line, " "), true
		}
		return "", false
	})
	// closing bracket joins a last element that is not a container
	lines = fold(lines, func(prev, line string, last bool) (string, bool) {
		trimmed := strings.TrimLeft(line, " ")
		if last || !isNested(line) || (trimmed != "]" && trimmed != "],") {
			return "", false
		}
		if prev == "" || strings.ContainsAny(prev[len(prev)-1:], ",]}") {
			return "", false
		}
		return prev + trimmed, true
	})

	return []byte(strings.Join(lines, "\n") + "\n"), nil
}

func isNested(line string) bool {
	return strings.HasPrefix(line, " ")
}

// fold merges each line into the previous output line when join accepts it.
func fold(lines []string, join func(prev, line string, last bool) (string, bool)) []string {
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if n := len(out); n > 0 {
			if joined, ok := join(out[n-1], line, i == len(lines)-1); ok {
				out[n-1] = joined
				continue
			}
		}
		out = append(out, line)
	}
	return out
}
