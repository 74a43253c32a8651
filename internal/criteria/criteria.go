// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package criteria loads the numbered topic criteria that papers are grouped
// under. The criteria file is human-authored prose; only lines that start
// with a digit are topics.
package criteria

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Load reads the criteria file at path and returns its numbered lines.
func Load(path string) ([]types.Criterion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &types.FileAccessError{Op: "reading criteria", Path: path, Err: err}
	}
	defer f.Close()

	list, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// Parse keeps the lines whose trimmed text is non-empty and begins with an
// ASCII digit. Positions are assigned 1..n in file order.
func Parse(r io.Reader) ([]types.Criterion, error) {
	var list []types.Criterion
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] < '0' || text[0] > '9' {
			continue
		}
		id, err := declaredID(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		list = append(list, types.Criterion{
			Text:       text,
			DeclaredID: id,
			Position:   len(list) + 1,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scanning criteria: %w", err)
	}
	return list, nil
}

// declaredID parses the text before the first period as an integer.
func declaredID(text string) (int, error) {
	head, _, _ := strings.Cut(text, ".")
	id, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, fmt.Errorf("%w: %q has no number before its first period", types.ErrMalformedCriterion, text)
	}
	return id, nil
}
