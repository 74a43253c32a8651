// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package papers loads the scored paper set produced by the selection
// pipeline. The set is a mapping from arbitrary ids to paper records; only
// the records and their order matter, so both decoders walk the mapping in
// file order instead of going through a Go map.
package papers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Format names an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath picks the decoder from the file extension. Anything that is
// not .yaml or .yml is treated as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads the paper set at path.
func Load(path string) ([]types.Paper, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.FileAccessError{Op: "reading papers", Path: path, Err: err}
	}
	list, err := Decode(bytes.NewReader(data), FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// Decode parses a paper set in the given format, keeping mapping order.
func Decode(r io.Reader, format Format) ([]types.Paper, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(r)
	case FormatYAML:
		return decodeYAML(r)
	default:
		return nil, fmt.Errorf("unsupported paper format %q", format)
	}
}

// record mirrors types.Paper with pointer fields so that absent required
// fields can be told apart from empty ones.
type record struct {
	ArxivID   *string        `json:"arxiv_id" yaml:"arxiv_id"`
	Title     *string        `json:"title" yaml:"title"`
	Authors   *types.Authors `json:"authors" yaml:"authors"`
	Abstract  *string        `json:"abstract" yaml:"abstract"`
	Comment   *string        `json:"COMMENT" yaml:"COMMENT"`
	Relevance *int           `json:"RELEVANCE" yaml:"RELEVANCE"`
	Novelty   *int           `json:"NOVELTY" yaml:"NOVELTY"`
	Topic     *int           `json:"TOPIC" yaml:"TOPIC"`
}

func (rec record) toPaper(key string) (types.Paper, error) {
	switch {
	case rec.ArxivID == nil:
		return types.Paper{}, &types.MissingFieldError{Key: key, Field: "arxiv_id"}
	case rec.Title == nil:
		return types.Paper{}, &types.MissingFieldError{Key: key, Field: "title"}
	case rec.Authors == nil:
		return types.Paper{}, &types.MissingFieldError{Key: key, Field: "authors"}
	case rec.Abstract == nil:
		return types.Paper{}, &types.MissingFieldError{Key: key, Field: "abstract"}
	}
	return types.Paper{
		Key:       key,
		ArxivID:   *rec.ArxivID,
		Title:     *rec.Title,
		Authors:   *rec.Authors,
		Abstract:  *rec.Abstract,
		Comment:   rec.Comment,
		Relevance: rec.Relevance,
		Novelty:   rec.Novelty,
		Topic:     rec.Topic,
	}, nil
}

// recordSet collects records in mapping order. A repeated key keeps the
// position of its first occurrence and takes the value of its last, as a
// decoded JSON object or YAML mapping would.
type recordSet struct {
	keys    []string
	records map[string]record
}

func newRecordSet() *recordSet {
	return &recordSet{records: make(map[string]record)}
}

func (s *recordSet) put(key string, rec record) {
	if _, ok := s.records[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.records[key] = rec
}

func (s *recordSet) papers() ([]types.Paper, error) {
	var list []types.Paper
	for _, key := range s.keys {
		p, err := s.records[key].toPaper(key)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}

func decodeJSON(r io.Reader) ([]types.Paper, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("parsing papers: empty input")
		}
		return nil, fmt.Errorf("parsing papers: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("parsing papers: expected an object of records, got %v", tok)
	}

	set := newRecordSet()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parsing papers: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("parsing papers: expected record key, got %v", tok)
		}
		var rec record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("parsing paper %q: %w", key, err)
		}
		set.put(key, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parsing papers: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parsing papers: unexpected data after the records object")
	}
	return set.papers()
}

func decodeYAML(r io.Reader) ([]types.Paper, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing papers: %w", err)
	}

	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind == yaml.ScalarNode && doc.Tag == "!!null" {
		return nil, nil
	}
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing papers: line %d: expected a mapping of records", doc.Line)
	}

	set := newRecordSet()
	for i := 0; i+1 < len(doc.Content); i += 2 {
		key := doc.Content[i].Value
		var rec record
		if err := doc.Content[i+1].Decode(&rec); err != nil {
			return nil, fmt.Errorf("parsing paper %q: %w", key, err)
		}
		set.put(key, rec)
	}
	return set.papers()
}
