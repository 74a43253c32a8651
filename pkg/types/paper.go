// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-digest pipeline:
// the scored paper records consumed from upstream, the topic criteria they are
// grouped under, configuration, and the error types callers match on.
package types

import (
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// ArxivAbsURL is the prefix for a paper's arXiv abstract page.
const ArxivAbsURL = "https://arxiv.org/abs/"

// Paper holds one scored paper record from the upstream selection pipeline.
// Records are read-only once loaded.
type Paper struct {
	// Key is the record's key in the input mapping. Rendering never uses it;
	// it is kept for error messages and the archive.
	Key string `json:"-" yaml:"-"`

	// ArxivID is the arXiv identifier (e.g. "2310.16834").
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists display names in source order.
	Authors Authors `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Comment is the reviewer comment. It may carry a "criterion N" marker.
	Comment *string `json:"COMMENT,omitempty" yaml:"COMMENT,omitempty"`

	// Relevance and Novelty are rendered only when both are present.
	Relevance *int `json:"RELEVANCE,omitempty" yaml:"RELEVANCE,omitempty"`
	Novelty   *int `json:"NOVELTY,omitempty" yaml:"NOVELTY,omitempty"`

	// Topic is an explicit topic id. When set it takes precedence over any
	// marker found in Comment.
	Topic *int `json:"TOPIC,omitempty" yaml:"TOPIC,omitempty"`
}

// ArxivURL returns the abstract page URL for the paper.
func (p Paper) ArxivURL() string {
	return ArxivAbsURL + p.ArxivID
}

// HasScores reports whether both relevance and novelty are set.
func (p Paper) HasScores() bool {
	return p.Relevance != nil && p.Novelty != nil
}

// Authors is an ordered list of author display names. It decodes from either
// a list of strings or a list of objects with a "name" field, the shape
// Semantic Scholar returns.
type Authors []string

type authorObject struct {
	Name string `json:"name" yaml:"name"`
}

// UnmarshalJSON accepts ["A", "B"] and [{"name": "A"}, {"name": "B"}].
func (a *Authors) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("authors: %w", err)
	}
	names := make([]string, 0, len(raw))
	for i, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			names = append(names, s)
			continue
		}
		var obj authorObject
		if err := json.Unmarshal(r, &obj); err != nil {
			return fmt.Errorf("authors[%d]: expected string or object with name: %w", i, err)
		}
		names = append(names, obj.Name)
	}
	*a = names
	return nil
}

// UnmarshalYAML accepts the same two shapes as UnmarshalJSON.
func (a *Authors) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("authors: line %d: expected a sequence", value.Line)
	}
	names := make([]string, 0, len(value.Content))
	for i, n := range value.Content {
		switch n.Kind {
		case yaml.ScalarNode:
			names = append(names, n.Value)
		case yaml.MappingNode:
			var obj authorObject
			if err := n.Decode(&obj); err != nil {
				return fmt.Errorf("authors[%d]: %w", i, err)
			}
			names = append(names, obj.Name)
		default:
			return fmt.Errorf("authors[%d]: line %d: expected string or mapping with name", i, n.Line)
		}
	}
	*a = names
	return nil
}

// Criterion is one numbered topic line from the criteria file.
type Criterion struct {
	// Text is the line as written (surrounding whitespace removed). It is
	// the display text of the topic's table-of-contents link.
	Text string `json:"text" yaml:"text"`

	// DeclaredID is the integer written before the line's first period.
	// It names the link anchor; the bucket index comes from Position.
	DeclaredID int `json:"declared_id" yaml:"declared_id"`

	// Position is the 1-based index of the line among retained criteria.
	Position int `json:"position" yaml:"position"`
}
