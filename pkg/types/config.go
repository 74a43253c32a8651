// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// OverflowPolicy decides what happens to a paper whose topic id is outside
// 1..len(criteria).
type OverflowPolicy string

const (
	// OverflowUnknown moves the paper to the unknown bucket.
	OverflowUnknown OverflowPolicy = "unknown"

	// OverflowReject fails the render with ErrTopicOutOfRange.
	OverflowReject OverflowPolicy = "reject"

	// OverflowExtend grows the buckets to the largest topic id seen. Sections
	// past the last criterion have no table-of-contents link.
	OverflowExtend OverflowPolicy = "extend"
)

// ParseOverflowPolicy converts a flag or config value to an OverflowPolicy.
// The empty string selects OverflowUnknown.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch p := OverflowPolicy(s); p {
	case "":
		return OverflowUnknown, nil
	case OverflowUnknown, OverflowReject, OverflowExtend:
		return p, nil
	default:
		return "", fmt.Errorf("unsupported overflow policy %q: use unknown, reject, or extend", s)
	}
}

// DigestConfig holds settings for one render run.
type DigestConfig struct {
	// CriteriaPath is the plain-text criteria file (e.g. "configs/paper_topics.txt").
	CriteriaPath string `json:"criteria" yaml:"criteria"`

	// InputPath is the scored paper set, JSON or YAML (e.g. "out/output.json").
	InputPath string `json:"input" yaml:"input"`

	// OutputPath is where the Markdown digest is written (e.g. "out/output.md").
	OutputPath string `json:"output" yaml:"output"`

	// Date is the digest date shown in the header.
	Date time.Time `json:"date" yaml:"date"`

	// Overflow selects the out-of-range topic policy.
	Overflow OverflowPolicy `json:"overflow" yaml:"overflow"`

	// ArchiveDir holds the SQLite run history. Empty disables archiving.
	ArchiveDir string `json:"archive_dir,omitempty" yaml:"archive_dir,omitempty"`
}
