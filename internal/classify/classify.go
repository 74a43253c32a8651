// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classify assigns papers to topic buckets. A paper's topic comes
// from its explicit TOPIC field when present, otherwise from the first
// "criterion N" marker in its comment. Topic 0 is the unknown bucket.
package classify

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	// Unknown is the bucket for papers without a usable topic.
	Unknown = 0

	// Unparseable stands for a marker whose number does not fit an int.
	// Every overflow policy treats it as out of range.
	Unparseable = -1
)

// markerPattern matches a topic marker in free-text comments. Matching is
// case-sensitive.
var markerPattern = regexp.MustCompile(`criterion (\d+)`)

// ExtractTopic returns the number of the first "criterion N" marker in
// comment, Unknown when there is none, or Unparseable when the number is
// too large for an int.
func ExtractTopic(comment string) int {
	m := markerPattern.FindStringSubmatch(comment)
	if m == nil {
		return Unknown
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Unparseable
	}
	return n
}

// TopicOf returns the declared topic of p before any range check.
func TopicOf(p types.Paper) int {
	if p.Topic != nil {
		return *p.Topic
	}
	if p.Comment == nil {
		return Unknown
	}
	return ExtractTopic(*p.Comment)
}

// Groups maps topic ids to the input positions of their papers. Positions
// inside a bucket keep input order.
type Groups struct {
	buckets     map[int][]int
	numCriteria int
}

// Group classifies papers against numCriteria topics. Topic ids outside
// 1..numCriteria are handled by policy; under OverflowUnknown each one is
// reported to w as a warning.
func Group(papers []types.Paper, numCriteria int, policy types.OverflowPolicy, w io.Writer) (*Groups, error) {
	if w == nil {
		w = io.Discard
	}
	g := &Groups{
		buckets:     make(map[int][]int),
		numCriteria: numCriteria,
	}
	for i, p := range papers {
		topic := TopicOf(p)
		if topic < 0 || topic > numCriteria {
			switch policy {
			case types.OverflowReject:
				return nil, fmt.Errorf("paper %q: %s with %d criteria: %w",
					p.Key, describe(topic), numCriteria, types.ErrTopicOutOfRange)
			case types.OverflowExtend:
				if topic < 0 {
					fmt.Fprintf(w, "warning: paper %q has %s, filed under unknown\n", p.Key, describe(topic))
					topic = Unknown
				}
			default:
				fmt.Fprintf(w, "warning: paper %q names %s but only %d criteria exist, filed under unknown\n",
					p.Key, describe(topic), numCriteria)
				topic = Unknown
			}
		}
		g.buckets[topic] = append(g.buckets[topic], i)
	}
	return g, nil
}

func describe(topic int) string {
	if topic == Unparseable {
		return "an unusable topic number"
	}
	return fmt.Sprintf("topic %d", topic)
}

// Topics returns the numbered topic ids to render in ascending order: every
// id in 1..numCriteria, then any populated id beyond it. The unknown bucket
// is not included.
func (g *Groups) Topics() []int {
	ids := make([]int, 0, g.numCriteria)
	for id := 1; id <= g.numCriteria; id++ {
		ids = append(ids, id)
	}
	var extra []int
	for id, positions := range g.buckets {
		if id > g.numCriteria && len(positions) > 0 {
			extra = append(extra, id)
		}
	}
	sort.Ints(extra)
	return append(ids, extra...)
}

// Papers returns the input positions filed under topic.
func (g *Groups) Papers(topic int) []int {
	return g.buckets[topic]
}

// TopicFor returns the bucket that holds the paper at input position i,
// or -1 if i was never grouped.
func (g *Groups) TopicFor(i int) int {
	for topic, positions := range g.buckets {
		idx := sort.SearchInts(positions, i)
		if idx < len(positions) && positions[idx] == i {
			return topic
		}
	}
	return -1
}

// NonEmpty counts buckets holding at least one paper, unknown included.
func (g *Groups) NonEmpty() int {
	n := 0
	for _, positions := range g.buckets {
		if len(positions) > 0 {
			n++
		}
	}
	return n
}
