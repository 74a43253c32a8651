// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render builds the Markdown digest: a header with the criteria
// table of contents, a title/author index per topic, and the full paper
// list. Every function here is pure; Document is the entry point.
package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/paper-digest/internal/classify"
	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	// DateLayout formats the header date as month/day/year.
	DateLayout = "01/02/2006"

	docTitle    = "# Personalized Daily Arxiv Papers "
	topicsIntro = "\n\n## Topics\n\nPaper selection prompt and criteria (jump to the section by clicking the link):\n\n"
	backToTop   = "[back to top](#topics)\n"
	rule        = "\n---\n"
	fullList    = "## Full paper list\n"
	unknownName = "unknown"
)

// slugStrip removes everything but ASCII letters, digits, spaces and hyphens.
var slugStrip = regexp.MustCompile(`[^a-zA-Z0-9 -]`)

// Slug returns the anchor a Markdown renderer generates for the heading of
// the paper at index. Both the index "More" link and the paper heading go
// through it, so the two always agree.
func Slug(index int, title string) string {
	s := slugStrip.ReplaceAllString(fmt.Sprintf("%d %s", index, title), "")
	return strings.ToLower(strings.ReplaceAll(s, " ", "-"))
}

// CriterionLinks renders the table of contents: one link per criterion to
// its topic section, then a link to the unknown section.
func CriterionLinks(criteria []types.Criterion) string {
	var b strings.Builder
	for _, c := range criteria {
		fmt.Fprintf(&b, "[%s](#topic-%d)\n\n", c.Text, c.DeclaredID)
	}
	b.WriteString("[Unknown](#topic-unknown)\n\n")
	return b.String()
}

// TitleAndAuthor renders the index entry for the paper at index.
func TitleAndAuthor(p types.Paper, index int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. [%s](%s) [[More](#%s)] \\\n", index, p.Title, p.ArxivURL(), Slug(index, p.Title))
	fmt.Fprintf(&b, "**Authors:** %s\n", strings.Join(p.Authors, ", "))
	return b.String()
}

// Paper renders the full entry for the paper at index. The comment line is
// written when a comment exists; the score lines only when both relevance
// and novelty exist.
func Paper(p types.Paper, index int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %d. [%s](%s)\n", index, p.Title, p.ArxivURL())
	fmt.Fprintf(&b, "**ArXiv:** %s\n", p.ArxivID)
	fmt.Fprintf(&b, "**Authors:** %s\n\n", strings.Join(p.Authors, ", "))
	fmt.Fprintf(&b, "**Abstract:** %s\n\n", p.Abstract)
	if p.Comment != nil {
		fmt.Fprintf(&b, "**Comment:** %s\n\n", *p.Comment)
	}
	if p.HasScores() {
		fmt.Fprintf(&b, "**Relevance:** %d\n", *p.Relevance)
		fmt.Fprintf(&b, "**Novelty:** %d\n", *p.Novelty)
	}
	b.WriteString(backToTop)
	b.WriteString(rule)
	return b.String()
}

// TopicSection wraps rendered index entries under a topic heading. Sections
// are emitted even when entries is empty.
func TopicSection(label string, entries []string) string {
	return "### Topic " + label + "\n" + backToTop + "\n" + strings.Join(entries, "\n") + rule
}

// Options controls a Document render.
type Options struct {
	// Date is shown in the header. Callers pass it in so output is
	// reproducible.
	Date time.Time

	// Overflow selects the policy for out-of-range topic ids.
	Overflow types.OverflowPolicy

	// Log receives warnings. Nil discards them.
	Log io.Writer
}

// Document renders the complete digest for papers, grouped under criteria.
// Output depends only on its arguments.
func Document(criteria []types.Criterion, papers []types.Paper, opts Options) (string, error) {
	groups, err := classify.Group(papers, len(criteria), opts.Overflow, opts.Log)
	if err != nil {
		return "", err
	}
	return Compose(criteria, papers, groups, opts.Date), nil
}

// Compose renders the digest from papers already grouped by classify.Group.
func Compose(criteria []types.Criterion, papers []types.Paper, groups *classify.Groups, date time.Time) string {
	var b strings.Builder
	b.WriteString(docTitle)
	b.WriteString(date.Format(DateLayout))
	b.WriteString(topicsIntro)
	b.WriteString(CriterionLinks(criteria))
	b.WriteString(rule)

	for _, topic := range groups.Topics() {
		b.WriteString(TopicSection(fmt.Sprint(topic), indexEntries(papers, groups.Papers(topic))))
	}
	b.WriteString(TopicSection(unknownName, indexEntries(papers, groups.Papers(classify.Unknown))))

	b.WriteString(fullList)
	for i, p := range papers {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Paper(p, i))
	}
	return b.String()
}

func indexEntries(papers []types.Paper, positions []int) []string {
	entries := make([]string, len(positions))
	for j, i := range positions {
		entries[j] = TitleAndAuthor(papers[i], i)
	}
	return entries
}
