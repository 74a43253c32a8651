// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package papers

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const orderedJSON = `{
  "2310.16834": {
    "arxiv_id": "2310.16834",
    "title": "Discrete Diffusion Language Modeling",
    "authors": ["Aaron Lou", "Chenlin Meng", "Stefano Ermon"],
    "abstract": "Score entropy.",
    "COMMENT": "Meets criterion 1.",
    "RELEVANCE": 10,
    "NOVELTY": 8
  },
  "2310.16779": {
    "arxiv_id": "2310.16779",
    "title": "Multi-scale Diffusion Denoised Smoothing",
    "authors": [{"authorId": "83125078", "name": "Jongheon Jeong"}, {"authorId": "2261688831", "name": "Jinwoo Shin"}],
    "abstract": "Randomized smoothing."
  },
  "0001.00001": {
    "arxiv_id": "0001.00001",
    "title": "Zeta",
    "authors": [],
    "abstract": "",
    "RELEVANCE": 9,
    "TOPIC": 2
  }
}`

const orderedYAML = `zz:
  arxiv_id: "2401.00002"
  title: Last key first
  authors: [B One, B Two]
  abstract: First in file.
  COMMENT: criterion 2
aa:
  arxiv_id: "2401.00001"
  title: First key second
  authors:
    - name: A One
  abstract: Second in file.
  RELEVANCE: 7
  NOVELTY: 6
`

func TestDecodeJSONKeepsOrder(t *testing.T) {
	got, err := Decode(strings.NewReader(orderedJSON), FormatJSON)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"2310.16834", "2310.16779", "0001.00001"},
		[]string{got[0].Key, got[1].Key, got[2].Key})

	first := got[0]
	assert.Equal(t, "Discrete Diffusion Language Modeling", first.Title)
	assert.Equal(t, types.Authors{"Aaron Lou", "Chenlin Meng", "Stefano Ermon"}, first.Authors)
	require.NotNil(t, first.Comment)
	assert.Equal(t, "Meets criterion 1.", *first.Comment)
	assert.True(t, first.HasScores())
	assert.Equal(t, 10, *first.Relevance)

	second := got[1]
	assert.Equal(t, types.Authors{"Jongheon Jeong", "Jinwoo Shin"}, second.Authors)
	assert.Nil(t, second.Comment)
	assert.False(t, second.HasScores())

	third := got[2]
	assert.Empty(t, third.Authors)
	assert.False(t, third.HasScores(), "relevance without novelty is not a score pair")
	require.NotNil(t, third.Topic)
	assert.Equal(t, 2, *third.Topic)
}

func TestDecodeYAMLKeepsOrder(t *testing.T) {
	got, err := Decode(strings.NewReader(orderedYAML), FormatYAML)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "zz", got[0].Key)
	assert.Equal(t, "2401.00002", got[0].ArxivID)
	assert.Equal(t, types.Authors{"B One", "B Two"}, got[0].Authors)
	require.NotNil(t, got[0].Comment)
	assert.Equal(t, "criterion 2", *got[0].Comment)

	assert.Equal(t, "aa", got[1].Key)
	assert.Equal(t, types.Authors{"A One"}, got[1].Authors)
	assert.True(t, got[1].HasScores())
}

func TestDecodeMissingField(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		field  string
	}{
		{
			name:   "json without abstract",
			format: FormatJSON,
			input:  `{"k": {"arxiv_id": "1", "title": "T", "authors": ["A"]}}`,
			field:  "abstract",
		},
		{
			name:   "json with null authors",
			format: FormatJSON,
			input:  `{"k": {"arxiv_id": "1", "title": "T", "authors": null, "abstract": "x"}}`,
			field:  "authors",
		},
		{
			name:   "yaml without arxiv_id",
			format: FormatYAML,
			input:  "k:\n  title: T\n  authors: [A]\n  abstract: x\n",
			field:  "arxiv_id",
		},
		{
			name:   "yaml without title",
			format: FormatYAML,
			input:  "k:\n  arxiv_id: \"1\"\n  authors: [A]\n  abstract: x\n",
			field:  "title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			require.Error(t, err)

			var mf *types.MissingFieldError
			require.True(t, errors.As(err, &mf), "want MissingFieldError, got %v", err)
			assert.Equal(t, "k", mf.Key)
			assert.Equal(t, tt.field, mf.Field)
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"json array", FormatJSON, `[{"arxiv_id": "1"}]`},
		{"json empty", FormatJSON, ``},
		{"json truncated", FormatJSON, `{"k": {"arxiv_id": "1"`},
		{"json bad authors", FormatJSON, `{"k": {"arxiv_id": "1", "title": "T", "authors": [1], "abstract": "x"}}`},
		{"json trailing garbage", FormatJSON, `{} garbage`},
		{"json second object", FormatJSON, `{} {"k": {"arxiv_id": "1", "title": "T", "authors": [], "abstract": ""}}`},
		{"yaml sequence", FormatYAML, "- a\n- b\n"},
		{"yaml bad authors", FormatYAML, "k:\n  arxiv_id: \"1\"\n  title: T\n  authors: A\n  abstract: x\n"},
		{"unknown format", Format("toml"), `x = 1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestDecodeDuplicateKeys(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{
			name:   "json",
			format: FormatJSON,
			input: `{
  "dup": {"arxiv_id": "1", "title": "Old", "authors": [], "abstract": ""},
  "mid": {"arxiv_id": "2", "title": "Middle", "authors": [], "abstract": ""},
  "dup": {"arxiv_id": "3", "title": "New", "authors": [], "abstract": ""}
}`,
		},
		{
			name:   "yaml",
			format: FormatYAML,
			input: `dup: {arxiv_id: "1", title: Old, authors: [], abstract: ""}
mid: {arxiv_id: "2", title: Middle, authors: [], abstract: ""}
dup: {arxiv_id: "3", title: New, authors: [], abstract: ""}
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)
			require.Len(t, got, 2, "a repeated key yields one paper")

			assert.Equal(t, "dup", got[0].Key)
			assert.Equal(t, "New", got[0].Title, "last value wins")
			assert.Equal(t, "3", got[0].ArxivID)
			assert.Equal(t, "mid", got[1].Key)
		})
	}
}

func TestDecodeDuplicateKeyLastValueValidated(t *testing.T) {
	input := `{"k": {"title": "incomplete"}, "k": {"arxiv_id": "1", "title": "T", "authors": [], "abstract": ""}}`
	got, err := Decode(strings.NewReader(input), FormatJSON)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T", got[0].Title)
}

func TestDecodeEmptySets(t *testing.T) {
	got, err := Decode(strings.NewReader(`{}`), FormatJSON)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Decode(strings.NewReader("{}\n"), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatForPath("out/output.json"))
	assert.Equal(t, FormatYAML, FormatForPath("out/output.yaml"))
	assert.Equal(t, FormatYAML, FormatForPath("OUT.YML"))
	assert.Equal(t, FormatJSON, FormatForPath("papers"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "output.yaml")
	require.NoError(t, os.WriteFile(path, []byte(orderedYAML), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = Load(filepath.Join(dir, "missing.json"))
	var fa *types.FileAccessError
	require.True(t, errors.As(err, &fa))
	assert.Equal(t, "reading papers", fa.Op)
}
