// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverflowPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    OverflowPolicy
		wantErr bool
	}{
		{"", OverflowUnknown, false},
		{"unknown", OverflowUnknown, false},
		{"reject", OverflowReject, false},
		{"extend", OverflowExtend, false},
		{"clamp", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOverflowPolicy(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaperHelpers(t *testing.T) {
	r, n := 9, 7
	p := Paper{ArxivID: "2310.16834", Relevance: &r}
	assert.Equal(t, "https://arxiv.org/abs/2310.16834", p.ArxivURL())
	assert.False(t, p.HasScores())
	p.Novelty = &n
	assert.True(t, p.HasScores())
}

func TestErrors(t *testing.T) {
	mf := &MissingFieldError{Key: "2310.16834", Field: "title"}
	assert.Equal(t, `paper "2310.16834": missing required field "title"`, mf.Error())

	fa := &FileAccessError{Op: "reading papers", Path: "out/output.json", Err: os.ErrNotExist}
	assert.Contains(t, fa.Error(), "reading papers out/output.json")
	assert.True(t, errors.Is(fa, os.ErrNotExist))
}
