package outwriter

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeYAML(&buf, map[string][]string{"items": {"x", "y"}}))
	assert.Equal(t, "items:\n  - x\n  - y\n", buf.String())
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"a", "b"}, func(w *csv.Writer) error {
		return w.Write([]string{"1", "2"})
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", buf.String())
}

func TestWriteStructuredSkipsOtherFormats(t *testing.T) {
	for _, mode := range []schema.OutputMode{schema.TextOut, schema.CSVOut} {
		handled, err := writeStructured(&contract.Config{Output: mode}, 1)
		assert.False(t, handled)
		assert.NoError(t, err)
	}
}

func TestGetMaxTablePathWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		detail   bool
		expected int
	}{
		{"narrow clamps to minimum", 40, false, 15},
		{"medium", 100, false, 40},
		{"wide clamps to maximum", 300, false, 70},
		{"detail columns reduce space", 140, true, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width, Detail: tt.detail}
			assert.Equal(t, tt.expected, getMaxTablePathWidth(cfg))
		})
	}
}

func TestTextHelpers(t *testing.T) {
	assert.Equal(t, "abcdef0", shortHash("abcdef0123"))
	assert.Equal(t, "abc", shortHash("abc"))
	assert.Equal(t, "subject", firstLine("  subject \n\nbody"))
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "go", orDash("go"))
	assert.Equal(t, "fix=3, chore=1, feat=1",
		formatTypeCounts(map[schema.CommitType]int{schema.CommitFeat: 1, schema.CommitFix: 3, schema.CommitChore: 1}))
	assert.True(t, strings.HasPrefix(formatStatusCounts(map[schema.FileStatus]int{schema.StatusAdded: 2}), "added 2, modified 0"))
}
