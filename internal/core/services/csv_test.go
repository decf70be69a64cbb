package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finvault/internal/core/domain"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{
			name: "plain fields",
			line: "2024-01-15,Coffee,4.50,expense",
			want: []string{"2024-01-15", "Coffee", "4.50", "expense"},
		},
		{
			name: "quoted comma is not a separator",
			line: `2024-01-15,"Rent, monthly",1200,expense`,
			want: []string{"2024-01-15", "Rent, monthly", "1200", "expense"},
		},
		{
			name: "doubled quote is an escaped literal quote",
			line: `"say ""hello""",x`,
			want: []string{`say "hello"`, "x"},
		},
		{
			name: "fields are trimmed after unquoting",
			line: `  a  , " b " ,c `,
			want: []string{"a", "b", "c"},
		},
		{
			name: "empty fields survive",
			line: "a,,c",
			want: []string{"a", "", "c"},
		},
		{
			name: "trailing comma yields empty last field",
			line: "a,b,",
			want: []string{"a", "b", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLine(tt.line))
		})
	}
}

func TestSplitLines(t *testing.T) {
	t.Run("handles LF and CRLF", func(t *testing.T) {
		lines := splitLines("header\r\nrow1\nrow2\r\n")
		assert.Equal(t, []string{"header", "row1", "row2"}, lines)
	})

	t.Run("drops blank lines anywhere", func(t *testing.T) {
		lines := splitLines("\n\nheader\n\n   \nrow1\n\n")
		assert.Equal(t, []string{"header", "row1"}, lines)
	})

	t.Run("empty content", func(t *testing.T) {
		assert.Empty(t, splitLines(""))
	})
}

func TestResolveHeader(t *testing.T) {
	t.Run("any order, any case", func(t *testing.T) {
		idx, err := resolveHeader([]string{"Type", "AMOUNT", "date", "Category", "title"})
		require.NoError(t, err)
		assert.Equal(t, 2, idx.date)
		assert.Equal(t, 4, idx.title)
		assert.Equal(t, 1, idx.amount)
		assert.Equal(t, 0, idx.typ)
		assert.Equal(t, 3, idx.category)
	})

	t.Run("category is optional", func(t *testing.T) {
		idx, err := resolveHeader([]string{"date", "title", "amount", "type"})
		require.NoError(t, err)
		assert.Equal(t, -1, idx.category)
	})

	t.Run("missing required column rejects the upload", func(t *testing.T) {
		_, err := resolveHeader([]string{"date", "title", "type"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrMissingColumns))
	})
}
