package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = "# Notes\npls rvw asap\nw/o delay\n\nend\n"

func TestNewBufferSelectsAll(t *testing.T) {
	b := NewBuffer(doc)
	assert.Equal(t, doc, b.Selection())
}

func TestSelectLines(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     string
		wantErr  bool
	}{
		{name: "single line", from: 2, to: 2, want: "pls rvw asap"},
		{name: "two lines", from: 2, to: 3, want: "pls rvw asap\nw/o delay"},
		{name: "first line", from: 1, to: 1, want: "# Notes"},
		{name: "blank line", from: 4, to: 4, want: ""},
		{name: "trailing empty line", from: 6, to: 6, want: ""},
		{name: "past the end", from: 2, to: 9, wantErr: true},
		{name: "reversed", from: 3, to: 2, wantErr: true},
		{name: "zero", from: 0, to: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(doc)
			err := b.SelectLines(tt.from, tt.to)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.Selection())
		})
	}
}

func TestReplaceSelection(t *testing.T) {
	b := NewBuffer(doc)
	require.NoError(t, b.SelectLines(2, 2))

	b.ReplaceSelection("please review as soon as possible")

	assert.Equal(t, "# Notes\nplease review as soon as possible\nw/o delay\n\nend\n", b.String())
	assert.Equal(t, "please review as soon as possible", b.Selection())
}

func TestSelect(t *testing.T) {
	b := NewBuffer("hello world")
	require.NoError(t, b.Select(6, 11))
	assert.Equal(t, "world", b.Selection())
	assert.Error(t, b.Select(4, 20))
	assert.Error(t, b.Select(5, 4))
}

func TestParseLineRange(t *testing.T) {
	tests := []struct {
		in       string
		from, to int
		wantErr  bool
	}{
		{in: "3", from: 3, to: 3},
		{in: "3-5", from: 3, to: 5},
		{in: " 2 - 4 ", from: 2, to: 4},
		{in: "a-b", wantErr: true},
		{in: "3-", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		from, to, err := ParseLineRange(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.from, from)
		assert.Equal(t, tt.to, to)
	}
}
