package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_FivePagesWithEmptyMiddle(t *testing.T) {
	// Page 3 is empty, so the second group only carries page 4's text, and
	// the last group starts at page 5 of 5.
	pages := []string{"A", "B", "", "D", "E"}

	chunks := Build(pages)

	assert.Equal(t, []Chunk{
		{Index: 0, PageStart: 1, PageEnd: 2, Text: "A\n\nB"},
		{Index: 1, PageStart: 3, PageEnd: 4, Text: "D"},
		{Index: 2, PageStart: 5, PageEnd: 5, Text: "E"},
	}, chunks)
}

func TestBuild_EmptyGroupsDoNotConsumeIndices(t *testing.T) {
	pages := []string{"", "", "C", "", "", ""}

	chunks := Build(pages)

	assert.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 3, chunks[0].PageStart)
	assert.Equal(t, 4, chunks[0].PageEnd)
	assert.Equal(t, "C", chunks[0].Text)
}

func TestBuild_AllPagesEmpty(t *testing.T) {
	assert.Empty(t, Build([]string{"", "", ""}))
	assert.Empty(t, Build(nil))
}

func TestBuild_Invariants(t *testing.T) {
	pages := []string{"p1", "p2", "p3", "", "p5", "p6", "p7"}

	chunks := Build(pages)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.GreaterOrEqual(t, c.PageStart, 1)
		assert.LessOrEqual(t, c.PageEnd-c.PageStart, 1)
		assert.LessOrEqual(t, c.PageEnd, len(pages))
		assert.NotEmpty(t, c.Text)
	}
}

func TestJoinPages(t *testing.T) {
	assert.Equal(t, "a\n\nb", JoinPages([]string{"a", "", "b"}))
	assert.Equal(t, "", JoinPages([]string{"", ""}))
}
