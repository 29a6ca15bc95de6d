package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gprmax-ragbot/models"
)

func TestNew_RejectsInvalidSizes(t *testing.T) {
	cases := []struct{ size, overlap int }{
		{0, 0},
		{-1, 0},
		{100, -1},
		{100, 100},
		{100, 150},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%d/%d", c.size, c.overlap), func(t *testing.T) {
			_, err := New(c.size, c.overlap)
			assert.Error(t, err)
		})
	}
}

func TestSplitText_ShortDocumentYieldsOneChunk(t *testing.T) {
	s, err := New(1000, 200)
	require.NoError(t, err)

	text := "#title: gprMax input file\n\nA short document."
	parts := s.SplitText(text)

	require.Len(t, parts, 1)
	assert.Equal(t, text, parts[0])
}

func TestSplitText_ExactlyChunkSize(t *testing.T) {
	s, err := New(10, 2)
	require.NoError(t, err)

	parts := s.SplitText("0123456789")
	assert.Equal(t, []string{"0123456789"}, parts)
}

func TestSplitText_Empty(t *testing.T) {
	s, err := New(10, 2)
	require.NoError(t, err)

	assert.Empty(t, s.SplitText(""))
}

func TestSplitText_1500CharsTwoChunks(t *testing.T) {
	s, err := New(1000, 200)
	require.NoError(t, err)

	text := strings.Repeat("abcd ", 300)
	require.Len(t, []rune(text), 1500)

	parts := s.SplitText(text)

	require.Len(t, parts, 2)
	assert.Len(t, []rune(parts[0]), 1000)
	// 두 번째 청크는 첫 번째 청크의 800번째 문자부터 시작
	assert.True(t, strings.HasPrefix(parts[1], parts[0][800:]))
	assert.Equal(t, text[800:], parts[1])
}

func TestSplitText_PrefersHigherPrioritySeparator(t *testing.T) {
	s, err := New(40, 5)
	require.NoError(t, err)

	text := "first paragraph with words\n\nsecond paragraph that keeps going on"
	parts := s.SplitText(text)

	require.GreaterOrEqual(t, len(parts), 2)
	assert.True(t, strings.HasSuffix(parts[0], "\n\n"), "첫 청크는 문단 경계에서 끝나야 합니다: %q", parts[0])
}

func TestSplitText_NoSeparatorHardCut(t *testing.T) {
	s, err := New(10, 3)
	require.NoError(t, err)

	parts := s.SplitText(strings.Repeat("x", 25))

	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 10)
	}
	assert.Equal(t, []int{10, 10, 10, 4}, lengths(parts))
}

func TestSplitText_OverlapReconstructsOriginal(t *testing.T) {
	inputs := []string{
		strings.Repeat("The PML absorbing boundary conditions. ", 80),
		strings.Repeat("line one\nline two\n\n", 120),
		strings.Repeat("무작위한한국어텍스트", 90),
		"#domain: 0.1 0.1 0.1\n#dx_dy_dz: 0.001 0.001 0.001\n" + strings.Repeat("#material: 6 0 1 0 half_space\n", 60),
	}
	configs := []struct{ size, overlap int }{
		{100, 20}, {250, 0}, {1000, 200}, {37, 36},
	}

	for i, text := range inputs {
		for _, c := range configs {
			t.Run(fmt.Sprintf("%d-%d-%d", i, c.size, c.overlap), func(t *testing.T) {
				s, err := New(c.size, c.overlap)
				require.NoError(t, err)

				parts := s.SplitText(text)
				require.NotEmpty(t, parts)

				var b strings.Builder
				b.WriteString(parts[0])
				for j := 1; j < len(parts); j++ {
					prev := []rune(parts[j-1])
					cur := []rune(parts[j])
					require.LessOrEqual(t, len(cur), c.size)
					require.GreaterOrEqual(t, len(cur), c.overlap)
					assert.Equal(t, string(prev[len(prev)-c.overlap:]), string(cur[:c.overlap]))
					b.WriteString(string(cur[c.overlap:]))
				}
				assert.Equal(t, text, b.String())
			})
		}
	}
}

func TestSplit_PropagatesMetadata(t *testing.T) {
	s, err := New(50, 10)
	require.NoError(t, err)

	docs := []*models.Document{
		{Path: "docs/user.pdf", Content: strings.Repeat("gprMax models ", 10), Page: 3, Section: "ESSENTIAL COMMANDS"},
		{Path: "docs/notes.txt", Content: "plain text"},
		{Path: "docs/blank.txt", Content: "   \n  "},
	}

	chunks := s.Split(docs)

	require.Greater(t, len(chunks), 2)
	first := chunks[0]
	assert.Equal(t, "ESSENTIAL COMMANDS", first.Section())
	assert.Equal(t, "3", first.Page())
	assert.Equal(t, "docs/user.pdf", first.Meta[models.MetaSource])

	last := chunks[len(chunks)-1]
	assert.Equal(t, "plain text", last.Content)
	assert.Equal(t, models.Unknown, last.Section())
	assert.Equal(t, models.Unknown, last.Page())
}

func lengths(parts []string) []int {
	out := make([]int, len(parts))
	for i, p := range parts {
		out[i] = len([]rune(p))
	}
	return out
}
