package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit_ShortText(t *testing.T) {
	chunks := Split("hello", 10)
	assert.Equal(t, []string{"hello"}, chunks)
}

func TestSplit_ExactMultiple(t *testing.T) {
	chunks := Split("aabbcc", 2)
	assert.Equal(t, []string{"aa", "bb", "cc"}, chunks)
}

func TestSplit_Remainder(t *testing.T) {
	chunks := Split("aabbc", 2)
	assert.Equal(t, []string{"aa", "bb", "c"}, chunks)
}

func TestSplit_Empty(t *testing.T) {
	assert.Nil(t, Split("", 10))
}

func TestSplit_ReconstructsOriginal(t *testing.T) {
	text := strings.Repeat("0123456789", 517)
	for _, size := range []int{1, 7, 100, 1900, 4096, 10000} {
		chunks := Split(text, size)

		want := (len(text) + size - 1) / size
		assert.Len(t, chunks, want, "size=%d", size)

		for _, c := range chunks {
			assert.LessOrEqual(t, len([]rune(c)), size)
		}
		assert.Equal(t, text, strings.Join(chunks, ""))
	}
}

func TestSplit_Unicode(t *testing.T) {
	text := "héllo wörld 你好世界"
	chunks := Split(text, 3)
	assert.Equal(t, text, strings.Join(chunks, ""))
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 3)
	}
}

func TestSplit_FollowupScenario(t *testing.T) {
	// 5000-char answer, 4096 shown in the primary reply, the remaining
	// 904 chars fit a single 1900-char follow-up.
	answer := strings.Repeat("a", 5000)
	head, rest := Head(answer, 4096)
	assert.Len(t, head, 4096)
	assert.Len(t, rest, 904)

	followups := Split(rest, 1900)
	assert.Len(t, followups, 1)
	assert.Len(t, followups[0], 904)
}

func TestHead_ShortInput(t *testing.T) {
	head, rest := Head("short", 4096)
	assert.Equal(t, "short", head)
	assert.Empty(t, rest)
}
