package book

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

func story(title, content string) *model.Story {
	return &model.Story{
		StoryID:      title,
		Title:        title,
		Content:      content,
		Category:     model.ChapterChildhood,
		CreationTime: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func fixedNow() time.Time { return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) }

func TestRender_NoStories(t *testing.T) {
	var buf bytes.Buffer
	_, err := Render(&buf, "Empty", nil, Options{})
	assert.ErrorIs(t, err, ErrNoStories)
	assert.Zero(t, buf.Len())
}

func TestRender_CoverTitleAndOnePagePerShortStory(t *testing.T) {
	var buf bytes.Buffer
	pages, err := Render(&buf, "Grandma's Book", []*model.Story{
		story("The barn", "We played in the hay.\n\nGrandpa laughed."),
		story("Café days", "Crème brûlée on Sundays."),
	}, Options{Author: "Ann", Now: fixedNow})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, 4, pages)
}

func TestRender_LongStoryPaginates(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 200; i++ {
		sb.WriteString("A line of remembered text that keeps the story going.\n")
	}
	// one very long line without newlines must wrap rather than run off the page
	sb.WriteString(strings.Repeat("word ", 600))

	var buf bytes.Buffer
	pages, err := Render(&buf, "Long", []*model.Story{story("Long one", sb.String())}, Options{Now: fixedNow})
	require.NoError(t, err)
	assert.Greater(t, pages, 5)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "grandma-s-book.pdf", FileName("Grandma's Book"))
	assert.Equal(t, "my-life-story.pdf", FileName("  !!! "))
}

func TestRender_NonLatinText(t *testing.T) {
	texts := map[string]string{
		"curly quotes": "She said “we’ll be fine” and we were.",
		"dashes":       "The summer of 1965 — hot, long – and dusty.",
		"accents":      "Crème brûlée at the café in São Paulo.",
		"cjk":          "我的家乡在山里。",
		"emoji":        "Birthday cake \U0001F382 and balloons \U0001F388",
	}
	for name, text := range texts {
		t.Run(name, func(t *testing.T) {
			long := strings.Repeat(text+" ", 40)
			var buf bytes.Buffer
			pages, err := Render(&buf, text, []*model.Story{story(text, text+"\n"+long)}, Options{Author: text, Now: fixedNow})
			require.NoError(t, err)
			assert.GreaterOrEqual(t, pages, 3)
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}
