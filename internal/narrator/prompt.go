package narrator

import (
	"fmt"
	"strings"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

// SourceStory is text the chapters are written from.
type SourceStory struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

const systemPrompt = `You are a skilled biographer who turns spoken recollections into polished autobiographical chapters.
Stay faithful to the facts in the source material. Never invent names, places or events that are not there.
Respond with a single JSON object and nothing else.`

var focusGuidance = map[string]string{
	"balanced":      "Balance events, feelings and the people involved.",
	"emotions":      "Dwell on how the storyteller felt and how those feelings changed.",
	"events":        "Follow the sequence of events closely and concretely.",
	"relationships": "Center the people in the story and the bonds between them.",
	"lessons":       "Draw out what the storyteller learned and would pass on.",
}

var perspectiveGuidance = map[string]string{
	"first_person": `Write in the first person ("I").`,
	"third_person": "Write in the third person, referring to the storyteller by role or name.",
}

func lifeChapterKeys() string {
	infos := model.LifeChapters()
	keys := make([]string, len(infos))
	for i, c := range infos {
		keys[i] = string(c.Chapter)
	}
	return strings.Join(keys, ", ")
}

// buildPrompt embeds every source story and the options into one user message.
func buildPrompt(sources []SourceStory, o Options) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write %d chapter(s) from the recollections below.\n", o.ChapterCount)
	fmt.Fprintf(&b, "Writing style: %s. Tone: %s.\n", o.WritingStyle, o.Tone)
	b.WriteString(perspectiveGuidance[o.Perspective])
	b.WriteByte('\n')
	b.WriteString(focusGuidance[o.Focus])
	b.WriteString("\n\n")

	b.WriteString("Recollections:\n")
	for i, s := range sources {
		title := strings.TrimSpace(s.Title)
		if title == "" {
			title = fmt.Sprintf("Recollection %d", i+1)
		}
		fmt.Fprintf(&b, "\n### %s\n%s\n", title, strings.TrimSpace(s.Content))
	}

	b.WriteString(`
Return JSON of the form:
{"chapters":[{
  "title": string,
  "content": string,
  "emotion": string,
  "narrativeArc": {"exposition": string, "risingAction": string, "climax": string, "fallingAction": string, "resolution": string},
  "themes": [string],
  "writingStyle": string,
  "lifeChapter": string,
  "chapterMetadata": {"timePeriod": string, "locations": [string], "people": [string], "keyEvents": [string], "emotions": [string], "lessonsLearned": [string], "culturalContext": string}
}]}
`)
	fmt.Fprintf(&b, "lifeChapter must be one of: %s.\n", lifeChapterKeys())
	return b.String()
}
