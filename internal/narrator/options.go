package narrator

import (
	"fmt"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

// Option enumerations and their defaults.
var (
	WritingStyles = []string{"narrative", "memoir", "literary", "conversational", "poetic"}
	Tones         = []string{"warm", "reflective", "humorous", "nostalgic", "inspirational"}
	Perspectives  = []string{"first_person", "third_person"}
	Focuses       = []string{"balanced", "emotions", "events", "relationships", "lessons"}
)

const (
	MinChapters = 1
	MaxChapters = 5
)

// Options steer how transcripts are turned into chapters. Zero values take defaults.
type Options struct {
	WritingStyle string `json:"writingStyle,omitempty"`
	Tone         string `json:"tone,omitempty"`
	Perspective  string `json:"perspective,omitempty"`
	Focus        string `json:"focus,omitempty"`
	ChapterCount int    `json:"chapterCount,omitempty"`
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.WritingStyle == "" {
		o.WritingStyle = WritingStyles[0]
	}
	if o.Tone == "" {
		o.Tone = Tones[0]
	}
	if o.Perspective == "" {
		o.Perspective = Perspectives[0]
	}
	if o.Focus == "" {
		o.Focus = Focuses[0]
	}
	if o.ChapterCount == 0 {
		o.ChapterCount = MinChapters
	}
	return o
}

// Validate rejects values outside the enumerations. Call after WithDefaults.
func (o Options) Validate() error {
	if !oneOf(o.WritingStyle, WritingStyles) {
		return fmt.Errorf("%w: unsupported writingStyle %q", model.ErrValidation, o.WritingStyle)
	}
	if !oneOf(o.Tone, Tones) {
		return fmt.Errorf("%w: unsupported tone %q", model.ErrValidation, o.Tone)
	}
	if !oneOf(o.Perspective, Perspectives) {
		return fmt.Errorf("%w: unsupported perspective %q", model.ErrValidation, o.Perspective)
	}
	if !oneOf(o.Focus, Focuses) {
		return fmt.Errorf("%w: unsupported focus %q", model.ErrValidation, o.Focus)
	}
	if o.ChapterCount < MinChapters || o.ChapterCount > MaxChapters {
		return fmt.Errorf("%w: chapterCount must be between %d and %d", model.ErrValidation, MinChapters, MaxChapters)
	}
	return nil
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
