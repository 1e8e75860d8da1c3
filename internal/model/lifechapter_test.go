package model

import (
	"errors"
	"testing"
)

func TestLifeChapters_OrderedAndComplete(t *testing.T) {
	chapters := LifeChapters()
	if len(chapters) != 12 {
		t.Fatalf("expected 12 chapters, got %d", len(chapters))
	}
	if chapters[0].Chapter != ChapterEarlyChildhood || chapters[11].Chapter != ChapterLegacy {
		t.Fatalf("unexpected bounds: %s..%s", chapters[0].Chapter, chapters[11].Chapter)
	}
	for i, c := range chapters {
		if c.Order != i+1 {
			t.Fatalf("chapter %s has order %d, want %d", c.Chapter, c.Order, i+1)
		}
	}

	// callers get a copy
	chapters[0].Title = "mutated"
	if LifeChapters()[0].Title == "mutated" {
		t.Fatalf("catalogue must not be mutable through LifeChapters")
	}
}

func TestParseLifeChapter(t *testing.T) {
	c, err := ParseLifeChapter("college")
	if err != nil || c != ChapterCollege {
		t.Fatalf("parse college: %v %v", c, err)
	}
	if _, err := ParseLifeChapter("space_travel"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := LifeChapter("nope").Title(); got != "nope" {
		t.Fatalf("unknown title fallback: %q", got)
	}
	if got := ChapterRetirement.Title(); got != "Retirement" {
		t.Fatalf("title: %q", got)
	}
}
