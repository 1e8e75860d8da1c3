package model

import "fmt"

// LifeChapter tags a story with one of twelve ordered life stages.
type LifeChapter string

const (
	ChapterEarlyChildhood  LifeChapter = "early_childhood"
	ChapterChildhood       LifeChapter = "childhood"
	ChapterAdolescence     LifeChapter = "adolescence"
	ChapterYoungAdulthood  LifeChapter = "young_adulthood"
	ChapterCollege         LifeChapter = "college"
	ChapterEarlyCareer     LifeChapter = "early_career"
	ChapterLovePartnership LifeChapter = "love_and_partnership"
	ChapterFamilyLife      LifeChapter = "family_life"
	ChapterCareerPeak      LifeChapter = "career_peak"
	ChapterMidlife         LifeChapter = "midlife"
	ChapterRetirement      LifeChapter = "retirement"
	ChapterLegacy          LifeChapter = "legacy"
)

// LifeChapterInfo describes a chapter for display.
type LifeChapterInfo struct {
	Chapter LifeChapter `json:"chapter"`
	Title   string      `json:"title"`
	Order   int         `json:"order"`
}

var lifeChapters = []LifeChapterInfo{
	{ChapterEarlyChildhood, "Early Childhood", 1},
	{ChapterChildhood, "Childhood", 2},
	{ChapterAdolescence, "Adolescence", 3},
	{ChapterYoungAdulthood, "Young Adulthood", 4},
	{ChapterCollege, "College Years", 5},
	{ChapterEarlyCareer, "Early Career", 6},
	{ChapterLovePartnership, "Love & Partnership", 7},
	{ChapterFamilyLife, "Family Life", 8},
	{ChapterCareerPeak, "Career Peak", 9},
	{ChapterMidlife, "Midlife", 10},
	{ChapterRetirement, "Retirement", 11},
	{ChapterLegacy, "Legacy", 12},
}

// LifeChapters returns the catalogue in life order.
func LifeChapters() []LifeChapterInfo {
	out := make([]LifeChapterInfo, len(lifeChapters))
	copy(out, lifeChapters)
	return out
}

// Valid reports whether c is one of the twelve known chapters.
func (c LifeChapter) Valid() bool {
	_, ok := c.info()
	return ok
}

// Title returns the display name, or the raw value for unknown chapters.
func (c LifeChapter) Title() string {
	if info, ok := c.info(); ok {
		return info.Title
	}
	return string(c)
}

func (c LifeChapter) info() (LifeChapterInfo, bool) {
	for _, info := range lifeChapters {
		if info.Chapter == c {
			return info, true
		}
	}
	return LifeChapterInfo{}, false
}

// ParseLifeChapter validates s as a life chapter.
func ParseLifeChapter(s string) (LifeChapter, error) {
	c := LifeChapter(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: unknown life chapter %q", ErrValidation, s)
	}
	return c, nil
}
