// Package book lays out a user's stories as a printable A4 PDF.
package book

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
)

// ErrNoStories is returned when there is nothing to print.
var ErrNoStories = errors.New("no stories to render")

const (
	margin       = 20.0 // mm on every side
	bodyFontSize = 12.0
	lineHeight   = 6.0
	fontFamily   = "Times"
)

// Options adjust the rendered book.
type Options struct {
	// Author is printed on the cover when set.
	Author string
	// Now stamps the cover; defaults to time.Now.
	Now func() time.Time
}

// Render writes a PDF for stories, which must already be in reading order.
// It returns the number of pages written.
func Render(w io.Writer, title string, stories []*model.Story, opts Options) (pages int, err error) {
	if len(stories) == 0 {
		return 0, ErrNoStories
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "My Life Story"
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("Eterna", true)
	if opts.Author != "" {
		pdf.SetAuthor(opts.Author, true)
	}

	// fpdf panics on some malformed input; report it like any other render failure.
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("render pdf: %v", r)
		}
	}()

	l := &layout{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	l.pageW, l.pageH = pdf.GetPageSize()
	l.textW = l.pageW - 2*margin

	pdf.SetFooterFunc(func() {
		if pdf.PageNo() <= 2 {
			return
		}
		pdf.SetY(-margin + 5)
		pdf.SetFont(fontFamily, "I", 9)
		pdf.CellFormat(0, 5, fmt.Sprintf("%d", pdf.PageNo()-2), "", 0, "C", false, 0, "")
	})

	l.cover(title, opts.Author, now())
	l.titlePage(title, stories)
	for _, s := range stories {
		l.story(s)
	}

	if err := pdf.Error(); err != nil {
		return 0, fmt.Errorf("render pdf: %w", err)
	}
	pages = pdf.PageNo()
	if err := pdf.Output(w); err != nil {
		return 0, fmt.Errorf("write pdf: %w", err)
	}
	return pages, nil
}

type layout struct {
	pdf          *fpdf.Fpdf
	tr           func(string) string
	pageW, pageH float64
	textW        float64
}

// split translates s to the core font encoding and wraps it at the text
// width. Wrapping runs on the encoded bytes because the core font width
// table is indexed by byte; runes outside cp1252 print as '.'.
func (l *layout) split(s string) []string {
	raw := l.pdf.SplitLines([]byte(l.tr(s)), l.textW)
	out := make([]string, len(raw))
	for i, b := range raw {
		out[i] = string(b)
	}
	return out
}

func (l *layout) centered(h float64, style string, size float64, text string) {
	l.pdf.SetFont(fontFamily, style, size)
	for _, line := range l.split(text) {
		l.pdf.CellFormat(l.textW, h, line, "", 1, "C", false, 0, "")
	}
}

func (l *layout) cover(title, author string, at time.Time) {
	l.pdf.AddPage()
	l.pdf.SetY(l.pageH / 3)
	l.centered(14, "B", 32, title)
	l.pdf.Ln(6)
	l.centered(8, "I", 14, "A life in stories")
	if author != "" {
		l.pdf.Ln(4)
		l.centered(8, "", 13, author)
	}
	l.pdf.SetY(l.pageH - margin - 10)
	l.centered(6, "", 10, at.Format("January 2006"))
}

// titlePage lists the stories in order with their life chapter.
func (l *layout) titlePage(title string, stories []*model.Story) {
	l.pdf.AddPage()
	l.pdf.SetY(margin + 10)
	l.centered(10, "B", 22, title)
	l.pdf.Ln(10)

	l.pdf.SetFont(fontFamily, "B", 13)
	l.pdf.CellFormat(l.textW, 8, "Contents", "", 1, "L", false, 0, "")
	l.pdf.Ln(2)
	l.pdf.SetFont(fontFamily, "", 11)
	for i, s := range stories {
		if l.pdf.GetY()+lineHeight > l.pageH-margin {
			l.pdf.SetFont(fontFamily, "I", 11)
			l.pdf.CellFormat(l.textW, lineHeight, l.tr(fmt.Sprintf("... and %d more", len(stories)-i)), "", 1, "L", false, 0, "")
			break
		}
		entry := fmt.Sprintf("%d. %s  (%s)", i+1, s.Title, s.Category.Title())
		l.pdf.CellFormat(l.textW, lineHeight, l.fit(entry), "", 1, "L", false, 0, "")
	}
}

// fit truncates a single line to the text width.
func (l *layout) fit(s string) string {
	lines := l.split(s)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

func (l *layout) story(s *model.Story) {
	l.pdf.AddPage()

	l.pdf.SetFont(fontFamily, "I", 10)
	l.pdf.CellFormat(l.textW, 6, l.tr(strings.ToUpper(s.Category.Title())), "", 1, "L", false, 0, "")
	l.pdf.SetFont(fontFamily, "B", 18)
	for _, line := range l.split(s.Title) {
		l.pdf.CellFormat(l.textW, 9, line, "", 1, "L", false, 0, "")
	}
	l.pdf.SetFont(fontFamily, "", 9)
	l.pdf.CellFormat(l.textW, 5, s.CreationTime.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	l.pdf.Ln(4)

	l.pdf.SetFont(fontFamily, "", bodyFontSize)
	bottom := l.pageH - margin
	for _, para := range strings.Split(strings.ReplaceAll(s.Content, "\r\n", "\n"), "\n") {
		lines := []string{""}
		if strings.TrimSpace(para) != "" {
			lines = l.split(para)
		}
		for _, line := range lines {
			if l.pdf.GetY()+lineHeight > bottom {
				l.pdf.AddPage()
				l.pdf.SetFont(fontFamily, "", bodyFontSize)
			}
			l.pdf.CellFormat(l.textW, lineHeight, line, "", 1, "L", false, 0, "")
		}
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// FileName derives a download file name from the book title.
func FileName(title string) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "my-life-story"
	}
	return slug + ".pdf"
}
