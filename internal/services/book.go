package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/HamidMoopen/memo-ai-sub000/internal/book"
	"github.com/HamidMoopen/memo-ai-sub000/internal/metrics"
	"github.com/HamidMoopen/memo-ai-sub000/internal/model"
	"github.com/HamidMoopen/memo-ai-sub000/internal/store"
)

// ErrNoStories is returned when a book is requested for a user with no stories.
var ErrNoStories = fmt.Errorf("%w: no stories found", model.ErrNotFound)

// BookService renders a user's stories as a PDF.
type BookService struct {
	store store.Store
}

func NewBookService(s store.Store) *BookService { return &BookService{store: s} }

// Book is a rendered PDF.
type Book struct {
	FileName string
	Pages    int
	PDF      []byte
}

// ExportBook renders every story of userID, oldest first.
func (s *BookService) ExportBook(ctx context.Context, userID, title string) (*Book, error) {
	stories, err := s.store.Stories().List(ctx, model.ListStoriesRequest{UserID: userID, Oldest: true})
	if err != nil {
		return nil, err
	}
	if len(stories) == 0 {
		return nil, ErrNoStories
	}

	var author string
	if u, err := s.store.Users().Get(ctx, userID); err == nil {
		author = u.Email
	}

	var buf bytes.Buffer
	pages, err := book.Render(&buf, title, stories, book.Options{Author: author})
	metrics.RecordBookExport(pages, err)
	if err != nil {
		if errors.Is(err, book.ErrNoStories) {
			return nil, ErrNoStories
		}
		return nil, err
	}
	return &Book{FileName: book.FileName(title), Pages: pages, PDF: buf.Bytes()}, nil
}
