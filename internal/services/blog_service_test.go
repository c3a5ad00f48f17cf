package services

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBlogCreate_NormalizesContent(t *testing.T) {
	db := newServiceDB(t)
	svc := NewBlogService(db)

	raw := strings.ReplaceAll(validBody(), ". ", ".  \r\n") + "\n\n\n\nThe end."
	b, err := svc.Create(context.Background(), "author-1", CreateBlogInput{
		Title:   "Morning Pages for Developers",
		Content: raw,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if strings.Contains(b.Content, "\r") || strings.Contains(b.Content, "\n\n\n") {
		t.Fatalf("content not normalized: %q", b.Content)
	}
	if b.Slug != "morning-pages-for-developers" {
		t.Fatalf("slug = %q", b.Slug)
	}
}

func TestBlogCreate_DuplicateTitleIsCaseInsensitive(t *testing.T) {
	db := newServiceDB(t)
	svc := NewBlogService(db)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "a", CreateBlogInput{
		Title:     "Focus Without Burnout",
		Content:   validBody(),
		Published: true,
	}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	if _, err := svc.Create(ctx, "a", CreateBlogInput{
		Title:   "FOCUS WITHOUT BURNOUT",
		Content: validBody(),
	}); !errors.Is(err, ErrDuplicateContent) {
		t.Fatalf("want ErrDuplicateContent, got %v", err)
	}
}

func TestBlogGetBySlug_NotFound(t *testing.T) {
	db := newServiceDB(t)
	svc := NewBlogService(db)

	if _, err := svc.GetBySlug(context.Background(), "missing"); !errors.Is(err, ErrBlogNotFound) {
		t.Fatalf("want ErrBlogNotFound, got %v", err)
	}
}

func TestBlogSearch_EmptyQuery(t *testing.T) {
	db := newServiceDB(t)
	svc := NewBlogService(db)

	if _, err := svc.Search(context.Background(), "", 5); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("want ErrEmptyQuery, got %v", err)
	}
}
