package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"hellosleep/internal/model"
)

var ErrBookletNotFound = errors.New("booklet not found")

// BookletService maps active tags to curated booklets
type BookletService struct {
	booklets []model.Booklet
	tags     []model.Tag
	md       goldmark.Markdown
}

func NewBookletService(booklets []model.Booklet, tags []model.Tag) *BookletService {
	return &BookletService{
		booklets: booklets,
		tags:     tags,
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Match returns every booklet bound to one of activeTags. Order follows the
// tags, then booklet table order; each booklet appears once.
func (s *BookletService) Match(activeTags []string) []model.Booklet {
	seen := make(map[string]bool)
	var out []model.Booklet
	for _, tag := range activeTags {
		for _, b := range s.booklets {
			if b.Tag != tag || seen[b.ID] {
				continue
			}
			seen[b.ID] = true
			out = append(out, b)
		}
	}
	return out
}

// IDs returns the booklet IDs for activeTags in Match order
func (s *BookletService) IDs(activeTags []string) []string {
	matched := s.Match(activeTags)
	ids := make([]string, len(matched))
	for i, b := range matched {
		ids[i] = b.ID
	}
	return ids
}

// Gaps lists tags that no booklet covers
func (s *BookletService) Gaps() []string {
	covered := make(map[string]bool)
	for _, b := range s.booklets {
		covered[b.Tag] = true
	}
	var gaps []string
	for _, t := range s.tags {
		if !covered[t.Name] {
			gaps = append(gaps, t.Name)
		}
	}
	return gaps
}

func (s *BookletService) Get(id string) (*model.Booklet, error) {
	for i := range s.booklets {
		if s.booklets[i].ID == id {
			b := s.booklets[i]
			return &b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrBookletNotFound, id)
}

// Markdown lays the booklet sections out as one markdown document
func Markdown(b *model.Booklet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", b.Title)
	if b.Description != "" {
		fmt.Fprintf(&sb, "_%s_\n\n", b.Description)
	}
	section := func(title, body string) {
		if body != "" {
			fmt.Fprintf(&sb, "## %s\n\n%s\n\n", title, body)
		}
	}
	section("Summary", b.Content.Summary)
	section("The problem", b.Content.Problem)
	section("The approach", b.Content.Solution)

	if len(b.Content.Steps) > 0 {
		sb.WriteString("## Steps\n\n")
		for i, st := range b.Content.Steps {
			fmt.Fprintf(&sb, "%d. **%s**: %s\n", i+1, st.Title, st.Description)
		}
		sb.WriteString("\n")
	}
	list := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(&sb, "## %s\n\n", title)
		for _, it := range items {
			fmt.Fprintf(&sb, "- %s\n", it)
		}
		sb.WriteString("\n")
	}
	list("Tips", b.Content.Tips)
	list("Warnings", b.Content.Warnings)

	if len(b.Content.Resources) > 0 {
		sb.WriteString("## Resources\n\n")
		for _, r := range b.Content.Resources {
			fmt.Fprintf(&sb, "- [%s](%s)\n", r.Title, r.URL)
		}
		sb.WriteString("\n")
	}
	if m := b.Metadata; m.EstimatedTime != "" || m.ExpectedOutcome != "" {
		fmt.Fprintf(&sb, "---\n\nTime: %s · Difficulty: %s · Outcome: %s\n", m.EstimatedTime, m.Difficulty, m.ExpectedOutcome)
	}
	return sb.String()
}

// RenderHTML converts the booklet to HTML through goldmark
func (s *BookletService) RenderHTML(b *model.Booklet) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(Markdown(b)), &buf); err != nil {
		return "", fmt.Errorf("render booklet %s: %w", b.ID, err)
	}
	return buf.String(), nil
}
