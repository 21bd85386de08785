// Package scripture serves verses from per-book JSON files.
package scripture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrChapterNotFound = errors.New("chapter not found")
	ErrVerseNotFound   = errors.New("verse not found")
)

// Verse is a single resolved passage.
type Verse struct {
	Book    string `json:"book"`
	Chapter string `json:"chapter"`
	Verse   string `json:"verse"`
	Text    string `json:"text"`
}

type bookFile struct {
	Book     string `json:"book"`
	Chapters []struct {
		Chapter string `json:"chapter"`
		Verses  []struct {
			Verse string `json:"verse"`
			Text  string `json:"text"`
		} `json:"verses"`
	} `json:"chapters"`
}

type book struct {
	name     string
	chapters map[string]map[string]string
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	bookName   = regexp.MustCompile(`^[0-9A-Za-z_' -]+$`)
)

// Service looks verses up in dir/<Book_Name>.json and caches parsed books.
type Service struct {
	dir string

	mu    sync.RWMutex
	books map[string]*book
}

func NewService(dir string) *Service {
	return &Service{dir: dir, books: make(map[string]*book)}
}

// Lookup resolves book, chapter and verse. Spaces in the book name map to
// underscores in the file name.
func (s *Service) Lookup(_ context.Context, name, chapter, verse string) (Verse, error) {
	b, err := s.load(name)
	if err != nil {
		return Verse{}, err
	}

	verses, ok := b.chapters[strings.TrimSpace(chapter)]
	if !ok {
		return Verse{}, ErrChapterNotFound
	}
	text, ok := verses[strings.TrimSpace(verse)]
	if !ok {
		return Verse{}, ErrVerseNotFound
	}

	return Verse{Book: b.name, Chapter: strings.TrimSpace(chapter), Verse: strings.TrimSpace(verse), Text: text}, nil
}

func (s *Service) load(name string) (*book, error) {
	name = strings.TrimSpace(name)
	if name == "" || !bookName.MatchString(name) {
		return nil, ErrBookNotFound
	}
	key := whitespace.ReplaceAllString(name, "_")

	s.mu.RLock()
	b, ok := s.books[key]
	s.mu.RUnlock()
	if ok {
		return b, nil
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, key+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read book %s: %w", key, err)
	}

	var file bookFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode book %s: %w", key, err)
	}

	b = &book{name: file.Book, chapters: make(map[string]map[string]string, len(file.Chapters))}
	if b.name == "" {
		b.name = name
	}
	for _, ch := range file.Chapters {
		verses := make(map[string]string, len(ch.Verses))
		for _, v := range ch.Verses {
			verses[v.Verse] = v.Text
		}
		b.chapters[ch.Chapter] = verses
	}

	s.mu.Lock()
	s.books[key] = b
	s.mu.Unlock()
	return b, nil
}
