// Package cms serves localized documentation pages from local markdown with
// YAML front matter. Pages are rendered once and cached; a miss falls back
// to embedded content so the docs route never 500s on a bare deployment.
package cms

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"

	"libiss.org/pos-web/internal/format"
)

// ErrNotFound is returned when no document exists for a slug in any language.
var ErrNotFound = errors.New("cms: not found")

// Doc is a localized documentation page, optionally carrying an ordered
// tutorial of sequential step sections.
type Doc struct {
	Slug      string
	Lang      string
	Title     string
	Summary   string
	Body      template.HTML
	UpdatedAt time.Time
	Steps     []TutorialStep
}

// TutorialStep is one section of the step-by-step setup tutorial.
type TutorialStep struct {
	Title string
	Body  template.HTML
}

type frontMatter struct {
	Title     string `yaml:"title"`
	Summary   string `yaml:"summary"`
	Lang      string `yaml:"lang"`
	UpdatedAt string `yaml:"updated_at"`
	Tutorial  []struct {
		Title string `yaml:"title"`
		Body  string `yaml:"body"`
	} `yaml:"tutorial"`
}

var (
	markdown = goldmark.New(
		goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// Store reads and caches documentation pages from a content directory.
type Store struct {
	dir string

	mu    sync.RWMutex
	cache map[string]Doc
}

func NewStore(dir string) *Store {
	return &Store{dir: strings.TrimSpace(dir), cache: map[string]Doc{}}
}

// Doc returns the page for slug in lang, trying the exact language file,
// then the embedded fallback for that slug and language.
func (s *Store) Doc(slug, lang string) (Doc, error) {
	key := slug + "." + lang
	s.mu.RLock()
	if doc, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return doc, nil
	}
	s.mu.RUnlock()

	doc, err := s.load(slug, lang)
	if err != nil {
		if fb, ok := fallbackDoc(slug, lang); ok {
			return fb, nil
		}
		return Doc{}, err
	}
	s.mu.Lock()
	s.cache[key] = doc
	s.mu.Unlock()
	return doc, nil
}

func (s *Store) load(slug, lang string) (Doc, error) {
	if s == nil || s.dir == "" {
		return Doc{}, ErrNotFound
	}
	path := filepath.Join(s.dir, fmt.Sprintf("%s.%s.md", slug, lang))
	raw, err := os.ReadFile(path)
	if err != nil {
		return Doc{}, ErrNotFound
	}
	return Parse(slug, lang, raw)
}

// Parse splits front matter from the markdown body and renders both through
// goldmark with sanitization.
func Parse(slug, lang string, raw []byte) (Doc, error) {
	fm, body, err := splitFrontMatter(raw)
	if err != nil {
		return Doc{}, fmt.Errorf("parse %s.%s: %w", slug, lang, err)
	}
	doc := Doc{
		Slug:      slug,
		Lang:      lang,
		Title:     fm.Title,
		Summary:   fm.Summary,
		UpdatedAt: format.ParseDate(fm.UpdatedAt),
	}
	if fm.Lang != "" {
		doc.Lang = fm.Lang
	}
	doc.Body, err = Render(body)
	if err != nil {
		return Doc{}, err
	}
	for _, step := range fm.Tutorial {
		rendered, err := Render([]byte(step.Body))
		if err != nil {
			return Doc{}, err
		}
		doc.Steps = append(doc.Steps, TutorialStep{Title: step.Title, Body: rendered})
	}
	return doc, nil
}

// Render converts markdown to sanitized HTML.
func Render(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(sanitizer.SanitizeBytes(buf.Bytes())), nil
}

func splitFrontMatter(raw []byte) (frontMatter, []byte, error) {
	var fm frontMatter
	trimmed := bytes.TrimLeft(raw, "\ufeff\n\r")
	if !bytes.HasPrefix(trimmed, []byte("---")) {
		return fm, raw, nil
	}
	rest := trimmed[3:]
	end := bytes.Index(rest, []byte("\n---"))
	if end == -1 {
		return fm, raw, nil
	}
	head := rest[:end]
	body := rest[end+4:]
	if err := yaml.Unmarshal(head, &fm); err != nil {
		return fm, nil, err
	}
	return fm, body, nil
}
