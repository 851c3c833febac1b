package cms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrontMatterAndTutorial(t *testing.T) {
	raw := []byte(`---
title: POS setup
summary: Summary line.
lang: en
updated_at: 2025-06-01
tutorial:
  - title: Step one
    body: First **step** body.
  - title: Step two
    body: Second step body.
---

Intro paragraph.
`)
	doc, err := Parse("getting-started", "en", raw)
	require.NoError(t, err)
	assert.Equal(t, "POS setup", doc.Title)
	assert.Equal(t, "en", doc.Lang)
	assert.False(t, doc.UpdatedAt.IsZero())
	require.Len(t, doc.Steps, 2)
	assert.Contains(t, string(doc.Steps[0].Body), "<strong>step</strong>")
	assert.Contains(t, string(doc.Body), "Intro paragraph.")
}

func TestRenderSanitizesScripts(t *testing.T) {
	out, err := Render([]byte("hello <script>alert(1)</script> world"))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script>")
	assert.Contains(t, string(out), "hello")
}

func TestMissingFileFallsBackToEmbedded(t *testing.T) {
	s := NewStore(t.TempDir())
	for _, lang := range []string{"ru", "en"} {
		doc, err := s.Doc("getting-started", lang)
		require.NoError(t, err, lang)
		assert.Equal(t, lang, doc.Lang)
		assert.NotEmpty(t, doc.Steps)
	}
}

func TestUnknownSlugReturnsNotFound(t *testing.T) {
	s := NewStore("")
	_, err := s.Doc("no-such-doc", "en")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseSkipsByteOrderMark(t *testing.T) {
	raw := []byte("\ufeff---\ntitle: BOM doc\nlang: en\n---\n\nBody text.\n")
	doc, err := Parse("bom", "en", raw)
	require.NoError(t, err)
	assert.Equal(t, "BOM doc", doc.Title)
	assert.Contains(t, string(doc.Body), "Body text.")
}

func TestBodyWithoutFrontMatter(t *testing.T) {
	doc, err := Parse("plain", "en", []byte("Just a paragraph."))
	require.NoError(t, err)
	assert.Empty(t, doc.Title)
	assert.True(t, strings.Contains(string(doc.Body), "Just a paragraph."))
}
