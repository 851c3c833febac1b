package handlers

import (
	"libiss.org/pos-web/internal/nav"
	"libiss.org/pos-web/internal/seo"
)

// Status is the page-level banner slot: a neutral, error or success message
// rendered above the main content.
type Status struct {
	Message string
	Kind    string // "", "error", "success"
}

// PageData is the generic view model for pages using the shared layout.
type PageData struct {
	Title string
	Lang  string
	SEO   seo.Meta

	Path      string
	CSRF      string
	Nav       []nav.RenderedItem
	CTA       nav.CTA
	LoginLink nav.CTA
	Authed    bool

	Status Status

	// Optional per-page view model payloads
	Home    any
	Form    any
	Office  any
	Gallery any
	Docs    any
}
