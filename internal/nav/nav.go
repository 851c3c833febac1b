package nav

import (
	"strings"
)

// Item represents a top-level navigation item.
type Item struct {
	Path     string // e.g. "/gallery"
	LabelKey string // i18n key, e.g. "nav.gallery"
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href     string
	LabelKey string
	Active   bool
}

// CTA is the auth-aware call-to-action rendered in the header. With a cached
// token the login link retargets to the office.
type CTA struct {
	Href     string
	LabelKey string
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/gallery", LabelKey: "nav.gallery"},
	{Path: "/docs", LabelKey: "nav.docs"},
	{Path: "/create-store", LabelKey: "nav.createStore"},
}

// Build renders navigation items with active state given the current path.
func Build(currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	items := make([]RenderedItem, 0, len(Main))
	for _, it := range Main {
		active := isActive(it.Path, currentPath)
		items = append(items, RenderedItem{
			Href:     it.Path,
			LabelKey: it.LabelKey,
			Active:   active,
		})
	}
	return items
}

// AuthCTA returns the header call-to-action. Authed sessions go straight to
// the office; everyone else is sent to the login form.
func AuthCTA(authed bool) CTA {
	if authed {
		return CTA{Href: "/office", LabelKey: "cta.office"}
	}
	return CTA{Href: "/login", LabelKey: "cta.login"}
}

// LoginLink returns the "already have a shop" link used on registration and
// landing pages; with a cached token it leads to the office instead.
func LoginLink(authed bool) CTA {
	if authed {
		return CTA{Href: "/office", LabelKey: "form.loginOffice"}
	}
	return CTA{Href: "/login", LabelKey: "form.login"}
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	// match exact or prefix boundary: "/docs" or "/docs/..."
	if currentPath == itemPath {
		return true
	}
	if strings.HasPrefix(currentPath, itemPath+"/") {
		return true
	}
	return false
}
