package main

import (
	"fmt"
	"html/template"
	"net/http"

	handlersPkg "libiss.org/pos-web/internal/handlers"
	mw "libiss.org/pos-web/internal/middleware"
	"libiss.org/pos-web/internal/nav"
)

// render executes a named template. In dev mode, templates are reparsed on
// each request.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	var t *template.Template
	if devMode {
		tc, err := parseTemplates()
		if err != nil {
			http.Error(w, fmt.Sprintf("template parse error: %v", err), http.StatusInternalServerError)
			return
		}
		t = tc
	} else {
		t = tmplCache
	}
	if t == nil {
		http.Error(w, "template not initialized", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
	}
}

// renderPage executes the full-document template for a page.
func renderPage(w http.ResponseWriter, r *http.Request, page string, vm handlersPkg.PageData) {
	renderTemplate(w, r, "page_"+page, vm)
}

// basePage fills the layout fields every page shares.
func basePage(r *http.Request, titleKey string) handlersPkg.PageData {
	lang := mw.Lang(r)
	sess := mw.GetSession(r)
	authed := sess.Authenticated()
	vm := handlersPkg.PageData{
		Title:     i18nBundle.T(lang, titleKey),
		Lang:      lang,
		Path:      r.URL.Path,
		CSRF:      csrfToken(r),
		Nav:       nav.Build(r.URL.Path),
		CTA:       nav.AuthCTA(authed),
		LoginLink: nav.LoginLink(authed),
		Authed:    authed,
	}
	brand := i18nBundle.T(lang, "brand.name")
	vm.SEO.Title = vm.Title + " | " + brand
	vm.SEO.Description = i18nBundle.T(lang, "brand.tagline")
	vm.SEO.Canonical = absoluteURL(r)
	vm.SEO.OG.URL = vm.SEO.Canonical
	vm.SEO.OG.SiteName = brand
	vm.SEO.OG.Title = vm.SEO.Title
	vm.SEO.OG.Description = vm.SEO.Description
	vm.SEO.OG.Type = "website"
	return vm
}

// tr adapts the bundle to the account layer's Translate type.
func tr(lang string) func(string) string {
	return func(key string) string { return i18nBundle.T(lang, key) }
}

func absoluteURL(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil && (r.Host == "" || r.Header.Get("X-Forwarded-Proto") == "") {
		scheme = "http"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host + r.URL.Path
}

func csrfToken(r *http.Request) string {
	return mw.GetSession(r).CSRFToken
}
