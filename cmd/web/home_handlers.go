package main

import (
	"html/template"
	"net/http"

	handlersPkg "libiss.org/pos-web/internal/handlers"
	mw "libiss.org/pos-web/internal/middleware"
	"libiss.org/pos-web/internal/seo"
)

// HomeHandler renders the landing page.
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	vm := basePage(r, "home.title")
	brand := i18nBundle.T(lang, "brand.name")
	vm.Home = handlersPkg.HomeData{
		JSONLD: template.JS(seo.JSON([]map[string]any{
			seo.Organization(brand, absoluteURL(r), ""),
			seo.SoftwareApplication(brand, i18nBundle.T(lang, "brand.tagline"), absoluteURL(r)),
		})),
	}
	renderPage(w, r, "home", vm)
}
