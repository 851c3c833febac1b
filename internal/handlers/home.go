package handlers

import "html/template"

// HomeData is the landing-page payload beyond the shared layout fields.
type HomeData struct {
	JSONLD template.JS
}
