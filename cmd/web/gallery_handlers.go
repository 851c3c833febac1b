package main

import (
	"net/http"
	"strconv"

	"libiss.org/pos-web/internal/gallery"
	mw "libiss.org/pos-web/internal/middleware"
)

// galleryItems is the static set of product screenshots.
func galleryItems() []gallery.Item {
	return []gallery.Item{
		{Src: "/assets/img/gallery/sales.svg", Alt: "sales screen", CaptionKey: "gallery.captionSales"},
		{Src: "/assets/img/gallery/stock.svg", Alt: "stock screen", CaptionKey: "gallery.captionStock"},
		{Src: "/assets/img/gallery/reports.svg", Alt: "reports screen", CaptionKey: "gallery.captionReports"},
		{Src: "/assets/img/gallery/shifts.svg", Alt: "shifts screen", CaptionKey: "gallery.captionShifts"},
		{Src: "/assets/img/gallery/catalog.svg", Alt: "catalog screen", CaptionKey: "gallery.captionCatalog"},
		{Src: "/assets/img/gallery/settings.svg", Alt: "settings screen", CaptionKey: "gallery.captionSettings"},
	}
}

// GalleryView lists the thumbnails for the gallery page.
type GalleryView struct {
	Items []gallery.Item
}

// LightboxView is the render-ready viewer fragment state.
type LightboxView struct {
	Open    bool
	Index   int
	Count   int
	Zoom    float64
	Src     string
	Alt     string
	Caption string
}

func GalleryHandler(w http.ResponseWriter, r *http.Request) {
	vm := basePage(r, "gallery.title")
	vm.Gallery = GalleryView{Items: galleryItems()}
	renderPage(w, r, "gallery", vm)
}

// GalleryLightboxFrag rebuilds the viewer from the query state, applies the
// requested action and renders the fragment.
func GalleryLightboxFrag(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lang := mw.Lang(r)

	lb := gallery.New(galleryItems())
	index, indexErr := strconv.Atoi(q.Get("index"))
	if indexErr == nil && index >= 0 {
		lb.Open(index)
	}
	if zoom, err := strconv.ParseFloat(q.Get("zoom"), 64); err == nil && lb.IsOpen() {
		lb.SetZoom(zoom)
	}

	switch q.Get("action") {
	case "open":
		if indexErr == nil {
			lb.Open(index)
		}
	case "next":
		lb.Next()
	case "prev":
		lb.Prev()
	case "zoom-in":
		lb.ZoomIn()
	case "zoom-out":
		lb.ZoomOut()
	case "close":
		lb.Close()
	}

	view := LightboxView{
		Open:  lb.IsOpen(),
		Index: lb.Current(),
		Count: lb.Len(),
		Zoom:  lb.Zoom(),
	}
	if item, ok := lb.Item(); ok {
		view.Src = item.Src
		view.Alt = item.Alt
		view.Caption = i18nBundle.T(lang, item.CaptionKey)
	}
	renderTemplate(w, r, "frag_lightbox", view)
}
