package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"libiss.org/pos-web/internal/account"
	handlersPkg "libiss.org/pos-web/internal/handlers"
	mw "libiss.org/pos-web/internal/middleware"
)

// requireAuth redirects anonymous visitors to the login page. It returns the
// session when authenticated, nil otherwise.
func requireAuth(w http.ResponseWriter, r *http.Request) *mw.SessionData {
	sess := mw.GetSession(r)
	if !sess.Authenticated() {
		if mw.IsHTMX(r.Context()) {
			w.Header().Set("HX-Redirect", "/login")
			w.WriteHeader(http.StatusUnauthorized)
			return nil
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil
	}
	return sess
}

// OfficeHandler renders the account dashboard: stores, licenses and the
// trial call to action, reconciled from cache and fresh fetches.
func OfficeHandler(w http.ResponseWriter, r *http.Request) {
	sess := requireAuth(w, r)
	if sess == nil {
		return
	}
	lang := mw.Lang(r)
	view := loadOfficeView(r, sess)

	vm := basePage(r, "office.title")
	if r.URL.Query().Get("registered") == "1" {
		vm.Status = handlersPkg.Status{
			Message: i18nBundle.T(lang, "form.success"),
			Kind:    "success",
		}
	}
	vm.Office = OfficePage{
		View:     view,
		Licenses: licensesFrag(r, view, handlersPkg.Status{}),
	}
	renderPage(w, r, "office", vm)
}

// OfficeLicensesFrag re-fetches license state and renders the swappable
// table fragment.
func OfficeLicensesFrag(w http.ResponseWriter, r *http.Request) {
	sess := requireAuth(w, r)
	if sess == nil {
		return
	}
	view := loadOfficeView(r, sess)
	renderTemplate(w, r, "frag_office_licenses", licensesFrag(r, view, handlersPkg.Status{}))
}

// OfficeTrialHandler provisions the one-time trial license for the active
// shop and re-renders the licenses fragment with the outcome.
func OfficeTrialHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	lang := mw.Lang(r)

	if sess.Token == "" || sess.ShopID == "" {
		// no credentials cached, skip the network call entirely
		view := loadOfficeView(r, sess)
		renderTemplate(w, r, "frag_office_licenses", licensesFrag(r, view, handlersPkg.Status{
			Message: i18nBundle.T(lang, "office.trialErrorAuth"),
			Kind:    "error",
		}))
		return
	}

	status := handlersPkg.Status{Kind: "success", Message: i18nBundle.T(lang, "office.trialSuccess")}
	payload, err := apiClient.CreateTrial(r.Context(), sess.Token, sess.ShopID)
	switch {
	case errors.Is(err, account.ErrTrialExists):
		status = handlersPkg.Status{Kind: "error", Message: i18nBundle.T(lang, "office.trialExists")}
	case err != nil:
		appLog.Warn().Err(err).Msg("trial provisioning failed")
		status = handlersPkg.Status{Kind: "error", Message: i18nBundle.T(lang, "office.trialError")}
	default:
		sess.License = payload
		sess.MarkDirty()
	}

	view := loadOfficeView(r, sess)
	renderTemplate(w, r, "frag_office_licenses", licensesFrag(r, view, status))
}

// OfficeCopyValue resolves a license row field to its copyable value. The
// page's copy buttons read the value from this endpoint before writing it to
// the clipboard.
func OfficeCopyValue(w http.ResponseWriter, r *http.Request) {
	sess := requireAuth(w, r)
	if sess == nil {
		return
	}
	lang := mw.Lang(r)
	field := r.URL.Query().Get("field")
	shopID := r.URL.Query().Get("shopId")

	view := loadOfficeView(r, sess)
	for _, row := range view.Licenses {
		if row.Placeholder || row.ShopID != shopID {
			continue
		}
		var value string
		switch field {
		case "key":
			value = row.Key
		case "shopId":
			value = row.ShopID
		}
		if value != "" {
			render.JSON(w, r, map[string]string{
				"value": value,
				"label": i18nBundle.T(lang, "office.copied"),
			})
			return
		}
	}
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, map[string]string{
		"error": i18nBundle.T(lang, "office.copyFailed"),
	})
}
