package main

import (
	"net/http"

	"libiss.org/pos-web/internal/account"
	handlersPkg "libiss.org/pos-web/internal/handlers"
	mw "libiss.org/pos-web/internal/middleware"
)

// OfficePage is the full dashboard view model.
type OfficePage struct {
	View     account.OfficeView
	Licenses LicensesFrag
}

// LicensesFrag is the htmx-swappable licenses table plus the trial button.
type LicensesFrag struct {
	Lang      string
	CSRF      string
	Rows      []account.LicenseRow
	ShowTrial bool
	Status    handlersPkg.Status
}

// loadOfficeView pulls fresh account state, reconciles it with the session
// snapshot and persists the reconciled identity back into the cookie.
func loadOfficeView(r *http.Request, sess *mw.SessionData) account.OfficeView {
	ctx := r.Context()
	lang := mw.Lang(r)

	if user, err := apiClient.Profile(ctx, sess.Token); err == nil && user != nil {
		sess.User = &mw.User{ID: user.ID.String(), Name: user.Name}
		sess.MarkDirty()
	} else if err != nil {
		appLog.Warn().Err(err).Msg("profile fetch failed")
	}

	var userID string
	if sess.User != nil {
		userID = sess.User.ID
	}

	shops, err := apiClient.Shops(ctx, sess.Token)
	if err != nil {
		appLog.Warn().Err(err).Msg("shops fetch failed")
	}
	owned := account.FilterOwned(shops, userID)
	if len(owned) > 0 {
		sess.ShopID = owned[0].ID.String()
		sess.ShopName = owned[0].Name
		sess.MarkDirty()
	}

	licenses, err := apiClient.Licenses(ctx, sess.Token)
	if err != nil {
		appLog.Warn().Err(err).Msg("licenses fetch failed")
	}

	return account.BuildOfficeView(snapshotFrom(sess), owned, licenses, lang, tr(lang))
}

func snapshotFrom(sess *mw.SessionData) account.Snapshot {
	snap := account.Snapshot{
		ShopID:   sess.ShopID,
		ShopName: sess.ShopName,
	}
	if sess.User != nil {
		snap.UserID = sess.User.ID
		snap.UserName = sess.User.Name
	}
	return snap
}

func licensesFrag(r *http.Request, view account.OfficeView, status handlersPkg.Status) LicensesFrag {
	return LicensesFrag{
		Lang:      mw.Lang(r),
		CSRF:      csrfToken(r),
		Rows:      view.Licenses,
		ShowTrial: view.ShowTrial,
		Status:    status,
	}
}
