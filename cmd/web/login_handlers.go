package main

import (
	"errors"
	"net/http"
	"strings"

	"libiss.org/pos-web/internal/account"
	mw "libiss.org/pos-web/internal/middleware"
)

// LoginView carries the office login form state between attempts.
type LoginView struct {
	Phone string
	Error string
}

func LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	vm := basePage(r, "login.title")
	vm.Form = LoginView{}
	renderPage(w, r, "login", vm)
}

// LoginSubmitHandler authenticates against the account API. A failed attempt
// re-renders the form with the status-specific message and leaves the session
// untouched.
func LoginSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	lang := mw.Lang(r)
	phone := strings.TrimSpace(r.FormValue("phone"))
	password := r.FormValue("password")

	res, err := apiClient.Login(r.Context(), phone, password)
	if err != nil {
		appLog.Warn().Err(err).Msg("login failed")
		vm := basePage(r, "login.title")
		vm.Form = LoginView{
			Phone: phone,
			Error: i18nBundle.T(lang, loginErrorKey(err)),
		}
		renderPage(w, r, "login", vm)
		return
	}

	sess := mw.GetSession(r)
	applyAuthResult(sess, res)
	sess.RegenerateID()
	http.Redirect(w, r, "/office", http.StatusSeeOther)
}

func loginErrorKey(err error) string {
	switch {
	case errors.Is(err, account.ErrBadRequest):
		return "login.error400"
	case errors.Is(err, account.ErrUnauthorized):
		return "login.error401"
	case errors.Is(err, account.ErrNotFound):
		return "login.error404"
	case errors.Is(err, account.ErrServer):
		return "login.error500"
	}
	return "login.error"
}
