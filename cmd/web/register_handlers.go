package main

import (
	"errors"
	"net/http"

	"libiss.org/pos-web/internal/account"
	handlersPkg "libiss.org/pos-web/internal/handlers"
	mw "libiss.org/pos-web/internal/middleware"
	"libiss.org/pos-web/internal/wizard"
)

func restoredWizard(sess *mw.SessionData) *wizard.Wizard {
	wz := wizard.New(registrationSteps())
	wz.Restore(sess.Registration.Step)
	return wz
}

// RegisterPageHandler renders the multi-step shop registration form at the
// step the session last saw.
func RegisterPageHandler(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r)
	wz := restoredWizard(sess)
	renderRegister(w, r, wz, sess.Registration.Values, nil, handlersPkg.Status{})
}

// RegisterStepHandler processes next/prev transitions. Retreat never
// validates; advance validates the current step only and blocks on errors.
func RegisterStepHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	lang := mw.Lang(r)
	sess := mw.GetSession(r)
	wz := restoredWizard(sess)
	values := collectStepValues(r, sess, wz.Step())

	if r.FormValue("action") == "prev" {
		wz.Prev()
		persistDraft(sess, wz.Current(), values)
		http.Redirect(w, r, "/create-store", http.StatusSeeOther)
		return
	}

	errs := wz.Next(values)
	persistDraft(sess, wz.Current(), values)
	if len(errs) > 0 {
		renderRegister(w, r, wz, values, errs, handlersPkg.Status{
			Message: i18nBundle.T(lang, "form.errorStep"),
			Kind:    "error",
		})
		return
	}
	http.Redirect(w, r, "/create-store", http.StatusSeeOther)
}

// RegisterSubmitHandler validates the final step, enforces the password
// match rule and submits the registration to the account API.
func RegisterSubmitHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	lang := mw.Lang(r)
	sess := mw.GetSession(r)
	wz := restoredWizard(sess)
	values := collectStepValues(r, sess, wz.Step())

	// submit is only reachable from the final step; anything earlier
	// re-renders where the wizard actually is
	if wz.Current() != wz.Count()-1 {
		persistDraft(sess, wz.Current(), values)
		renderRegister(w, r, wz, values, nil, handlersPkg.Status{
			Message: i18nBundle.T(lang, "form.errorStep"),
			Kind:    "error",
		})
		return
	}

	// re-validate the active (last) step on submit
	errs := wizard.Validate(wz.Step(), values)
	if len(errs) > 0 {
		renderRegister(w, r, wz, values, errs, handlersPkg.Status{
			Message: i18nBundle.T(lang, "form.errorStep"),
			Kind:    "error",
		})
		return
	}
	if values["password"] != values["passwordConfirm"] {
		mismatch := []wizard.FieldError{{Field: "passwordConfirm", Key: "form.errorPasswordMatch"}}
		renderRegister(w, r, wz, values, mismatch, handlersPkg.Status{
			Message: i18nBundle.T(lang, "form.errorPasswordMatch"),
			Kind:    "error",
		})
		return
	}

	reg := account.Registration{
		Name:        values["name"],
		Email:       values["email"],
		Password:    values["password"],
		Phone:       values["phone"],
		ShopName:    values["shopName"],
		INN:         values["inn"],
		Description: values["description"],
		Address:     values["address"],
		CityID:      values["cityId"],
	}
	res, err := apiClient.Register(r.Context(), reg)
	if err != nil {
		key := "form.errorGeneric"
		if errors.Is(err, account.ErrEmailTaken) {
			key = "form.errorEmail"
		}
		renderRegister(w, r, wz, values, nil, handlersPkg.Status{
			Message: i18nBundle.T(lang, key),
			Kind:    "error",
		})
		return
	}

	applyAuthResult(sess, res)
	sess.Registration = mw.RegistrationState{}
	sess.RegenerateID()
	http.Redirect(w, r, "/office?registered=1", http.StatusSeeOther)
}

// applyAuthResult persists whatever the API returned; each field is
// independently optional.
func applyAuthResult(sess *mw.SessionData, res account.AuthResult) {
	if res.Token != "" {
		sess.Token = res.Token
	}
	if res.User != nil {
		sess.User = &mw.User{ID: res.User.ID.String(), Name: res.User.Name}
	}
	if res.ShopID != "" {
		sess.ShopID = res.ShopID
	}
	if res.ShopName != "" {
		sess.ShopName = res.ShopName
	}
	sess.MarkDirty()
}

func renderRegister(w http.ResponseWriter, r *http.Request, wz *wizard.Wizard, values map[string]string, errs []wizard.FieldError, status handlersPkg.Status) {
	lang := mw.Lang(r)
	cities, cityErr := loadCities(r)
	vm := basePage(r, "form.title")
	vm.Status = status
	vm.Form = buildRegisterView(lang, wz, values, errs, cities, cityErr)
	renderPage(w, r, "register", vm)
}

// loadCities fetches the city select options; any failure degrades to a
// localized placeholder option instead of failing the page.
func loadCities(r *http.Request) ([]account.City, bool) {
	cities, err := apiClient.Cities(r.Context())
	if err != nil || len(cities) == 0 {
		if err != nil {
			appLog.Warn().Err(err).Msg("cities unavailable")
		}
		return nil, true
	}
	return cities, false
}
