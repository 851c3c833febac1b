package main

import (
	"net/http"
	"strconv"
	"strings"

	"libiss.org/pos-web/internal/cms"
	mw "libiss.org/pos-web/internal/middleware"
)

// DocsView is the getting-started page: the rendered document, a personalized
// welcome line when signed in, and the tutorial step navigator.
type DocsView struct {
	Doc     cms.Doc
	Welcome string

	Step       int
	StepCount  int
	StepTitle  string
	StepBody   any
	PrevHidden bool
	NextHidden bool
	NextLabel  string
	Restart    bool
}

func DocsHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	sess := mw.GetSession(r)

	doc, err := docsStore.Doc("getting-started", lang)
	if err != nil {
		appLog.Error().Err(err).Msg("docs unavailable")
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	view := DocsView{Doc: doc, Welcome: docsWelcome(sess)}
	if n := len(doc.Steps); n > 0 {
		step, _ := strconv.Atoi(r.URL.Query().Get("step"))
		if step < 0 {
			step = 0
		}
		if step > n-1 {
			step = n - 1
		}
		view.Step = step
		view.StepCount = n
		view.StepTitle = doc.Steps[step].Title
		view.StepBody = doc.Steps[step].Body
		view.PrevHidden = step == 0
		view.NextHidden = step == n-1
		view.Restart = step == n-1
		view.NextLabel = i18nBundle.T(lang, "docs.tutorialNext")
		if view.NextHidden {
			view.NextLabel = i18nBundle.T(lang, "docs.tutorialComplete")
		}
	}

	vm := basePage(r, "docs.title")
	vm.Docs = view
	renderPage(w, r, "docs", vm)
}

// docsWelcome joins the cached user name and shop id into the greeting line
// shown above the tutorial.
func docsWelcome(sess *mw.SessionData) string {
	var parts []string
	if sess.User != nil && strings.TrimSpace(sess.User.Name) != "" {
		parts = append(parts, sess.User.Name)
	}
	if sess.ShopID != "" {
		parts = append(parts, sess.ShopID)
	}
	return strings.Join(parts, " • ")
}
