package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"libiss.org/pos-web/internal/account"
	"libiss.org/pos-web/internal/cms"
	"libiss.org/pos-web/internal/i18n"
)

// newTestRouter builds the app router against the given API base URL with
// per-request template reparsing and on-disk locales/content.
func newTestRouter(t *testing.T, apiBaseURL string) http.Handler {
	t.Helper()
	devMode = true
	templatesDir = "../../templates"
	publicDir = "../../public"
	if _, err := parseTemplates(); err != nil {
		t.Fatalf("parseTemplates failed: %v", err)
	}
	var err error
	i18nBundle, err = i18n.Load("../../locales", "ru", []string{"ru", "en"})
	if err != nil {
		t.Fatalf("load i18n: %v", err)
	}
	apiClient = account.NewClient(apiBaseURL)
	docsStore = cms.NewStore("../../content")
	appLog = zerolog.Nop()
	return newRouter()
}

// browser carries cookies between requests the way a real client would.
type browser struct {
	srv     http.Handler
	cookies map[string]string
}

func newBrowser(srv http.Handler) *browser {
	return &browser{srv: srv, cookies: map[string]string{}}
}

func (b *browser) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	var pairs []string
	for name, val := range b.cookies {
		pairs = append(pairs, name+"="+val)
	}
	if len(pairs) > 0 {
		req.Header.Set("Cookie", strings.Join(pairs, "; "))
	}
	rec := httptest.NewRecorder()
	b.srv.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c.Value
	}
	return rec
}

func (b *browser) get(t *testing.T, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept-Language", "en")
	return b.do(t, req)
}

func (b *browser) postForm(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	if tok := b.cookies["csrf_token"]; tok != "" {
		form.Set("_csrf", tok)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept-Language", "en")
	return b.do(t, req)
}

// newOfficeBackend serves a one-shop, one-license account fixture.
func newOfficeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	serve := func(pattern string, status int, body string) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		})
	}
	serve("/auth/login", 200, `{"data":{"token":"tok-1","user":{"id":42,"name":"Aigerim"},"shop":{"id":10,"name":"Central"}}}`)
	serve("/users/profile", 200, `{"data":{"user":{"id":42,"name":"Aigerim"}}}`)
	serve("/shops/", 200, `{"data":{"shops":[{"id":10,"name":"Central","userId":42,"isSubscribed":true,"license":{"subscriptionType":"pro"}},{"id":11,"name":"Not mine","userId":7}]}}`)
	serve("/licenses/my", 200, `[{"shopId":10,"licenseKey":"LIC-1","daysRemaining":14,"expiresAt":"2026-12-01"}]`)
	serve("/licenses/trial", 409, `{"error":"exists"}`)
	serve("/cities/", 200, `{"data":{"cities":[{"id":1,"name":"Almaty"}]}}`)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, b *browser) {
	t.Helper()
	if rec := b.get(t, "/login"); rec.Code != http.StatusOK {
		t.Fatalf("GET /login expected 200, got %d", rec.Code)
	}
	rec := b.postForm(t, "/login", url.Values{"phone": {"+77010000000"}, "password": {"secret1!"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login expected 303, got %d; body=%s", rec.Code, rec.Body.String())
	}
}

func TestHealthzOK(t *testing.T) {
	srv := newTestRouter(t, "")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "ok" {
		t.Fatalf("expected body 'ok', got %q", got)
	}
}

func TestHomeLocalized(t *testing.T) {
	srv := newTestRouter(t, "")
	cases := []struct {
		header string
		want   string
	}{
		{"ru-RU,ru;q=0.9", "Касса для вашего бизнеса"},
		{"en-US", "Point of sale for your business"},
		{"de-DE", "Point of sale for your business"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Accept-Language", tc.header)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), tc.want) {
			t.Fatalf("Accept-Language %q: expected %q in body", tc.header, tc.want)
		}
	}
}

func TestHomeStructuredData(t *testing.T) {
	srv := newTestRouter(t, "")
	b := newBrowser(srv)
	rec := b.get(t, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, typ := range []string{`"@type":"Organization"`, `"@type":"SoftwareApplication"`} {
		if !strings.Contains(body, typ) {
			t.Fatalf("expected %s schema in landing page", typ)
		}
	}
}

func TestHomeNavigationLinks(t *testing.T) {
	srv := newTestRouter(t, "")
	b := newBrowser(srv)
	rec := b.get(t, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	doc, err := html.Parse(rec.Body)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	hrefs := map[string]bool{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key == "href" {
					hrefs[a.Val] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, want := range []string{"/gallery", "/docs", "/create-store", "/login"} {
		if !hrefs[want] {
			t.Fatalf("expected link to %s in nav, got %v", want, hrefs)
		}
	}
}

func TestHomeLangSwitchPersists(t *testing.T) {
	srv := newTestRouter(t, "")
	b := newBrowser(srv)

	rec := b.get(t, "/?hl=ru")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Касса для вашего бизнеса") {
		t.Fatalf("expected russian copy after ?hl=ru")
	}

	// a later visit without the query keeps the choice, overriding the header
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US")
	rec = b.do(t, req)
	if !strings.Contains(rec.Body.String(), "Касса для вашего бизнеса") {
		t.Fatalf("expected persisted russian locale on second visit")
	}
}

func TestRegisterWizardStepValidation(t *testing.T) {
	backend := newOfficeBackend(t)
	srv := newTestRouter(t, backend.URL)
	b := newBrowser(srv)

	rec := b.get(t, "/create-store")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /create-store expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="email"`) {
		t.Fatalf("expected owner step fields on first render")
	}

	// missing email blocks the transition and reports the first error
	rec = b.postForm(t, "/create-store/step", url.Values{
		"action": {"next"},
		"name":   {"Aigerim"},
		"phone":  {"+77010000000"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("invalid step expected 200 re-render, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "This field is required") {
		t.Fatalf("expected required-field message, body=%s", body)
	}
	if !strings.Contains(body, `name="email"`) {
		t.Fatalf("expected to stay on the owner step")
	}

	// malformed email outranks the generic message
	rec = b.postForm(t, "/create-store/step", url.Values{
		"action": {"next"},
		"name":   {"Aigerim"},
		"email":  {"not-an-email"},
		"phone":  {"+77010000000"},
	})
	if !strings.Contains(rec.Body.String(), "Enter a valid email address") {
		t.Fatalf("expected email format message")
	}

	// a valid step advances via redirect
	rec = b.postForm(t, "/create-store/step", url.Values{
		"action": {"next"},
		"name":   {"Aigerim"},
		"email":  {"aigerim@example.com"},
		"phone":  {"+77010000000"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("valid step expected 303, got %d; body=%s", rec.Code, rec.Body.String())
	}
	rec = b.get(t, "/create-store")
	if !strings.Contains(rec.Body.String(), `name="shopName"`) {
		t.Fatalf("expected shop step after advancing")
	}

	// retreat never validates, even with empty values
	rec = b.postForm(t, "/create-store/step", url.Values{"action": {"prev"}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("prev expected 303, got %d", rec.Code)
	}
	rec = b.get(t, "/create-store")
	bodyPrev := rec.Body.String()
	if !strings.Contains(bodyPrev, `name="name"`) || !strings.Contains(bodyPrev, `value="Aigerim"`) {
		t.Fatalf("expected owner step with preserved draft values")
	}
}

func TestRegisterFullFlow(t *testing.T) {
	var registered map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/shop-registration/register", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&registered)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"token":"tok-new","user":{"id":42,"name":"Aigerim"},"shop":{"id":10,"name":"Central"}}}`))
	})
	mux.HandleFunc("/cities/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"cities":[{"id":1,"name":"Almaty"}]}}`))
	})
	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	srv := newTestRouter(t, backend.URL)
	b := newBrowser(srv)

	b.get(t, "/create-store")
	b.postForm(t, "/create-store/step", url.Values{
		"action": {"next"},
		"name":   {" Aigerim "},
		"email":  {"aigerim@example.com"},
		"phone":  {"+77010000000"},
	})
	b.postForm(t, "/create-store/step", url.Values{
		"action":   {"next"},
		"shopName": {"Central"},
		"inn":      {"123456789012"},
		"address":  {"Abay ave 1"},
	})

	// mismatched passwords never reach the backend
	rec := b.postForm(t, "/create-store", url.Values{
		"password":        {"secret12"},
		"passwordConfirm": {"different"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("mismatch expected 200 re-render, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Passwords do not match") {
		t.Fatalf("expected password-match message")
	}
	if registered != nil {
		t.Fatalf("backend must not be called on password mismatch")
	}

	rec = b.postForm(t, "/create-store", url.Values{
		"password":        {"secret12"},
		"passwordConfirm": {"secret12"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("submit expected 303, got %d; body=%s", rec.Code, rec.Body.String())
	}
	if loc := rec.Header().Get("Location"); loc != "/office?registered=1" {
		t.Fatalf("expected redirect to office, got %q", loc)
	}
	if registered == nil {
		t.Fatalf("expected backend registration call")
	}
	if registered["name"] != "Aigerim" {
		t.Fatalf("expected trimmed name, got %q", registered["name"])
	}
	if registered["password"] != "secret12" {
		t.Fatalf("expected password forwarded, got %q", registered["password"])
	}
	if _, ok := registered["cityId"]; ok {
		t.Fatalf("blank city must be omitted from the payload")
	}
}

func TestRegisterSubmitBeforeFinalStep(t *testing.T) {
	var registered map[string]string
	mux := http.NewServeMux()
	mux.HandleFunc("/shop-registration/register", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&registered)
	})
	mux.HandleFunc("/cities/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"cities":[]}}`))
	})
	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	srv := newTestRouter(t, backend.URL)
	b := newBrowser(srv)

	// submit straight from the first step, skipping the wizard entirely
	b.get(t, "/create-store")
	rec := b.postForm(t, "/create-store", url.Values{
		"name":  {"Aigerim"},
		"email": {"aigerim@example.com"},
		"phone": {"+77010000000"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("early submit expected 200 re-render, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="email"`) {
		t.Fatalf("expected the owner step to be re-rendered")
	}
	if registered != nil {
		t.Fatalf("backend must not be called before the final step")
	}
}

func TestRegisterEmailTaken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/shop-registration/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	mux.HandleFunc("/cities/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"cities":[]}}`))
	})
	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	srv := newTestRouter(t, backend.URL)
	b := newBrowser(srv)

	b.get(t, "/create-store")
	b.postForm(t, "/create-store/step", url.Values{
		"action": {"next"}, "name": {"A"}, "email": {"a@b.c"}, "phone": {"+7"},
	})
	b.postForm(t, "/create-store/step", url.Values{
		"action": {"next"}, "shopName": {"S"}, "inn": {"1"}, "address": {"X"},
	})
	rec := b.postForm(t, "/create-store", url.Values{
		"password": {"secret12"}, "passwordConfirm": {"secret12"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("conflict expected 200 re-render, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "This email is already registered") {
		t.Fatalf("expected email-taken message, body=%s", rec.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	srv := newTestRouter(t, backend.URL)
	b := newBrowser(srv)

	b.get(t, "/login")
	rec := b.postForm(t, "/login", url.Values{"phone": {"+7"}, "password": {"bad"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("failed login expected 200 re-render, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Wrong phone or password") {
		t.Fatalf("expected 401 message, body=%s", rec.Body.String())
	}

	// the failed attempt leaves the visitor anonymous
	rec = b.get(t, "/office")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected anonymous redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestOfficeDashboard(t *testing.T) {
	backend := newOfficeBackend(t)
	srv := newTestRouter(t, backend.URL)
	b := newBrowser(srv)
	login(t, b)

	rec := b.get(t, "/office")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /office expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	for _, want := range []string{"Aigerim", "Central", "LIC-1", "pro", "Dec 1, 2026"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in dashboard, body=%s", want, body)
		}
	}
	if strings.Contains(body, "Not mine") {
		t.Fatalf("foreign shop must be filtered out")
	}
	// both copy buttons point at the copy endpoint
	for _, field := range []string{"field=key", "field=shopId"} {
		if !strings.Contains(body, field) {
			t.Fatalf("expected a %s copy button in the licenses table", field)
		}
	}
	// one license exists, so no trial button
	if strings.Contains(body, "Start free trial") {
		t.Fatalf("trial CTA must be hidden when licenses exist")
	}
}

func TestOfficeTrialConflictFragment(t *testing.T) {
	mux := http.NewServeMux()
	serve := func(pattern, body string, status int) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		})
	}
	serve("/auth/login", `{"data":{"token":"tok-1","user":{"id":42,"name":"Aigerim"},"shop":{"id":10,"name":"Central"}}}`, 200)
	serve("/users/profile", `{"data":{"user":{"id":42,"name":"Aigerim"}}}`, 200)
	serve("/shops/", `{"data":{"shops":[{"id":10,"name":"Central","userId":42}]}}`, 200)
	serve("/licenses/my", `[]`, 200)
	serve("/licenses/trial", `{"error":"exists"}`, 409)
	backend := httptest.NewServer(mux)
	t.Cleanup(backend.Close)

	srv := newTestRouter(t, backend.URL)
	b := newBrowser(srv)
	login(t, b)

	// without licenses the dashboard offers the trial
	rec := b.get(t, "/office")
	if !strings.Contains(rec.Body.String(), "Start free trial") {
		t.Fatalf("expected trial CTA with zero licenses")
	}

	rec = b.postForm(t, "/office/trial", url.Values{})
	if rec.Code != http.StatusOK {
		t.Fatalf("trial fragment expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "The trial period was already used") {
		t.Fatalf("expected trial-exists message, body=%s", rec.Body.String())
	}
}

func TestOfficeCopyValue(t *testing.T) {
	backend := newOfficeBackend(t)
	srv := newTestRouter(t, backend.URL)
	b := newBrowser(srv)
	login(t, b)

	rec := b.get(t, "/office/licenses/copy?field=key&shopId=10")
	if rec.Code != http.StatusOK {
		t.Fatalf("copy expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	var out map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode copy payload: %v", err)
	}
	if out["value"] != "LIC-1" {
		t.Fatalf("expected license key value, got %v", out)
	}

	rec = b.get(t, "/office/licenses/copy?field=shopId&shopId=10")
	if rec.Code != http.StatusOK {
		t.Fatalf("shopId copy expected 200, got %d; body=%s", rec.Code, rec.Body.String())
	}
	out = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode copy payload: %v", err)
	}
	if out["value"] != "10" {
		t.Fatalf("expected shop id value, got %v", out)
	}

	rec = b.get(t, "/office/licenses/copy?field=key&shopId=404")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown shop expected 404, got %d", rec.Code)
	}
}

func TestGalleryLightboxFragment(t *testing.T) {
	srv := newTestRouter(t, "")
	b := newBrowser(srv)

	// opening past the end wraps circularly
	rec := b.get(t, "/gallery/lightbox?action=open&index=7")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "stock.svg") {
		t.Fatalf("expected index 7 to wrap to the second item, body=%s", rec.Body.String())
	}

	// zoom saturates at the upper bound
	rec = b.get(t, "/gallery/lightbox?action=zoom-in&index=0&zoom=2.9")
	if !strings.Contains(rec.Body.String(), "scale(3.0)") {
		t.Fatalf("expected zoom clamped to 3.0, body=%s", rec.Body.String())
	}

	rec = b.get(t, "/gallery/lightbox?action=zoom-out&index=0&zoom=0.7")
	if !strings.Contains(rec.Body.String(), "scale(0.6)") {
		t.Fatalf("expected zoom clamped to 0.6, body=%s", rec.Body.String())
	}

	// close renders the empty mount point
	rec = b.get(t, "/gallery/lightbox?action=close")
	if strings.Contains(rec.Body.String(), "lightbox open") {
		t.Fatalf("expected closed lightbox, body=%s", rec.Body.String())
	}
}

func TestDocsTutorialNavigation(t *testing.T) {
	srv := newTestRouter(t, "")
	b := newBrowser(srv)

	rec := b.get(t, "/docs")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /docs expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Install the app") {
		t.Fatalf("expected first tutorial step, body=%s", body)
	}
	if strings.Contains(body, "/docs?step=-1") {
		t.Fatalf("first step must not link backwards")
	}

	// out-of-range step clamps to the last one
	rec = b.get(t, "/docs?step=99")
	body = rec.Body.String()
	if !strings.Contains(body, "Take a first payment") {
		t.Fatalf("expected last step after clamping, body=%s", body)
	}
	if !strings.Contains(body, "Start over") {
		t.Fatalf("expected restart link on the last step, body=%s", body)
	}
}

func TestDocsWelcomeLineForSignedInUser(t *testing.T) {
	backend := newOfficeBackend(t)
	srv := newTestRouter(t, backend.URL)
	b := newBrowser(srv)
	login(t, b)

	rec := b.get(t, "/docs")
	if !strings.Contains(rec.Body.String(), "Aigerim • 10") {
		t.Fatalf("expected welcome with name and shop id, body=%s", rec.Body.String())
	}
}
