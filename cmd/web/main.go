package main

import (
	"flag"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"libiss.org/pos-web/internal/account"
	"libiss.org/pos-web/internal/cms"
	"libiss.org/pos-web/internal/config"
	"libiss.org/pos-web/internal/i18n"
	mw "libiss.org/pos-web/internal/middleware"
)

var (
	templatesDir = "templates"
	publicDir    = "public"
	// devMode reparses templates per request; set from env POS_WEB_DEV (or DEV)
	devMode   bool
	tmplCache *template.Template

	i18nBundle *i18n.Bundle
	apiClient  *account.Client
	docsStore  *cms.Store
	appLog     zerolog.Logger
)

func main() {
	cfg := config.MustLoad()

	var (
		addr     string
		tmplPath string
		pubPath  string
	)
	flag.StringVar(&addr, "addr", cfg.HTTPServer.Address, "HTTP listen address")
	flag.StringVar(&tmplPath, "templates", cfg.Paths.Templates, "templates directory")
	flag.StringVar(&pubPath, "public", cfg.Paths.Public, "public assets directory")
	flag.Parse()

	templatesDir = tmplPath
	publicDir = pubPath
	devMode = os.Getenv("POS_WEB_DEV") != "" || os.Getenv("DEV") != ""

	appLog = newLogger(cfg)
	mw.ConfigureSessions(cfg.Session.SigningKey, cfg.Prod())

	var err error
	i18nBundle, err = i18n.Load(cfg.Paths.Locales, "ru", []string{"ru", "en"})
	if err != nil {
		appLog.Fatal().Err(err).Msg("load locales")
	}

	apiClient = account.NewClient(cfg.API.BaseURL)
	apiClient.SetTimeout(cfg.API.Timeout)
	docsStore = cms.NewStore(cfg.Paths.Content)

	if !devMode {
		// Parse templates once in production
		tc, err := parseTemplates()
		if err != nil {
			appLog.Fatal().Err(err).Msg("parse templates")
		}
		tmplCache = tc
	}

	r := newRouter()

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.HTTPServer.ReadTimeout,
		WriteTimeout:      cfg.HTTPServer.WriteTimeout,
		IdleTimeout:       cfg.HTTPServer.IdleTimeout,
	}

	appLog.Info().Str("addr", addr).Bool("dev", devMode).Str("api", cfg.API.BaseURL).Msg("web listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		appLog.Fatal().Err(err).Msg("listen")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Prod() {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// Behind a trusted reverse proxy RealIP uses X-Forwarded-For; ensure only
	// trusted proxies can set these headers in production.
	r.Use(chimw.RealIP)
	r.Use(mw.HTMX)
	r.Use(mw.Session)
	r.Use(mw.Locale(i18nBundle))
	r.Use(mw.CSRF)
	r.Use(mw.VaryLocale)
	r.Use(mw.Logger(appLog))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Static assets under /assets/
	assets := http.StripPrefix("/assets", mw.AssetsWithCache(filepath.Join(publicDir, "assets")))
	r.Handle("/assets/*", assets)

	r.Get("/", HomeHandler)

	r.Get("/gallery", GalleryHandler)
	r.Get("/gallery/lightbox", GalleryLightboxFrag)

	r.Get("/docs", DocsHandler)

	r.Get("/create-store", RegisterPageHandler)
	r.Post("/create-store/step", RegisterStepHandler)
	r.Post("/create-store", RegisterSubmitHandler)

	r.Get("/login", LoginPageHandler)
	r.Post("/login", LoginSubmitHandler)

	r.Get("/office", OfficeHandler)
	r.Get("/office/licenses", OfficeLicensesFrag)
	r.Get("/office/licenses/copy", OfficeCopyValue)
	r.Post("/office/trial", OfficeTrialHandler)

	return r
}

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"now": time.Now,
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"t": func(lang, key string) string {
			if i18nBundle == nil {
				return key
			}
			return i18nBundle.T(lang, key)
		},
	}
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}
