package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	adapthttp "bookshelf/internal/adapter/http"
	"bookshelf/internal/adapter/gemini"
	"bookshelf/internal/adapter/googlebooks"
	"bookshelf/internal/adapter/postgres"
	"bookshelf/internal/app"
	"bookshelf/internal/config"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger := zerolog.New(os.Stderr)
		logger.Fatal().Err(err).Msg("config")
	}
	log := newLogger(cfg)

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db open")
	}
	defer func() { _ = db.Close() }()

	sessionRepo := postgres.NewSessionRepo(db)
	bookRepo := postgres.NewBookRepo(db)
	reviewRepo := postgres.NewReviewRepo(db)

	authSvc := app.NewAuthService(db, sessionRepo)
	catalogSvc := app.NewCatalogService(bookRepo)
	reviewSvc := app.NewReviewService(reviewRepo)
	enrichSvc := app.NewEnrichService(
		googlebooks.New(cfg.GoogleBooksURL),
		gemini.New(cfg.GeminiURL, cfg.GeminiAPIKey),
	)

	sso, err := setupSSO(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("oidc setup")
	}

	h := adapthttp.New(authSvc, catalogSvc, reviewSvc, enrichSvc, sso, log).Handler()
	log.Info().Str("addr", cfg.Addr).Bool("sso", sso.Enabled).Msg("listening")
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var out = os.Stderr
	logger := zerolog.New(out)
	if cfg.LogFormat == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

func setupSSO(cfg *config.Config) (adapthttp.OIDC, error) {
	if !cfg.OIDC.Enabled() {
		return adapthttp.OIDC{}, nil
	}

	provider, err := oidc.NewProvider(context.Background(), cfg.OIDC.IssuerURL)
	if err != nil {
		return adapthttp.OIDC{}, err
	}

	return adapthttp.OIDC{
		Enabled:  true,
		Provider: provider,
		OAuth2: &oauth2.Config{
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.OIDC.RedirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
	}, nil
}
