package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"discover/internal/adapter/graphql"
	adapthttp "discover/internal/adapter/http"
	"discover/internal/adapter/identity"
	"discover/internal/adapter/memory"
	"discover/internal/adapter/postgres"
	"discover/internal/app"
	"discover/internal/domain"
	"discover/internal/token"
)

func main() {
	addr := env("ADDR", ":8080")
	webDir := env("WEB_DIR", "web")
	secureCookies := os.Getenv("ENV") == "production"

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	codec, err := token.New(secret)
	if err != nil {
		log.Fatalf("token codec: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	issuerURL := os.Getenv("OIDC_ISSUER_URL")
	clientID := os.Getenv("OIDC_CLIENT_ID")
	if issuerURL == "" || clientID == "" {
		log.Fatal("OIDC_ISSUER_URL and OIDC_CLIENT_ID are required")
	}
	verifier, err := identity.New(ctx, issuerURL, clientID)
	if err != nil {
		log.Fatalf("identity provider: %v", err)
	}

	users, stats, cleanup := openStore()
	defer cleanup()

	authSvc := app.NewAuthService(verifier, users, codec)
	statsSvc := app.NewStatsService(stats)
	userSvc := app.NewUserService(users, stats)

	h := adapthttp.New(authSvc, statsSvc, userSvc, webDir, secureCookies).Handler()
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// openStore picks the persistence backend: a direct PostgreSQL
// connection when DATABASE_URL is set, the GraphQL gateway when
// GRAPHQL_API_URL is set, and an in-memory store otherwise (useful for
// local development only; it loses everything on restart).
func openStore() (domain.UserRepository, domain.StatRepository, func()) {
	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		db, err := postgres.Open(connStr)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		log.Print("storage: postgres")
		return db, db, func() { _ = db.Close() }
	}

	if url := os.Getenv("GRAPHQL_API_URL"); url != "" {
		adminSecret := os.Getenv("GRAPHQL_ADMIN_SECRET")
		if adminSecret == "" {
			log.Fatal("GRAPHQL_ADMIN_SECRET is required with GRAPHQL_API_URL")
		}
		gw := graphql.NewGateway(url, adminSecret)
		log.Print("storage: graphql gateway")
		return gw, gw, func() {}
	}

	log.Print("storage: in-memory (data is not persisted)")
	db := memory.New()
	return db, db, func() {}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
