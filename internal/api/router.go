package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/passbook/internal/imaging"
	"github.com/erazemk/passbook/internal/passjson"
)

// Config holds the dependencies of the router.
type Config struct {
	DB              *sql.DB
	JWTSecret       string
	PassTokenSecret string
	Assets          imaging.Assets
	Site            passjson.Site
	Options         passjson.Options
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(cfg Config) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: cfg.DB, JWTSecret: cfg.JWTSecret}
	usersHandler := &UsersHandler{DB: cfg.DB}
	passesHandler := &PassesHandler{
		DB:              cfg.DB,
		PassTokenSecret: cfg.PassTokenSecret,
		Assets:          cfg.Assets,
		Site:            cfg.Site,
		Options:         cfg.Options,
	}
	locationsHandler := &LocationsHandler{DB: cfg.DB}
	webService := &WebServiceHandler{
		DB:              cfg.DB,
		PassTokenSecret: cfg.PassTokenSecret,
		Site:            cfg.Site,
		Options:         cfg.Options,
	}

	authMW := AuthMiddleware(cfg.JWTSecret, cfg.DB)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Administrators.
	mux.Handle("GET /api/users", authMW(http.HandlerFunc(usersHandler.List)))
	mux.Handle("POST /api/users", authMW(http.HandlerFunc(usersHandler.Create)))

	// Passes.
	mux.Handle("GET /api/passes", authMW(http.HandlerFunc(passesHandler.List)))
	mux.Handle("POST /api/passes", authMW(http.HandlerFunc(passesHandler.Create)))
	mux.Handle("GET /api/passes/{id}", authMW(http.HandlerFunc(passesHandler.Get)))
	mux.Handle("PUT /api/passes/{id}", authMW(http.HandlerFunc(passesHandler.Update)))
	mux.Handle("DELETE /api/passes/{id}", authMW(http.HandlerFunc(passesHandler.Delete)))
	mux.Handle("GET /api/passes/{id}/pass.json", authMW(http.HandlerFunc(passesHandler.PassJSON)))
	mux.Handle("POST /api/passes/{id}/token", authMW(http.HandlerFunc(passesHandler.IssueToken)))
	mux.Handle("PUT /api/passes/{id}/images/{kind}", authMW(http.HandlerFunc(passesHandler.UploadImage)))
	mux.Handle("GET /api/passes/{id}/images/{kind}", authMW(http.HandlerFunc(passesHandler.GetImage)))

	// Locations, shared between passes.
	mux.Handle("GET /api/locations", authMW(http.HandlerFunc(locationsHandler.List)))
	mux.Handle("POST /api/locations", authMW(http.HandlerFunc(locationsHandler.Create)))
	mux.Handle("GET /api/locations/{id}", authMW(http.HandlerFunc(locationsHandler.Get)))

	// Wallet web service, authenticated by pass token.
	mux.HandleFunc("GET "+passjson.WebServicePath+"/v1/passes/{passTypeIdentifier}/{serialNumber}", webService.LatestPass)
	mux.HandleFunc("POST "+passjson.WebServicePath+"/v1/log", webService.Log)

	return mux
}
