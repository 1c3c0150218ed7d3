package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/passbook/internal/auth"
	"github.com/erazemk/passbook/internal/passjson"
	"github.com/erazemk/passbook/internal/store"
)

// WebServiceHandler serves the endpoints wallets call on webServiceURL.
type WebServiceHandler struct {
	DB              *sql.DB
	PassTokenSecret string
	Site            passjson.Site
	Options         passjson.Options
}

type logRequest struct {
	Logs []string `json:"logs" validate:"required,max=100"`
}

// LatestPass handles GET /passbook/v1/passes/{passTypeIdentifier}/{serialNumber}.
func (h *WebServiceHandler) LatestPass(w http.ResponseWriter, r *http.Request) {
	passTypeIdentifier := r.PathValue("passTypeIdentifier")
	serialNumber := r.PathValue("serialNumber")

	token, ok := passToken(r)
	if !ok {
		jsonError(w, http.StatusUnauthorized, "missing or invalid authorization header")
		return
	}

	claims, err := auth.ValidatePassToken(h.PassTokenSecret, token, passTypeIdentifier, serialNumber)
	if err != nil {
		slog.Warn("rejected pass token", "serial_number", serialNumber, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	revoked, err := store.IsTokenRevoked(r.Context(), h.DB, claims.ID)
	if err != nil {
		slog.Error("checking token revocation", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if revoked {
		jsonError(w, http.StatusUnauthorized, "token revoked")
		return
	}

	p, err := store.GetPassBySerial(r.Context(), h.DB, passTypeIdentifier, serialNumber)
	if err != nil {
		slog.Error("failed to get pass", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if p == nil {
		jsonError(w, http.StatusNotFound, "pass not found")
		return
	}
	// A recreated pass has a new token; older ones no longer match.
	if p.AuthToken == nil || *p.AuthToken != token {
		jsonError(w, http.StatusUnauthorized, "invalid token")
		return
	}

	modified := p.UpdatedAt.UTC().Truncate(time.Second)
	if since, err := http.ParseTime(r.Header.Get("If-Modified-Since")); err == nil && !modified.After(since) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, err := passjson.Marshal(p, h.Site, h.Options)
	if err != nil {
		slog.Error("failed to serialize pass", "serial_number", serialNumber, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to serialize pass")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Last-Modified", modified.Format(http.TimeFormat))
	w.Write(data)
}

// Log handles POST /passbook/v1/log.
func (h *WebServiceHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req logRequest
	if !decodeValid(w, r, &req) {
		return
	}

	for _, msg := range req.Logs {
		slog.Warn("wallet log", "message", msg, "remote", r.RemoteAddr)
	}
	w.WriteHeader(http.StatusOK)
}
