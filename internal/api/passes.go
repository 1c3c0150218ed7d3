package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/erazemk/passbook/internal/auth"
	"github.com/erazemk/passbook/internal/imaging"
	"github.com/erazemk/passbook/internal/model"
	"github.com/erazemk/passbook/internal/passjson"
	"github.com/erazemk/passbook/internal/store"
)

// PassesHandler handles pass management endpoints.
type PassesHandler struct {
	DB              *sql.DB
	PassTokenSecret string
	Assets          imaging.Assets
	Site            passjson.Site
	Options         passjson.Options
}

// passResponse reveals the authentication token only right after it is
// issued.
type passResponse struct {
	*model.Pass
	AuthenticationToken string `json:"authentication_token,omitempty"`
}

// List handles GET /api/passes.
func (h *PassesHandler) List(w http.ResponseWriter, r *http.Request) {
	passes, err := store.ListPasses(r.Context(), h.DB)
	if err != nil {
		slog.Error("failed to list passes", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list passes")
		return
	}
	if passes == nil {
		passes = []model.Pass{}
	}
	jsonResponse(w, http.StatusOK, passes)
}

// Create handles POST /api/passes.
func (h *PassesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPassRequest
	if !decodeValid(w, r, &req) {
		return
	}

	if req.SerialNumber == "" {
		req.SerialNumber = uuid.NewString()
	}

	p, err := req.toModel()
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	for _, id := range req.LocationIDs {
		loc, err := store.GetLocation(r.Context(), h.DB, id)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to get location")
			return
		}
		if loc == nil {
			jsonError(w, http.StatusBadRequest, fmt.Sprintf("location %d not found", id))
			return
		}
		p.Locations = append(p.Locations, loc)
	}

	existing, err := store.GetPassBySerial(r.Context(), h.DB, p.PassTypeIdentifier, p.SerialNumber)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		jsonError(w, http.StatusConflict, "pass with this serial number already exists")
		return
	}

	token, _, err := auth.GeneratePassToken(h.PassTokenSecret, p.PassTypeIdentifier, p.SerialNumber)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate pass token")
		return
	}
	p.AuthToken = &token

	created, err := store.CreatePass(r.Context(), h.DB, p)
	if err != nil {
		slog.Error("failed to create pass", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create pass")
		return
	}

	slog.Info("pass created",
		"pass_type_identifier", created.PassTypeIdentifier,
		"serial_number", created.SerialNumber,
		"type", created.Type,
	)
	jsonResponse(w, http.StatusCreated, passResponse{Pass: created, AuthenticationToken: token})
}

// Get handles GET /api/passes/{id}.
func (h *PassesHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := h.pass(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, p)
}

// Update handles PUT /api/passes/{id}.
func (h *PassesHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := h.pass(w, r)
	if !ok {
		return
	}

	var req updatePassRequest
	if !decodeValid(w, r, &req) {
		return
	}

	if err := req.passMetadata.apply(p); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	var barcode *model.Barcode
	if req.Barcode != nil {
		var err error
		if barcode, err = req.Barcode.toModel(); err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	if err := store.UpdatePass(r.Context(), h.DB, p.ID, p); err != nil {
		slog.Error("failed to update pass", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update pass")
		return
	}
	if barcode != nil {
		if err := store.SetPassBarcode(r.Context(), h.DB, p.ID, barcode); err != nil {
			slog.Error("failed to set pass barcode", "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to update barcode")
			return
		}
	}

	updated, err := store.GetPass(r.Context(), h.DB, p.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get pass")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/passes/{id}.
func (h *PassesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.pass(w, r)
	if !ok {
		return
	}

	if err := store.DeletePass(r.Context(), h.DB, p.ID); err != nil {
		slog.Error("failed to delete pass", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete pass")
		return
	}
	if err := h.Assets.Remove(p.ID); err != nil {
		slog.Warn("failed to remove pass assets", "pass", p.ID, "error", err)
	}

	slog.Info("pass deleted", "serial_number", p.SerialNumber)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "pass deleted"})
}

// PassJSON handles GET /api/passes/{id}/pass.json.
func (h *PassesHandler) PassJSON(w http.ResponseWriter, r *http.Request) {
	p, ok := h.pass(w, r)
	if !ok {
		return
	}

	data, err := passjson.Marshal(p, h.Site, h.Options)
	if err != nil {
		if !domainError(w, http.StatusUnprocessableEntity, err) {
			slog.Error("failed to serialize pass", "pass", p.ID, "error", err)
			jsonError(w, http.StatusInternalServerError, "failed to serialize pass")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// IssueToken handles POST /api/passes/{id}/token. The previous token stops
// working.
func (h *PassesHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	p, ok := h.pass(w, r)
	if !ok {
		return
	}

	if p.AuthToken != nil {
		if old, err := auth.ParsePassToken(h.PassTokenSecret, *p.AuthToken); err == nil && old.ExpiresAt != nil {
			if err := store.RevokeToken(r.Context(), h.DB, old.ID, old.ExpiresAt.Time); err != nil {
				slog.Error("failed to revoke pass token", "error", err)
				jsonError(w, http.StatusInternalServerError, "failed to revoke previous token")
				return
			}
		}
	}

	token, _, err := auth.GeneratePassToken(h.PassTokenSecret, p.PassTypeIdentifier, p.SerialNumber)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate pass token")
		return
	}
	if err := store.SetPassAuthToken(r.Context(), h.DB, p.ID, token); err != nil {
		slog.Error("failed to store pass token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to store pass token")
		return
	}

	slog.Info("pass token reissued", "serial_number", p.SerialNumber)
	jsonResponse(w, http.StatusOK, map[string]string{"authentication_token": token})
}

// pass loads the pass named by the {id} path value, writing an error
// response and returning false when there is none.
func (h *PassesHandler) pass(w http.ResponseWriter, r *http.Request) (*model.Pass, bool) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid pass id")
		return nil, false
	}

	p, err := store.GetPass(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("failed to get pass", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get pass")
		return nil, false
	}
	if p == nil {
		jsonError(w, http.StatusNotFound, "pass not found")
		return nil, false
	}
	return p, true
}
