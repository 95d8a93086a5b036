package addresses

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-commerce/meridian/internal/platform/httpx"
	"github.com/meridian-commerce/meridian/internal/rbac"
	"github.com/meridian-commerce/meridian/internal/shared"
)

// Handler wires HTTP endpoints for address management. All routes operate
// on the authenticated caller's own addresses.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     rbac.Guard
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Guard) *Handler {
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers address routes, each behind its own permission.
func (h *Handler) MountRoutes(r chi.Router) {
	r.With(h.guard.Require("create_address")).Post("/", h.create)
	r.With(h.guard.Require("read_address")).Get("/", h.list)
	r.With(h.guard.Require("read_address")).Get("/{addressID}", h.get)
	r.With(h.guard.Require("update_address")).Put("/{addressID}", h.update)
	r.With(h.guard.Require("delete_address")).Delete("/{addressID}", h.remove)
}

type addressPayload struct {
	Name    string `json:"name" validate:"required,min=3,max=50"`
	Address string `json:"address" validate:"required,min=3,max=255"`
	City    string `json:"city" validate:"required,min=3,max=255"`
	State   string `json:"state" validate:"required,min=3,max=255"`
	Country string `json:"country" validate:"required,min=3,max=255"`
	Pincode string `json:"pincode" validate:"required,min=3,max=255"`
}

func (p addressPayload) toNewAddress() NewAddress {
	return NewAddress{
		Name:    p.Name,
		Address: p.Address,
		City:    p.City,
		State:   p.State,
		Country: p.Country,
		Pincode: p.Pincode,
	}
}

// caller extracts the authenticated user id, responding on failure.
func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, found := shared.UserIDFromContext(r.Context())
	if !found {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return 0, false
	}
	return userID, true
}

// scope extracts the caller id and address id path param.
func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (userID, addressID int64, ok bool) {
	userID, found := h.caller(w, r)
	if !found {
		return 0, 0, false
	}
	addressID, err := strconv.ParseInt(chi.URLParam(r, "addressID"), 10, 64)
	if err != nil || addressID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid address id")
		return 0, 0, false
	}
	return userID, addressID, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (addressPayload, bool) {
	var payload addressPayload
	if err := httpx.DecodeJSON(r, &payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return payload, false
	}
	if err := h.validator.Struct(payload); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return payload, false
	}
	return payload, true
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	addr, err := h.service.Create(r.Context(), userID, payload.toNewAddress())
	if err != nil {
		if errors.Is(err, ErrLimitReached) {
			httpx.Problem(w, http.StatusBadRequest, "Limit Reached", err.Error())
			return
		}
		h.logger.Error("create address", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, addr)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.caller(w, r)
	if !ok {
		return
	}
	page, perPage := shared.PageFromQuery(r.URL.Query())
	items, pagination, err := h.service.List(r.Context(), userID, page, perPage)
	if err != nil {
		h.logger.Error("list addresses", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if items == nil {
		items = []Address{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"addresses":   items,
		"page":        pagination.Page,
		"per_page":    pagination.PerPage,
		"total":       pagination.Total,
		"total_pages": pagination.TotalPages,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, addressID, ok := h.scope(w, r)
	if !ok {
		return
	}
	addr, err := h.service.Get(r.Context(), userID, addressID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, addr)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	userID, addressID, ok := h.scope(w, r)
	if !ok {
		return
	}
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}
	addr, err := h.service.Update(r.Context(), userID, addressID, payload.toNewAddress())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, addr)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	userID, addressID, ok := h.scope(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), userID, addressID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.NoContent(w)
}
