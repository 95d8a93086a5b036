package cart

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-commerce/meridian/internal/platform/httpx"
	"github.com/meridian-commerce/meridian/internal/rbac"
	"github.com/meridian-commerce/meridian/internal/shared"
)

// Handler manages cart endpoints. Every route is guarded; the caller id
// from the guard scopes all queries.
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

// MountRoutes registers cart routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require("read_cart"))
		r.Get("/", h.listCarts)
		r.Get("/{cartID}", h.getCart)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require("create_cart"))
		r.Post("/", h.createCart)
		r.Post("/{cartID}/items", h.addItem)
		r.Post("/{cartID}/checkout", h.checkout)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require("update_cart"))
		r.Put("/{cartID}/status", h.setStatus)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Require("delete_cart"))
		r.Delete("/{cartID}", h.deleteCart)
		r.Delete("/{cartID}/items/{productID}", h.removeItem)
	})
}

type createCartPayload struct {
	Name         string     `json:"name" validate:"max=100"`
	ReminderDate *time.Time `json:"reminder_date"`
}

type itemPayload struct {
	ProductID int64 `json:"product_id" validate:"required,min=1"`
	Quantity  int   `json:"quantity" validate:"required,min=1"`
}

type statusPayload struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

type cartResponse struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Status       string     `json:"status"`
	ReminderDate *time.Time `json:"reminder_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type itemResponse struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func toCartResponse(c Cart) cartResponse {
	return cartResponse{
		ID:           c.ID,
		Name:         c.Name,
		Status:       c.Status,
		ReminderDate: c.ReminderDate,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (h *Handler) listCarts(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	carts, err := h.service.ListCarts(r.Context(), userID)
	if err != nil {
		h.logger.Error("list carts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]cartResponse, 0, len(carts))
	for _, c := range carts {
		out = append(out, toCartResponse(c))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"carts": out})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	userID, cartID, ok := h.scope(w, r)
	if !ok {
		return
	}
	cwi, err := h.service.GetCart(r.Context(), userID, cartID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items := make([]itemResponse, 0, len(cwi.Items))
	for _, item := range cwi.Items {
		items = append(items, itemResponse{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"cart":  toCartResponse(cwi.Cart),
		"items": items,
	})
}

func (h *Handler) createCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	var payload createCartPayload
	if !h.decode(w, r, &payload) {
		return
	}
	cart, err := h.service.CreateCart(r.Context(), userID, payload.Name, payload.ReminderDate)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toCartResponse(cart))
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	userID, cartID, ok := h.scope(w, r)
	if !ok {
		return
	}
	var payload itemPayload
	if !h.decode(w, r, &payload) {
		return
	}
	item, err := h.service.AddItem(r.Context(), userID, cartID, payload.ProductID, payload.Quantity)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, itemResponse{ProductID: item.ProductID, Quantity: item.Quantity})
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	userID, cartID, ok := h.scope(w, r)
	if !ok {
		return
	}
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	if err := h.service.RemoveItem(r.Context(), userID, cartID, productID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request) {
	userID, cartID, ok := h.scope(w, r)
	if !ok {
		return
	}
	var payload statusPayload
	if !h.decode(w, r, &payload) {
		return
	}
	cart, err := h.service.SetStatus(r.Context(), userID, cartID, payload.Status)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	userID, cartID, ok := h.scope(w, r)
	if !ok {
		return
	}
	cart, key, err := h.service.Checkout(r.Context(), userID, cartID, r.Header.Get("Idempotency-Key"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"cart":            toCartResponse(cart),
		"idempotency_key": key,
	})
}

func (h *Handler) deleteCart(w http.ResponseWriter, r *http.Request) {
	userID, cartID, ok := h.scope(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteCart(r.Context(), userID, cartID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// scope extracts the caller id and cart id path param.
func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (userID, cartID int64, ok bool) {
	userID, found := shared.UserIDFromContext(r.Context())
	if !found {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return 0, 0, false
	}
	cartID, err := strconv.ParseInt(chi.URLParam(r, "cartID"), 10, 64)
	if err != nil || cartID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid cart id")
		return 0, 0, false
	}
	return userID, cartID, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid request body")
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}
