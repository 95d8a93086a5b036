package catalog

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-commerce/meridian/internal/platform/httpx"
	"github.com/meridian-commerce/meridian/internal/rbac"
	"github.com/meridian-commerce/meridian/internal/shared"
)

// Handler manages catalog endpoints. Reads are public; writes require
// catalog permissions.
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

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Get("/{categoryID}/subcategories", h.listSubCategories)
		r.Group(func(r chi.Router) {
			r.Use(h.guard.Require("create_category"))
			r.Post("/", h.createCategory)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.guard.Require("delete_category"))
			r.Delete("/{categoryID}", h.deleteCategory)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.guard.Require("create_subcategory"))
			r.Post("/{categoryID}/subcategories", h.createSubCategory)
		})
	})
	r.Route("/subcategories", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.guard.Require("delete_subcategory"))
			r.Delete("/{subCategoryID}", h.deleteSubCategory)
		})
	})
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/{slug}", h.getProduct)
		r.Group(func(r chi.Router) {
			r.Use(h.guard.Require("create_product"))
			r.Post("/", h.createProduct)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.guard.Require("update_product"))
			r.Put("/{productID}", h.updateProduct)
		})
		r.Group(func(r chi.Router) {
			r.Use(h.guard.Require("delete_product"))
			r.Delete("/{productID}", h.deleteProduct)
		})
	})
}

type categoryPayload struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

type productPayload struct {
	Name          string `json:"name" validate:"required,min=2,max=200"`
	Description   string `json:"description" validate:"max=2000"`
	Price         string `json:"price" validate:"required"`
	Slug          string `json:"slug" validate:"required,min=2,max=200"`
	Tags          string `json:"tags" validate:"max=500"`
	Discount      string `json:"discount"`
	Stock         int    `json:"stock" validate:"min=0"`
	CategoryID    int64  `json:"category_id" validate:"required,min=1"`
	SubCategoryID *int64 `json:"sub_category_id"`
	IsActive      bool   `json:"is_active"`
}

type productResponse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         string `json:"price"`
	Slug          string `json:"slug"`
	Tags          string `json:"tags"`
	Discount      string `json:"discount"`
	Stock         int    `json:"stock"`
	CategoryID    int64  `json:"category_id"`
	SubCategoryID *int64 `json:"sub_category_id,omitempty"`
	IsActive      bool   `json:"is_active"`
}

func toProductResponse(p Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Slug:          p.Slug,
		Tags:          p.Tags,
		Discount:      p.Discount,
		Stock:         p.Stock,
		CategoryID:    p.CategoryID,
		SubCategoryID: p.SubCategoryID,
		IsActive:      p.IsActive,
	}
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("list categories", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryPayload
	if !h.decode(w, r, &payload) {
		return
	}
	category, err := h.service.CreateCategory(r.Context(), payload.Name)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "categoryID")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid category id")
		return
	}
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSubCategories(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "categoryID")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid category id")
		return
	}
	subs, err := h.service.ListSubCategories(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"subcategories": subs})
}

func (h *Handler) createSubCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "categoryID")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid category id")
		return
	}
	var payload categoryPayload
	if !h.decode(w, r, &payload) {
		return
	}
	sub, err := h.service.CreateSubCategory(r.Context(), payload.Name, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sub)
}

func (h *Handler) deleteSubCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "subCategoryID")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid subcategory id")
		return
	}
	if err := h.service.DeleteSubCategory(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, perPage := shared.PageFromQuery(query)
	filter := ProductFilter{ActiveOnly: query.Get("include_inactive") != "true"}
	if v, err := strconv.ParseInt(query.Get("category_id"), 10, 64); err == nil && v > 0 {
		filter.CategoryID = v
	}
	if v, err := strconv.ParseInt(query.Get("sub_category_id"), 10, 64); err == nil && v > 0 {
		filter.SubCategoryID = v
	}
	result, err := h.service.ListProducts(r.Context(), filter, page, perPage)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]productResponse, 0, len(result.Products))
	for _, p := range result.Products {
		out = append(out, toProductResponse(p))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"products":   out,
		"pagination": result.Pagination,
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var payload productPayload
	if !h.decode(w, r, &payload) {
		return
	}
	product, err := h.service.CreateProduct(r.Context(), payload.toProduct(0))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "productID")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	var payload productPayload
	if !h.decode(w, r, &payload) {
		return
	}
	product, err := h.service.UpdateProduct(r.Context(), payload.toProduct(id))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toProductResponse(product))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "productID")
	if !ok {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid product id")
		return
	}
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (p productPayload) toProduct(id int64) Product {
	return Product{
		ID:            id,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Slug:          p.Slug,
		Tags:          p.Tags,
		Discount:      p.Discount,
		Stock:         p.Stock,
		CategoryID:    p.CategoryID,
		SubCategoryID: p.SubCategoryID,
		IsActive:      p.IsActive,
	}
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

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}
