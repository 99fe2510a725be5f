package http

import (
	"context"
	"net/http"

	"toy-catalog/internal/logger"
	middleware_http "toy-catalog/internal/middleware/http"
	"toy-catalog/internal/model"
	"toy-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
)

// ProductService is satisfied by *service.ProductService.
type ProductService interface {
	GetAll(ctx context.Context) ([]model.Product, error)
	GetByCategory(ctx context.Context, category model.Category) ([]model.Product, error)
	GetPage(ctx context.Context, page service.Page) ([]model.Product, error)
	Count(ctx context.Context) (model.CountResult, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, doc model.Document) (model.InsertResult, error)
	Update(ctx context.Context, id string, doc model.Document) (model.UpdateResult, error)
	Delete(ctx context.Context, id string) (model.DeleteResult, error)
	GetOwned(ctx context.Context, authenticatedEmail, email string) ([]model.Product, error)
}

type ProductHandler struct {
	service ProductService
}

var HttpProductHandlerTracer = otel.Tracer("HttpProductHandler")

func NewProductHandler(service ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// ListCategory serves every product of one fixed category.
func (h *ProductHandler) ListCategory(category model.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.ListCategory")
		defer span.End()
		logger.Info(ctx, "HttpProductHandler.ListCategory")

		products, err := h.service.GetByCategory(ctx, category)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(w, http.StatusOK, products)
	}
}

func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.GetAll")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.GetAll")

	products, err := h.service.GetAll(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.GetPage")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.GetPage")

	q := r.URL.Query()
	products, err := h.service.GetPage(ctx, service.ParsePage(q.Get("page"), q.Get("limit")))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Count(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Count")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.Count")

	total, err := h.service.Count(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, total)
}

// GetByPathID serves /product/{id}. A missing product is answered with null.
func (h *ProductHandler) GetByPathID(w http.ResponseWriter, r *http.Request) {
	h.getByID(w, r, chi.URLParam(r, "id"))
}

// GetByQueryID serves /product-id?id=.
func (h *ProductHandler) GetByQueryID(w http.ResponseWriter, r *http.Request) {
	h.getByID(w, r, r.URL.Query().Get("id"))
}

func (h *ProductHandler) getByID(w http.ResponseWriter, r *http.Request, id string) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.GetByID")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.GetByID")

	product, err := h.service.GetByID(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Create")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.Create")

	doc, err := decodeDocument(w, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	res, err := h.service.Create(ctx, doc)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Update")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.Update")

	doc, err := decodeDocument(w, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	res, err := h.service.Update(ctx, r.URL.Query().Get("id"), doc)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.Delete")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.Delete")

	res, err := h.service.Delete(ctx, r.URL.Query().Get("id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// MyListings serves the authenticated caller's own products. It must run
// behind middleware_http.Authenticate.
func (h *ProductHandler) MyListings(w http.ResponseWriter, r *http.Request) {
	ctx, span := HttpProductHandlerTracer.Start(r.Context(), "HttpProductHandler.MyListings")
	defer span.End()
	logger.Info(ctx, "HttpProductHandler.MyListings")

	var authenticated string
	if claims, ok := middleware_http.ClaimsFromContext(ctx); ok {
		authenticated = claims.Email
	}

	products, err := h.service.GetOwned(ctx, authenticated, r.URL.Query().Get("email"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}
