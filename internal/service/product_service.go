package service

import (
	"context"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"

	"toy-catalog/internal/logger"
	"toy-catalog/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
)

const (
	DefaultPage  = 1
	DefaultLimit = 8
)

// ProductStore is the persistence the catalog needs; *repository.ProductRepository satisfies it.
type ProductStore interface {
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByCategory(ctx context.Context, category string) ([]model.Product, error)
	FindByOwner(ctx context.Context, email string) ([]model.Product, error)
	FindPage(ctx context.Context, skip, limit int64) ([]model.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	Count(ctx context.Context) (int64, error)
	Insert(ctx context.Context, doc model.Document) (model.InsertResult, error)
	Upsert(ctx context.Context, id primitive.ObjectID, doc model.Document) (model.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (model.DeleteResult, error)
}

type ProductService struct {
	repo ProductStore
}

var ProductServiceTracer = otel.Tracer("ProductService")

func NewProductService(repo ProductStore) *ProductService {
	return &ProductService{repo: repo}
}

// Page is a normalised pagination request.
type Page struct {
	Number int64
	Size   int64
}

// Skip is the zero-based offset of the first item of the page. Offsets past
// the int64 range saturate at math.MaxInt64, which selects nothing.
func (p Page) Skip() int64 {
	if p.Size > 0 && p.Number-1 > math.MaxInt64/p.Size {
		return math.MaxInt64
	}
	return (p.Number - 1) * p.Size
}

// ParsePage reads page and limit query values, falling back to page 1 and
// size 8 when a value is absent, non-numeric or below 1.
func ParsePage(page, limit string) Page {
	return Page{
		Number: positiveOr(page, DefaultPage),
		Size:   positiveOr(limit, DefaultLimit),
	}
}

func positiveOr(raw string, fallback int64) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func parseID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return objID, nil
}

func (s *ProductService) GetAll(ctx context.Context) ([]model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.GetAll")
	defer span.End()
	logger.Info(ctx, "Service")

	return s.repo.FindAll(ctx)
}

func (s *ProductService) GetByCategory(ctx context.Context, category model.Category) ([]model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.GetByCategory")
	defer span.End()
	logger.Info(ctx, "Service")

	return s.repo.FindByCategory(ctx, string(category))
}

func (s *ProductService) GetPage(ctx context.Context, page Page) ([]model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.GetPage")
	defer span.End()
	logger.Info(ctx, "Service")

	return s.repo.FindPage(ctx, page.Skip(), page.Size)
}

func (s *ProductService) Count(ctx context.Context) (model.CountResult, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Count")
	defer span.End()
	logger.Info(ctx, "Service")

	n, err := s.repo.Count(ctx)
	if err != nil {
		return model.CountResult{}, err
	}
	return model.CountResult{Total: n}, nil
}

// GetByID returns nil without error when the product does not exist.
func (s *ProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.GetByID")
	defer span.End()
	logger.Info(ctx, "Service")

	objID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, objID)
}

// Create inserts doc verbatim except for any client supplied _id; the store
// assigns identifiers.
func (s *ProductService) Create(ctx context.Context, doc model.Document) (model.InsertResult, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Create")
	defer span.End()
	logger.Info(ctx, "Service")

	doc = maps.Clone(doc)
	delete(doc, "_id")
	return s.repo.Insert(ctx, doc)
}

func (s *ProductService) Update(ctx context.Context, id string, doc model.Document) (model.UpdateResult, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Update")
	defer span.End()
	logger.Info(ctx, "Service")

	objID, err := parseID(id)
	if err != nil {
		return model.UpdateResult{}, err
	}
	return s.repo.Upsert(ctx, objID, doc)
}

func (s *ProductService) Delete(ctx context.Context, id string) (model.DeleteResult, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.Delete")
	defer span.End()
	logger.Info(ctx, "Service")

	objID, err := parseID(id)
	if err != nil {
		return model.DeleteResult{}, err
	}
	return s.repo.Delete(ctx, objID)
}

// GetOwned lists the products owned by email. The caller must be the owner:
// a mismatch with the authenticated email fails with ErrForbidden before the
// store is queried.
func (s *ProductService) GetOwned(ctx context.Context, authenticatedEmail, email string) ([]model.Product, error) {
	ctx, span := ProductServiceTracer.Start(ctx, "ProductService.GetOwned")
	defer span.End()
	logger.Info(ctx, "Service")

	if authenticatedEmail == "" || authenticatedEmail != email {
		return nil, ErrForbidden
	}
	return s.repo.FindByOwner(ctx, email)
}
