package repository

import (
	"context"
	"errors"
	"fmt"

	"toy-catalog/internal/logger"
	"toy-catalog/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ProductRepository struct {
	collection *mongo.Collection
}

var ProductRepositoryTracer = otel.Tracer("ProductRepository")

// byInsertion keeps listings and pages in a stable order.
var byInsertion = bson.D{{Key: "_id", Value: 1}}

func NewProductRepository(db *mongo.Database, collection string) *ProductRepository {
	return &ProductRepository{
		collection: db.Collection(collection),
	}
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.find(ctx, span, bson.M{}, options.Find().SetSort(byInsertion))
}

func (r *ProductRepository) FindByCategory(ctx context.Context, category string) ([]model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindByCategory",
		trace.WithAttributes(attribute.String("product.category", category)))
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.find(ctx, span, bson.M{"categoryID": category})
}

func (r *ProductRepository) FindByOwner(ctx context.Context, email string) ([]model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindByOwner")
	defer span.End()
	logger.Info(ctx, "Repository")

	return r.find(ctx, span, bson.M{"ownerEmail": email})
}

func (r *ProductRepository) FindPage(ctx context.Context, skip, limit int64) ([]model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindPage",
		trace.WithAttributes(attribute.Int64("page.skip", skip), attribute.Int64("page.limit", limit)))
	defer span.End()
	logger.Info(ctx, "Repository")

	opts := options.Find().
		SetSort(byInsertion).
		SetSkip(skip).
		SetLimit(limit)
	return r.find(ctx, span, bson.M{}, opts)
}

// FindByID returns nil without error when no document matches.
func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.FindByID",
		trace.WithAttributes(attribute.String("product.id", id.Hex())))
	defer span.End()
	logger.Info(ctx, "Repository")

	var product model.Product
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, r.fail(span, "find product", err)
	}
	return &product, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Count")
	defer span.End()
	logger.Info(ctx, "Repository")

	n, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, r.fail(span, "count products", err)
	}
	return n, nil
}

// Insert stores doc as given; the store assigns _id.
func (r *ProductRepository) Insert(ctx context.Context, doc model.Document) (model.InsertResult, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Insert")
	defer span.End()
	logger.Info(ctx, "Repository")

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return model.InsertResult{}, r.fail(span, "insert product", err)
	}
	return model.InsertResult{Acknowledged: true, InsertedID: res.InsertedID}, nil
}

// Upsert overwrites the editable field set of the product with the given id,
// creating the document when it does not exist. Other keys of doc are ignored.
func (r *ProductRepository) Upsert(ctx context.Context, id primitive.ObjectID, doc model.Document) (model.UpdateResult, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Upsert",
		trace.WithAttributes(attribute.String("product.id", id.Hex())))
	defer span.End()
	logger.Info(ctx, "Repository")

	update := bson.M{"$set": doc.Editable()}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	if err != nil {
		return model.UpdateResult{}, r.fail(span, "upsert product", err)
	}
	return model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (model.DeleteResult, error) {
	ctx, span := ProductRepositoryTracer.Start(ctx, "ProductRepository.Delete",
		trace.WithAttributes(attribute.String("product.id", id.Hex())))
	defer span.End()
	logger.Info(ctx, "Repository")

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return model.DeleteResult{}, r.fail(span, "delete product", err)
	}
	return model.DeleteResult{Acknowledged: true, DeletedCount: res.DeletedCount}, nil
}

func (r *ProductRepository) find(ctx context.Context, span trace.Span, filter any, opts ...*options.FindOptions) ([]model.Product, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, r.fail(span, "find products", err)
	}
	defer cursor.Close(ctx)

	products := make([]model.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, r.fail(span, "decode products", err)
	}
	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *ProductRepository) fail(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op)
	return fmt.Errorf("%s: %w", op, err)
}
