package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"toy-catalog/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) FindAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	return products(args.Get(0)), args.Error(1)
}

func (m *MockProductStore) FindByCategory(ctx context.Context, category string) ([]model.Product, error) {
	args := m.Called(ctx, category)
	return products(args.Get(0)), args.Error(1)
}

func (m *MockProductStore) FindByOwner(ctx context.Context, email string) ([]model.Product, error) {
	args := m.Called(ctx, email)
	return products(args.Get(0)), args.Error(1)
}

func (m *MockProductStore) FindPage(ctx context.Context, skip, limit int64) ([]model.Product, error) {
	args := m.Called(ctx, skip, limit)
	return products(args.Get(0)), args.Error(1)
}

func (m *MockProductStore) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductStore) Insert(ctx context.Context, doc model.Document) (model.InsertResult, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(model.InsertResult), args.Error(1)
}

func (m *MockProductStore) Upsert(ctx context.Context, id primitive.ObjectID, doc model.Document) (model.UpdateResult, error) {
	args := m.Called(ctx, id, doc)
	return args.Get(0).(model.UpdateResult), args.Error(1)
}

func (m *MockProductStore) Delete(ctx context.Context, id primitive.ObjectID) (model.DeleteResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.DeleteResult), args.Error(1)
}

func products(v any) []model.Product {
	if v == nil {
		return nil
	}
	return v.([]model.Product)
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		name     string
		page     string
		limit    string
		want     Page
		wantSkip int64
	}{
		{name: "defaults when absent", want: Page{Number: 1, Size: 8}, wantSkip: 0},
		{name: "explicit values", page: "2", limit: "5", want: Page{Number: 2, Size: 5}, wantSkip: 5},
		{name: "non-numeric falls back", page: "two", limit: "five", want: Page{Number: 1, Size: 8}, wantSkip: 0},
		{name: "zero and negative fall back", page: "0", limit: "-3", want: Page{Number: 1, Size: 8}, wantSkip: 0},
		{name: "large limit is kept", page: "3", limit: "1000", want: Page{Number: 3, Size: 1000}, wantSkip: 2000},
		{name: "only page", page: "4", want: Page{Number: 4, Size: 8}, wantSkip: 24},
		{
			name: "offset past int64 saturates", page: "9223372036854775807", limit: "8",
			want: Page{Number: math.MaxInt64, Size: 8}, wantSkip: math.MaxInt64,
		},
		{
			name: "largest exact offset", page: "2", limit: "9223372036854775807",
			want: Page{Number: 2, Size: math.MaxInt64}, wantSkip: math.MaxInt64,
		},
		{
			name: "limit overflow saturates", page: "3", limit: "9223372036854775807",
			want: Page{Number: 3, Size: math.MaxInt64}, wantSkip: math.MaxInt64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePage(tt.page, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantSkip, got.Skip())
		})
	}
}

func TestProductService_GetPage(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	want := []model.Product{{Name: "Jeep"}}
	store.On("FindPage", mock.Anything, int64(5), int64(5)).Return(want, nil)

	got, err := NewProductService(store).GetPage(ctx, ParsePage("2", "5"))

	require.NoError(t, err)
	assert.Equal(t, want, got)
	store.AssertExpectations(t)
}

func TestProductService_GetPageBeyondRange(t *testing.T) {
	store := new(MockProductStore)
	store.On("FindPage", mock.Anything, int64(math.MaxInt64), int64(8)).Return([]model.Product{}, nil)

	got, err := NewProductService(store).GetPage(context.Background(), ParsePage("9223372036854775807", "8"))

	require.NoError(t, err)
	assert.Empty(t, got)
	store.AssertExpectations(t)
}

func TestProductService_GetByCategory(t *testing.T) {
	store := new(MockProductStore)
	store.On("FindByCategory", mock.Anything, "trucks").Return([]model.Product{}, nil)

	got, err := NewProductService(store).GetByCategory(context.Background(), model.CategoryTrucks)

	require.NoError(t, err)
	assert.Empty(t, got)
	store.AssertExpectations(t)
}

func TestProductService_Count(t *testing.T) {
	store := new(MockProductStore)
	store.On("Count", mock.Anything).Return(int64(42), nil)

	got, err := NewProductService(store).Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, model.CountResult{Total: 42}, got)
}

func TestProductService_InvalidIDNeverReachesStore(t *testing.T) {
	ctx := context.Background()
	store := new(MockProductStore)
	svc := NewProductService(store)

	for _, id := range []string{"", "123", "not-a-hex-object-id!", "64b7f0c2e1a2b3c4d5e6f7"} {
		t.Run("id="+id, func(t *testing.T) {
			_, err := svc.GetByID(ctx, id)
			assert.ErrorIs(t, err, ErrInvalidID)

			_, err = svc.Update(ctx, id, model.Document{})
			assert.ErrorIs(t, err, ErrInvalidID)

			_, err = svc.Delete(ctx, id)
			assert.ErrorIs(t, err, ErrInvalidID)
		})
	}

	store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProductService_GetByIDMissing(t *testing.T) {
	id := primitive.NewObjectID()
	store := new(MockProductStore)
	store.On("FindByID", mock.Anything, id).Return(nil, nil)

	got, err := NewProductService(store).GetByID(context.Background(), id.Hex())

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProductService_CreateLetsStoreAssignID(t *testing.T) {
	store := new(MockProductStore)
	inserted := primitive.NewObjectID()
	store.On("Insert", mock.Anything, model.Document{
		"name":    "Tonka",
		"price":   "12",
		"ratings": map[string]any{"rate": 4.5},
	}).Return(model.InsertResult{Acknowledged: true, InsertedID: inserted}, nil)

	sent := model.Document{
		"_id":     primitive.NewObjectID().Hex(),
		"name":    "Tonka",
		"price":   "12",
		"ratings": map[string]any{"rate": 4.5},
	}
	res, err := NewProductService(store).Create(context.Background(), sent)

	require.NoError(t, err)
	assert.Equal(t, inserted, res.InsertedID)
	assert.Contains(t, sent, "_id")
	store.AssertExpectations(t)
}

func TestProductService_UpdateUpsertsParsedID(t *testing.T) {
	id := primitive.NewObjectID()
	doc := model.Document{"name": "Bike", "price": 12.5}
	store := new(MockProductStore)
	store.On("Upsert", mock.Anything, id, doc).
		Return(model.UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: id}, nil)

	res, err := NewProductService(store).Update(context.Background(), id.Hex(), doc)

	require.NoError(t, err)
	assert.Equal(t, int64(1), res.UpsertedCount)
}

func TestProductService_DeletePropagatesStoreError(t *testing.T) {
	id := primitive.NewObjectID()
	storeErr := errors.New("connection reset")
	store := new(MockProductStore)
	store.On("Delete", mock.Anything, id).Return(model.DeleteResult{}, storeErr)

	_, err := NewProductService(store).Delete(context.Background(), id.Hex())

	assert.ErrorIs(t, err, storeErr)
}

func TestProductService_GetOwned(t *testing.T) {
	tests := []struct {
		name          string
		authenticated string
		requested     string
		wantErr       error
		expectStore   bool
	}{
		{name: "owner", authenticated: "a@toys.dev", requested: "a@toys.dev", expectStore: true},
		{name: "someone else", authenticated: "a@toys.dev", requested: "b@toys.dev", wantErr: ErrForbidden},
		{name: "case differs", authenticated: "a@toys.dev", requested: "A@toys.dev", wantErr: ErrForbidden},
		{name: "token without email", authenticated: "", requested: "", wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockProductStore)
			owned := []model.Product{{OwnerEmail: tt.requested}}
			if tt.expectStore {
				store.On("FindByOwner", mock.Anything, tt.requested).Return(owned, nil)
			}

			got, err := NewProductService(store).GetOwned(context.Background(), tt.authenticated, tt.requested)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				store.AssertNotCalled(t, "FindByOwner", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, owned, got)
			store.AssertExpectations(t)
		})
	}
}
