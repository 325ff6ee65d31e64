package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/dto"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/port/mock"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/serviceerrors"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

type productMocks struct {
	productRepo  *mock.MockProductPort
	productCache *mock.MockCachePort[domain.Product]
	outbox       *mock.MockOutboxPort
	txManager    *mock.MockTransactionManager
}

func setupProductService(t *testing.T, demoFallback bool) (*ProductService, *productMocks) {
	ctrl := gomock.NewController(t)
	m := &productMocks{
		productRepo:  mock.NewMockProductPort(ctrl),
		productCache: mock.NewMockCachePort[domain.Product](ctrl),
		outbox:       mock.NewMockOutboxPort(ctrl),
		txManager:    mock.NewMockTransactionManager(ctrl),
	}
	svc := NewProductService(m.productRepo, m.productCache, m.outbox, m.txManager, demoFallback)
	return svc, m
}

func expectPassthroughTx(tx *mock.MockTransactionManager) {
	tx.EXPECT().
		WithTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func TestProductService_GetAll(t *testing.T) {
	t.Run("returns stored products", func(t *testing.T) {
		svc, m := setupProductService(t, true)
		stored := []*domain.Product{{ID: "aabbccddee112233aabbccdd", Name: "Real"}}

		m.productRepo.EXPECT().GetAll(gomock.Any()).Return(stored, nil)

		products, err := svc.GetAll(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(products) != 1 || products[0].Name != "Real" {
			t.Fatalf("expected stored products, got %+v", products)
		}
	})

	t.Run("empty catalog serves demo products", func(t *testing.T) {
		svc, m := setupProductService(t, true)

		m.productRepo.EXPECT().GetAll(gomock.Any()).Return([]*domain.Product{}, nil)

		products, err := svc.GetAll(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []domain.ID{"dummy1", "dummy2", "dummy3"}
		if len(products) != len(want) {
			t.Fatalf("expected %d demo products, got %d", len(want), len(products))
		}
		for i, id := range want {
			if products[i].ID != id {
				t.Fatalf("expected %s at position %d, got %s", id, i, products[i].ID)
			}
		}
	})

	t.Run("empty catalog without fallback", func(t *testing.T) {
		svc, m := setupProductService(t, false)

		m.productRepo.EXPECT().GetAll(gomock.Any()).Return(nil, nil)

		products, err := svc.GetAll(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(products) != 0 {
			t.Fatalf("expected empty list, got %d", len(products))
		}
	})

	t.Run("repository error", func(t *testing.T) {
		svc, m := setupProductService(t, true)

		m.productRepo.EXPECT().GetAll(gomock.Any()).Return(nil, errors.New("connection refused"))

		if _, err := svc.GetAll(context.Background()); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestProductService_GetByID(t *testing.T) {
	productID := domain.ID("aabbccddee112233aabbccdd")

	t.Run("cache hit", func(t *testing.T) {
		svc, m := setupProductService(t, true)
		cached := &domain.Product{ID: productID, Name: "Cached"}

		m.productCache.EXPECT().Get(gomock.Any(), "product:"+string(productID)).Return(cached, nil)

		product, err := svc.GetByID(context.Background(), productID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if product.Name != "Cached" {
			t.Fatalf("expected cached product, got %+v", product)
		}
	})

	t.Run("cache miss fetches and caches", func(t *testing.T) {
		svc, m := setupProductService(t, true)
		stored := &domain.Product{ID: productID, Name: "Stored"}

		m.productCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
		m.productRepo.EXPECT().GetByID(gomock.Any(), productID).Return(stored, nil)
		m.productCache.EXPECT().Set(gomock.Any(), "product:"+string(productID), stored, productCacheTTL).Return(nil)

		product, err := svc.GetByID(context.Background(), productID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if product != stored {
			t.Fatalf("expected stored product, got %+v", product)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := setupProductService(t, true)

		m.productCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
		m.productRepo.EXPECT().
			GetByID(gomock.Any(), productID).
			Return(nil, serviceerrors.NewNotFoundError("product not found"))

		_, err := svc.GetByID(context.Background(), productID)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			t.Fatalf("expected KindNotFound, got %v", err)
		}
		if err.Error() != "Product not found" {
			t.Fatalf("expected message %q, got %q", "Product not found", err.Error())
		}
	})

	t.Run("malformed id reads as not found", func(t *testing.T) {
		svc, m := setupProductService(t, true)

		m.productCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
		m.productRepo.EXPECT().
			GetByID(gomock.Any(), domain.ID("nonexistent")).
			Return(nil, serviceerrors.NewInvalidRequestError("invalid id"))

		_, err := svc.GetByID(context.Background(), "nonexistent")
		if !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			t.Fatalf("expected KindNotFound, got %v", err)
		}
	})

	t.Run("cache errors are not fatal", func(t *testing.T) {
		svc, m := setupProductService(t, true)
		stored := &domain.Product{ID: productID}

		m.productCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down"))
		m.productRepo.EXPECT().GetByID(gomock.Any(), productID).Return(stored, nil)
		m.productCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		if _, err := svc.GetByID(context.Background(), productID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestProductService_CreateSample(t *testing.T) {
	owner := domain.ID("ccddaabbee112233aabbccdd")

	t.Run("success", func(t *testing.T) {
		svc, m := setupProductService(t, true)
		expectPassthroughTx(m.txManager)

		m.productRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *domain.Product) error {
				p.ID = "aabbccddee112233aabbccdd"
				return nil
			})
		m.outbox.EXPECT().
			Enqueue(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, event domain.Event) error {
				created, ok := event.(*domain.ProductCreatedEvent)
				if !ok || created.ProductID != "aabbccddee112233aabbccdd" {
					t.Fatalf("unexpected event %#v", event)
				}
				return nil
			})

		product, err := svc.CreateSample(context.Background(), owner)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if product.Name != "Sample name" || product.User != owner || !product.Price.IsZero() {
			t.Fatalf("unexpected sample product %+v", product)
		}
	})

	t.Run("repository error", func(t *testing.T) {
		svc, m := setupProductService(t, true)
		expectPassthroughTx(m.txManager)

		m.productRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))

		product, err := svc.CreateSample(context.Background(), owner)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if product != nil {
			t.Fatal("expected nil product on error")
		}
	})
}

func TestProductService_Update(t *testing.T) {
	productID := domain.ID("aabbccddee112233aabbccdd")

	existing := func() *domain.Product {
		return &domain.Product{
			ID:           productID,
			Name:         "Old",
			Price:        decimal.RequireFromString("10"),
			Description:  "old description",
			Image:        "/images/old.png",
			Brand:        "Old brand",
			Category:     "Old category",
			CountInStock: 4,
		}
	}

	t.Run("overwrites every field", func(t *testing.T) {
		svc, m := setupProductService(t, true)
		expectPassthroughTx(m.txManager)

		m.productRepo.EXPECT().GetByID(gomock.Any(), productID).Return(existing(), nil)
		m.productRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		m.outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)
		m.productCache.EXPECT().Set(gomock.Any(), "product:"+string(productID), gomock.Any(), productCacheTTL).Return(nil)

		req := &dto.UpdateProductRequest{Name: "New", Price: decimal.RequireFromString("25.5")}
		product, err := svc.Update(context.Background(), productID, req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if product.Name != "New" || !product.Price.Equal(decimal.RequireFromString("25.5")) {
			t.Fatalf("expected supplied fields, got %+v", product)
		}
		if product.Description != "" || product.Brand != "" || product.Category != "" || product.Image != "" || product.CountInStock != 0 {
			t.Fatalf("expected omitted fields to be cleared, got %+v", product)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc, m := setupProductService(t, true)

		m.productRepo.EXPECT().
			GetByID(gomock.Any(), productID).
			Return(nil, serviceerrors.NewNotFoundError("product not found"))

		_, err := svc.Update(context.Background(), productID, &dto.UpdateProductRequest{})
		if !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) || err.Error() != "Product not found" {
			t.Fatalf("expected Product not found, got %v", err)
		}
	})

	t.Run("negative price rejected", func(t *testing.T) {
		svc, m := setupProductService(t, true)

		m.productRepo.EXPECT().GetByID(gomock.Any(), productID).Return(existing(), nil)

		_, err := svc.Update(context.Background(), productID, &dto.UpdateProductRequest{Price: decimal.NewFromInt(-1)})
		if !serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) {
			t.Fatalf("expected KindInvalidRequest, got %v", err)
		}
	})

	t.Run("price the store cannot hold is rejected before writing", func(t *testing.T) {
		for _, price := range []string{"0.12345678901234567890123456789012345", "1e7000"} {
			svc, m := setupProductService(t, true)

			// no Update, Enqueue or cache Set expected
			m.productRepo.EXPECT().GetByID(gomock.Any(), productID).Return(existing(), nil)

			_, err := svc.Update(context.Background(), productID, &dto.UpdateProductRequest{Price: decimal.RequireFromString(price)})
			if !serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) {
				t.Fatalf("price %s: expected KindInvalidRequest, got %v", price, err)
			}
		}
	})

	t.Run("outbox failure aborts", func(t *testing.T) {
		svc, m := setupProductService(t, true)
		expectPassthroughTx(m.txManager)

		m.productRepo.EXPECT().GetByID(gomock.Any(), productID).Return(existing(), nil)
		m.productRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
		m.outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(errors.New("outbox insert failed"))

		if _, err := svc.Update(context.Background(), productID, &dto.UpdateProductRequest{Name: "New"}); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestProductService_Patch(t *testing.T) {
	productID := domain.ID("aabbccddee112233aabbccdd")
	svc, m := setupProductService(t, true)
	expectPassthroughTx(m.txManager)

	m.productRepo.EXPECT().GetByID(gomock.Any(), productID).Return(&domain.Product{
		ID:           productID,
		Name:         "Old",
		Brand:        "Hoodlum",
		CountInStock: 7,
	}, nil)
	m.productRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	m.outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)
	m.productCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	name := "Renamed"
	product, err := svc.Patch(context.Background(), productID, &dto.PatchProductRequest{Name: &name})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if product.Name != "Renamed" || product.Brand != "Hoodlum" || product.CountInStock != 7 {
		t.Fatalf("expected untouched fields to be kept, got %+v", product)
	}
}

func TestProductService_SeedDemoProducts(t *testing.T) {
	owner := domain.ID("ccddaabbee112233aabbccdd")

	t.Run("seeds empty catalog", func(t *testing.T) {
		svc, m := setupProductService(t, true)

		m.productRepo.EXPECT().Count(gomock.Any()).Return(int64(0), nil)
		m.productRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *domain.Product) error {
				if p.ID != "" || p.User != owner {
					t.Fatalf("expected fresh product owned by %s, got %+v", owner, p)
				}
				return nil
			}).
			Times(3)

		n, err := svc.SeedDemoProducts(context.Background(), owner)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if n != 3 {
			t.Fatalf("expected 3 inserted, got %d", n)
		}
	})

	t.Run("skips populated catalog", func(t *testing.T) {
		svc, m := setupProductService(t, true)

		m.productRepo.EXPECT().Count(gomock.Any()).Return(int64(5), nil)

		n, err := svc.SeedDemoProducts(context.Background(), owner)
		if err != nil || n != 0 {
			t.Fatalf("expected no-op, got %d, %v", n, err)
		}
	})
}

func TestProductService_DeductStock(t *testing.T) {
	productID := domain.ID("aabbccddee112233aabbccdd")

	t.Run("success evicts cache", func(t *testing.T) {
		svc, m := setupProductService(t, true)

		m.productRepo.EXPECT().DeductStock(gomock.Any(), productID, 2).Return(nil)
		m.productCache.EXPECT().Del(gomock.Any(), "product:"+string(productID)).Return(nil)

		if err := svc.DeductStock(context.Background(), productID, 2); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("insufficient stock", func(t *testing.T) {
		svc, m := setupProductService(t, true)

		m.productRepo.EXPECT().
			DeductStock(gomock.Any(), productID, 50).
			Return(serviceerrors.NewUnprocessableEntityError("insufficient stock"))

		err := svc.DeductStock(context.Background(), productID, 50)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnprocessableEntity) {
			t.Fatalf("expected KindUnprocessableEntity, got %v", err)
		}
	})
}
