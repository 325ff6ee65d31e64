package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/dto"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/logger"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/port"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/serviceerrors"
)

const (
	productCacheTTL        = 15 * time.Minute
	productNotFoundMessage = "Product not found"
)

type ProductService struct {
	productRepository port.ProductPort
	productCache      port.CachePort[domain.Product]
	outbox            port.OutboxPort
	txManager         port.TransactionManager
	demoFallback      bool
}

func NewProductService(
	productRepository port.ProductPort,
	productCache port.CachePort[domain.Product],
	outbox port.OutboxPort,
	txManager port.TransactionManager,
	demoFallback bool,
) *ProductService {
	return &ProductService{
		productRepository: productRepository,
		productCache:      productCache,
		outbox:            outbox,
		txManager:         txManager,
		demoFallback:      demoFallback,
	}
}

func (s *ProductService) getCacheKey(id domain.ID) string {
	return fmt.Sprintf("product:%s", id)
}

// GetAll lists the catalog. An empty catalog is answered with the demo products
// when the fallback is enabled; they are never written to the store.
func (s *ProductService) GetAll(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.productRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(products) == 0 && s.demoFallback {
		logger.Debug(ctx, "catalog empty, serving demo products", nil)
		return domain.DemoProducts(), nil
	}

	return products, nil
}

func (s *ProductService) GetByID(ctx context.Context, id domain.ID) (*domain.Product, error) {
	cached, err := s.productCache.Get(ctx, s.getCacheKey(id))
	if err != nil {
		logger.Error(ctx, "cache: get product failed", err, map[string]any{
			"product_id": id,
		})
	}
	if cached != nil {
		return cached, nil
	}

	product, err := s.productRepository.GetByID(ctx, id)
	if err != nil {
		return nil, mapProductError(err)
	}

	s.cacheProduct(ctx, product)
	return product, nil
}

// CreateSample persists a placeholder product owned by the caller, to be edited afterwards.
func (s *ProductService) CreateSample(ctx context.Context, owner domain.ID) (*domain.Product, error) {
	product := domain.NewSampleProduct(owner)

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.productRepository.Create(txCtx, product); err != nil {
			return err
		}
		return s.outbox.Enqueue(txCtx, domain.NewProductCreatedEvent(product))
	})
	if err != nil {
		logger.Error(ctx, "product: create failed", err, map[string]any{
			"user": owner,
		})
		return nil, err
	}

	logger.Info(ctx, "Product created", map[string]any{"product_id": product.ID, "user": owner})
	return product, nil
}

// Update overwrites every editable field with the request values. Fields the
// caller left out are written as zero values.
func (s *ProductService) Update(ctx context.Context, id domain.ID, request *dto.UpdateProductRequest) (*domain.Product, error) {
	details := domain.ProductDetails{
		Name:         request.Name,
		Price:        request.Price,
		Description:  request.Description,
		Image:        request.Image,
		Brand:        request.Brand,
		Category:     request.Category,
		CountInStock: request.CountInStock,
	}
	return s.apply(ctx, id, func(*domain.Product) domain.ProductDetails { return details })
}

// Patch merges only the fields present in the request into the stored product.
func (s *ProductService) Patch(ctx context.Context, id domain.ID, request *dto.PatchProductRequest) (*domain.Product, error) {
	return s.apply(ctx, id, func(current *domain.Product) domain.ProductDetails {
		details := current.Details()
		if request.Name != nil {
			details.Name = *request.Name
		}
		if request.Price != nil {
			details.Price = *request.Price
		}
		if request.Description != nil {
			details.Description = *request.Description
		}
		if request.Image != nil {
			details.Image = *request.Image
		}
		if request.Brand != nil {
			details.Brand = *request.Brand
		}
		if request.Category != nil {
			details.Category = *request.Category
		}
		if request.CountInStock != nil {
			details.CountInStock = *request.CountInStock
		}
		return details
	})
}

func (s *ProductService) apply(ctx context.Context, id domain.ID, build func(current *domain.Product) domain.ProductDetails) (*domain.Product, error) {
	product, err := s.productRepository.GetByID(ctx, id)
	if err != nil {
		return nil, mapProductError(err)
	}

	details := build(product)
	if err := details.Validate(); err != nil {
		return nil, serviceerrors.NewInvalidRequestError(err.Error())
	}
	product.Replace(details)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.productRepository.Update(txCtx, product); err != nil {
			return err
		}
		return s.outbox.Enqueue(txCtx, domain.NewProductUpdatedEvent(product))
	})
	if err != nil {
		err = mapProductError(err)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			logger.Error(ctx, "product: update failed", err, map[string]any{
				"product_id": id,
			})
		}
		return nil, err
	}

	s.cacheProduct(ctx, product)
	logger.Info(ctx, "Product updated", map[string]any{"product_id": id})
	return product, nil
}

// SeedDemoProducts stores the demo catalog when the store holds no products.
// It returns how many products were inserted.
func (s *ProductService) SeedDemoProducts(ctx context.Context, owner domain.ID) (int, error) {
	count, err := s.productRepository.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, demo := range domain.DemoProducts() {
		product := domain.NewProduct(owner, demo.Details())
		if err := s.productRepository.Create(ctx, product); err != nil {
			return inserted, err
		}
		inserted++
	}

	logger.Info(ctx, "Demo products seeded", map[string]any{"count": inserted})
	return inserted, nil
}

func (s *ProductService) DeductStock(ctx context.Context, id domain.ID, quantity int) error {
	if err := s.productRepository.DeductStock(ctx, id, quantity); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *ProductService) cacheProduct(ctx context.Context, product *domain.Product) {
	if err := s.productCache.Set(ctx, s.getCacheKey(product.ID), product, productCacheTTL); err != nil {
		logger.Error(ctx, "cache: set product failed", err, map[string]any{
			"product_id": product.ID,
		})
	}
}

func (s *ProductService) evict(ctx context.Context, id domain.ID) {
	if err := s.productCache.Del(ctx, s.getCacheKey(id)); err != nil {
		logger.Error(ctx, "cache: evict product failed", err, map[string]any{
			"product_id": id,
		})
	}
}

// mapProductError folds "no such record" and "malformed identifier" into the
// single not-found condition clients see.
func mapProductError(err error) error {
	var svcErr *serviceerrors.ServiceError
	if errors.As(err, &svcErr) && (svcErr.Kind == serviceerrors.KindNotFound || svcErr.Kind == serviceerrors.KindInvalidRequest) {
		return serviceerrors.NewNotFoundError(productNotFoundMessage)
	}
	return err
}
