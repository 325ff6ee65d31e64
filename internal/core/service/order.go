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
	ORDER_MAX_ITEMS = 100
	orderCacheTTL   = 15 * time.Minute
)

type OrderService struct {
	orderRepository port.OrderPort
	productService  *ProductService
	orderCache      port.CachePort[domain.Order]
	idempotency     *IdempotencyService[domain.Order]
	outbox          port.OutboxPort
	txManager       port.TransactionManager
}

func NewOrderService(
	orderRepository port.OrderPort,
	productService *ProductService,
	orderCache port.CachePort[domain.Order],
	idempotency *IdempotencyService[domain.Order],
	outbox port.OutboxPort,
	txManager port.TransactionManager,
) *OrderService {
	return &OrderService{
		orderRepository: orderRepository,
		productService:  productService,
		orderCache:      orderCache,
		idempotency:     idempotency,
		outbox:          outbox,
		txManager:       txManager,
	}
}

func (s *OrderService) getCacheKey(orderID domain.ID) string {
	return fmt.Sprintf("order:%s", orderID)
}

func (s *OrderService) getIdempotencyKey(caller *domain.Caller, key string) string {
	return fmt.Sprintf("idempotency:order:%s:%s", caller.ID, key)
}

func (s *OrderService) GetOrderByID(ctx context.Context, caller *domain.Caller, orderID domain.ID) (*domain.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(order.User) {
		return nil, serviceerrors.NewForbiddenError("Not authorized to view this order")
	}
	return order, nil
}

func (s *OrderService) GetMyOrders(ctx context.Context, caller *domain.Caller) ([]*domain.Order, error) {
	return s.orderRepository.GetByUser(ctx, caller.ID)
}

func (s *OrderService) GetAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepository.GetAll(ctx)
}

func (s *OrderService) PayOrder(ctx context.Context, caller *domain.Caller, orderID domain.ID, request *dto.PaymentResultRequest) (*domain.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(order.User) {
		return nil, serviceerrors.NewForbiddenError("Not authorized to pay this order")
	}

	result := domain.PaymentResult{
		ID:           request.ID,
		Status:       request.Status,
		UpdateTime:   request.UpdateTime,
		EmailAddress: request.EmailAddress,
	}
	if err := order.MarkPaid(result, time.Now()); err != nil {
		return nil, mapOrderError(err)
	}

	if err := s.saveStatus(ctx, order, domain.NewOrderPaidEvent(order)); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Order paid", map[string]any{"order_id": orderID, "payment_id": result.ID})
	return order, nil
}

func (s *OrderService) DeliverOrder(ctx context.Context, orderID domain.ID) (*domain.Order, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.MarkDelivered(time.Now()); err != nil {
		return nil, mapOrderError(err)
	}

	if err := s.saveStatus(ctx, order, domain.NewOrderDeliveredEvent(order)); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Order delivered", map[string]any{"order_id": orderID})
	return order, nil
}

func (s *OrderService) loadOrder(ctx context.Context, orderID domain.ID) (*domain.Order, error) {
	cached, err := s.orderCache.Get(ctx, s.getCacheKey(orderID))
	if err != nil {
		logger.Error(ctx, "cache: get order failed", err, map[string]any{
			"order_id": orderID,
		})
	}
	if cached != nil {
		return cached, nil
	}

	order, err := s.orderRepository.GetByID(ctx, orderID)
	if err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) {
			return nil, serviceerrors.NewNotFoundError("Order not found")
		}
		return nil, err
	}

	s.cacheOrder(ctx, order)
	return order, nil
}

func (s *OrderService) saveStatus(ctx context.Context, order *domain.Order, event domain.Event) error {
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.orderRepository.UpdateStatus(txCtx, order); err != nil {
			return err
		}
		return s.outbox.Enqueue(txCtx, event)
	})
	if err != nil {
		logger.Error(ctx, "transaction: update order failed", err, map[string]any{
			"order_id": order.ID,
			"event":    event.GetName(),
		})
		return err
	}

	s.cacheOrder(ctx, order)
	return nil
}

func (s *OrderService) cacheOrder(ctx context.Context, order *domain.Order) {
	if err := s.orderCache.Set(ctx, s.getCacheKey(order.ID), order, orderCacheTTL); err != nil {
		logger.Error(ctx, "cache: set order failed", err, map[string]any{
			"order_id": order.ID,
		})
	}
}

func (s *OrderService) getOrderItems(ctx context.Context, dtoItems []dto.OrderItem) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, len(dtoItems))
	for i, item := range dtoItems {
		if item.Qty < 1 {
			return nil, mapOrderError(domain.ErrInvalidQuantity)
		}
		product, err := s.productService.GetByID(ctx, item.Product)
		if err != nil {
			return nil, err
		}
		items[i] = *domain.NewOrderItem(product, item.Qty)
	}
	return items, nil
}

func (s *OrderService) processOrder(ctx context.Context, caller *domain.Caller, request *dto.CreateOrderRequest) (*domain.Order, error) {
	if len(request.OrderItems) == 0 {
		return nil, serviceerrors.NewInvalidRequestError("No order items")
	}
	if len(request.OrderItems) > ORDER_MAX_ITEMS {
		return nil, serviceerrors.NewUnprocessableEntityError("order items limit exceeded")
	}

	items, err := s.getOrderItems(ctx, request.OrderItems)
	if err != nil {
		return nil, err
	}

	address := domain.ShippingAddress{
		Address:    request.ShippingAddress.Address,
		City:       request.ShippingAddress.City,
		PostalCode: request.ShippingAddress.PostalCode,
		Country:    request.ShippingAddress.Country,
	}
	order := domain.NewOrder(caller.ID, items, address, request.PaymentMethod)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, item := range order.OrderItems {
			if err := s.productService.DeductStock(txCtx, item.Product, item.Qty); err != nil {
				return err
			}
		}
		if err := s.orderRepository.Create(txCtx, order); err != nil {
			return err
		}
		return s.outbox.Enqueue(txCtx, domain.NewOrderCreatedEvent(order))
	})
	if err != nil {
		logger.Error(ctx, "transaction: create order failed", err, map[string]any{
			"user": caller.ID,
		})
		return nil, err
	}

	logger.Info(ctx, "Order created successfully", map[string]any{
		"order_id": order.ID,
		"total":    order.TotalPrice.String(),
	})
	return order, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, caller *domain.Caller, idempotencyKey string, request *dto.CreateOrderRequest) (*domain.Order, error) {
	if idempotencyKey == "" {
		return s.processOrder(ctx, caller, request)
	}

	key := s.getIdempotencyKey(caller, idempotencyKey)
	return s.idempotency.Execute(ctx, key, request, func(ctx context.Context) (*domain.Order, error) {
		return s.processOrder(ctx, caller, request)
	})
}

func mapOrderError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrAlreadyPaid),
		errors.Is(err, domain.ErrAlreadyDelivered):
		return serviceerrors.NewUnprocessableEntityError(err.Error())
	}
	return err
}
