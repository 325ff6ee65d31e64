package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/dto"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/port/mock"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/serviceerrors"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

type orderMocks struct {
	orderRepo    *mock.MockOrderPort
	productRepo  *mock.MockProductPort
	productCache *mock.MockCachePort[domain.Product]
	orderCache   *mock.MockCachePort[domain.Order]
	idemCache    *mock.MockCachePort[IdempotencyRecord[domain.Order]]
	outbox       *mock.MockOutboxPort
	txManager    *mock.MockTransactionManager
}

func setupOrderService(t *testing.T) (*OrderService, *orderMocks) {
	ctrl := gomock.NewController(t)

	m := &orderMocks{
		orderRepo:    mock.NewMockOrderPort(ctrl),
		productRepo:  mock.NewMockProductPort(ctrl),
		productCache: mock.NewMockCachePort[domain.Product](ctrl),
		orderCache:   mock.NewMockCachePort[domain.Order](ctrl),
		idemCache:    mock.NewMockCachePort[IdempotencyRecord[domain.Order]](ctrl),
		outbox:       mock.NewMockOutboxPort(ctrl),
		txManager:    mock.NewMockTransactionManager(ctrl),
	}

	productSvc := NewProductService(m.productRepo, m.productCache, m.outbox, m.txManager, true)
	idemSvc := NewIdempotencyService[domain.Order](m.idemCache, IdempotencyOptions{
		TTL:          15 * time.Minute,
		PollInterval: 50 * time.Millisecond,
		PollTimeout:  500 * time.Millisecond,
	})
	svc := NewOrderService(m.orderRepo, productSvc, m.orderCache, idemSvc, m.outbox, m.txManager)

	return svc, m
}

var (
	testOwner = &domain.Caller{ID: "ccddaabbee112233aabbccdd", Name: "Jane"}
	testAdmin = &domain.Caller{ID: "ffddaabbee112233aabbccdd", Name: "Admin", IsAdmin: true}
	testOther = &domain.Caller{ID: "eeddaabbee112233aabbccdd", Name: "Mallory"}
)

func TestOrderService_GetOrderByID(t *testing.T) {
	orderID := domain.ID("aabbccddee112233aabbccdd")

	t.Run("cache hit for owner", func(t *testing.T) {
		svc, m := setupOrderService(t)
		cached := &domain.Order{ID: orderID, User: testOwner.ID}

		m.orderCache.EXPECT().Get(gomock.Any(), "order:"+string(orderID)).Return(cached, nil)

		order, err := svc.GetOrderByID(context.Background(), testOwner, orderID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if order.ID != orderID {
			t.Fatalf("expected order id %s, got %s", orderID, order.ID)
		}
	})

	t.Run("cache miss fetches from repo and caches", func(t *testing.T) {
		svc, m := setupOrderService(t)
		repoOrder := &domain.Order{ID: orderID, User: testOwner.ID}

		m.orderCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis error"))
		m.orderRepo.EXPECT().GetByID(gomock.Any(), orderID).Return(repoOrder, nil)
		m.orderCache.EXPECT().Set(gomock.Any(), "order:"+string(orderID), repoOrder, orderCacheTTL).Return(nil)

		if _, err := svc.GetOrderByID(context.Background(), testAdmin, orderID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		svc, m := setupOrderService(t)

		m.orderCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&domain.Order{ID: orderID, User: testOwner.ID}, nil)

		_, err := svc.GetOrderByID(context.Background(), testOther, orderID)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindForbidden) {
			t.Fatalf("expected KindForbidden, got %v", err)
		}
	})

	t.Run("malformed id reads as not found", func(t *testing.T) {
		svc, m := setupOrderService(t)

		m.orderCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
		m.orderRepo.EXPECT().GetByID(gomock.Any(), domain.ID("bogus")).Return(nil, serviceerrors.NewInvalidRequestError("invalid id"))

		_, err := svc.GetOrderByID(context.Background(), testOwner, "bogus")
		if !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			t.Fatalf("expected KindNotFound, got %v", err)
		}
	})
}

func TestOrderService_PayOrder(t *testing.T) {
	orderID := domain.ID("aabbccddee112233aabbccdd")
	payment := &dto.PaymentResultRequest{ID: "PAY-1", Status: "COMPLETED", EmailAddress: "jane@example.com"}

	t.Run("success", func(t *testing.T) {
		svc, m := setupOrderService(t)
		expectPassthroughTx(m.txManager)

		m.orderCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&domain.Order{ID: orderID, User: testOwner.ID}, nil)
		m.orderRepo.EXPECT().
			UpdateStatus(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, o *domain.Order) error {
				if !o.IsPaid || o.PaymentResult.ID != "PAY-1" {
					t.Fatalf("expected paid order, got %+v", o)
				}
				return nil
			})
		m.outbox.EXPECT().
			Enqueue(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e domain.Event) error {
				if e.GetName() != "order.paid" {
					t.Fatalf("expected order.paid, got %s", e.GetName())
				}
				return nil
			})
		m.orderCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), orderCacheTTL).Return(nil)

		order, err := svc.PayOrder(context.Background(), testOwner, orderID, payment)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !order.IsPaid || order.PaidAt == nil {
			t.Fatalf("expected paid order, got %+v", order)
		}
	})

	t.Run("already paid", func(t *testing.T) {
		svc, m := setupOrderService(t)

		m.orderCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&domain.Order{ID: orderID, User: testOwner.ID, IsPaid: true}, nil)

		_, err := svc.PayOrder(context.Background(), testOwner, orderID, payment)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnprocessableEntity) {
			t.Fatalf("expected KindUnprocessableEntity, got %v", err)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		svc, m := setupOrderService(t)

		m.orderCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&domain.Order{ID: orderID, User: testOwner.ID}, nil)

		_, err := svc.PayOrder(context.Background(), testOther, orderID, payment)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindForbidden) {
			t.Fatalf("expected KindForbidden, got %v", err)
		}
	})

	t.Run("update repo error", func(t *testing.T) {
		svc, m := setupOrderService(t)
		expectPassthroughTx(m.txManager)

		m.orderCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&domain.Order{ID: orderID, User: testOwner.ID}, nil)
		m.orderRepo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(errors.New("db error"))

		if _, err := svc.PayOrder(context.Background(), testOwner, orderID, payment); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestOrderService_DeliverOrder(t *testing.T) {
	orderID := domain.ID("aabbccddee112233aabbccdd")

	t.Run("success", func(t *testing.T) {
		svc, m := setupOrderService(t)
		expectPassthroughTx(m.txManager)

		m.orderCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
		m.orderRepo.EXPECT().GetByID(gomock.Any(), orderID).Return(&domain.Order{ID: orderID, User: testOwner.ID, IsPaid: true}, nil)
		m.orderCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
		m.orderRepo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(nil)
		m.outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)

		order, err := svc.DeliverOrder(context.Background(), orderID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !order.IsDelivered {
			t.Fatal("expected delivered order")
		}
	})

	t.Run("already delivered", func(t *testing.T) {
		svc, m := setupOrderService(t)

		m.orderCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&domain.Order{ID: orderID, IsDelivered: true}, nil)

		_, err := svc.DeliverOrder(context.Background(), orderID)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnprocessableEntity) {
			t.Fatalf("expected KindUnprocessableEntity, got %v", err)
		}
	})
}

func TestOrderService_CreateOrder(t *testing.T) {
	productID := domain.ID("aabbccddee112233aabbccdd")
	product := &domain.Product{ID: productID, Name: "Hoodie", Image: "/images/2.png", Price: decimal.RequireFromString("39.99"), CountInStock: 10}

	newRequest := func(qty int) *dto.CreateOrderRequest {
		return &dto.CreateOrderRequest{
			OrderItems:      []dto.OrderItem{{Product: productID, Qty: qty}},
			ShippingAddress: dto.ShippingAddress{Address: "1 Main St", City: "Athens", PostalCode: "10431", Country: "GR"},
			PaymentMethod:   "PayPal",
		}
	}

	t.Run("success without idempotency key", func(t *testing.T) {
		svc, m := setupOrderService(t)
		expectPassthroughTx(m.txManager)

		m.productCache.EXPECT().Get(gomock.Any(), "product:"+string(productID)).Return(product, nil)
		m.productRepo.EXPECT().DeductStock(gomock.Any(), productID, 2).Return(nil)
		m.productCache.EXPECT().Del(gomock.Any(), "product:"+string(productID)).Return(nil)
		m.orderRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, o *domain.Order) error {
				o.ID = "bbccddeeff112233aabbccdd"
				return nil
			})
		m.outbox.EXPECT().
			Enqueue(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e domain.Event) error {
				created, ok := e.(*domain.OrderCreatedEvent)
				if !ok || created.OrderID != "bbccddeeff112233aabbccdd" {
					t.Fatalf("unexpected event %#v", e)
				}
				return nil
			})

		order, err := svc.CreateOrder(context.Background(), testOwner, "", newRequest(2))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if order.User != testOwner.ID {
			t.Fatalf("expected order owned by caller, got %s", order.User)
		}
		if !order.ItemsPrice.Equal(decimal.RequireFromString("79.98")) {
			t.Fatalf("expected items price 79.98, got %s", order.ItemsPrice)
		}
		if !order.ShippingPrice.Equal(decimal.NewFromInt(10)) {
			t.Fatalf("expected shipping 10, got %s", order.ShippingPrice)
		}
		if order.OrderItems[0].Name != "Hoodie" {
			t.Fatalf("expected product snapshot, got %+v", order.OrderItems[0])
		}
	})

	t.Run("no order items", func(t *testing.T) {
		svc, _ := setupOrderService(t)

		_, err := svc.CreateOrder(context.Background(), testOwner, "", &dto.CreateOrderRequest{PaymentMethod: "PayPal"})
		if !serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) || err.Error() != "No order items" {
			t.Fatalf("expected No order items, got %v", err)
		}
	})

	t.Run("too many items", func(t *testing.T) {
		svc, _ := setupOrderService(t)
		req := newRequest(1)
		req.OrderItems = make([]dto.OrderItem, ORDER_MAX_ITEMS+1)

		_, err := svc.CreateOrder(context.Background(), testOwner, "", req)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnprocessableEntity) {
			t.Fatalf("expected KindUnprocessableEntity, got %v", err)
		}
	})

	t.Run("invalid quantity", func(t *testing.T) {
		svc, _ := setupOrderService(t)

		_, err := svc.CreateOrder(context.Background(), testOwner, "", newRequest(0))
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnprocessableEntity) {
			t.Fatalf("expected KindUnprocessableEntity, got %v", err)
		}
	})

	t.Run("product not found", func(t *testing.T) {
		svc, m := setupOrderService(t)

		m.productCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
		m.productRepo.EXPECT().GetByID(gomock.Any(), productID).Return(nil, serviceerrors.NewNotFoundError("product not found"))

		_, err := svc.CreateOrder(context.Background(), testOwner, "", newRequest(1))
		if !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			t.Fatalf("expected KindNotFound, got %v", err)
		}
	})

	t.Run("insufficient stock aborts transaction", func(t *testing.T) {
		svc, m := setupOrderService(t)
		expectPassthroughTx(m.txManager)

		m.productCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(product, nil)
		m.productRepo.EXPECT().
			DeductStock(gomock.Any(), productID, 50).
			Return(serviceerrors.NewUnprocessableEntityError("insufficient stock"))

		_, err := svc.CreateOrder(context.Background(), testOwner, "", newRequest(50))
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnprocessableEntity) {
			t.Fatalf("expected KindUnprocessableEntity, got %v", err)
		}
	})
}

func TestOrderService_CreateOrder_Idempotency(t *testing.T) {
	productID := domain.ID("aabbccddee112233aabbccdd")
	req := &dto.CreateOrderRequest{
		OrderItems:    []dto.OrderItem{{Product: productID, Qty: 1}},
		PaymentMethod: "PayPal",
	}
	scopedKey := "idempotency:order:" + string(testOwner.ID) + ":key-1"

	t.Run("first request claims and completes", func(t *testing.T) {
		svc, m := setupOrderService(t)
		expectPassthroughTx(m.txManager)

		m.idemCache.EXPECT().SetNX(gomock.Any(), scopedKey, gomock.Any(), 15*time.Minute).Return(true, nil)
		m.productCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(&domain.Product{ID: productID, Price: decimal.NewFromInt(5)}, nil)
		m.productRepo.EXPECT().DeductStock(gomock.Any(), productID, 1).Return(nil)
		m.productCache.EXPECT().Del(gomock.Any(), gomock.Any()).Return(nil)
		m.orderRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		m.outbox.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(nil)
		m.idemCache.EXPECT().
			Set(gomock.Any(), scopedKey, gomock.Any(), 15*time.Minute).
			DoAndReturn(func(_ context.Context, _ string, entry *IdempotencyRecord[domain.Order], _ time.Duration) error {
				if entry.State != IdempotencyDone || entry.Result == nil {
					t.Fatalf("expected completed entry, got %+v", entry)
				}
				return nil
			})

		if _, err := svc.CreateOrder(context.Background(), testOwner, "key-1", req); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("replay returns stored order", func(t *testing.T) {
		svc, m := setupOrderService(t)
		stored := &domain.Order{ID: "bbccddeeff112233aabbccdd", User: testOwner.ID}

		m.idemCache.EXPECT().SetNX(gomock.Any(), scopedKey, gomock.Any(), gomock.Any()).Return(false, nil)
		m.idemCache.EXPECT().Get(gomock.Any(), scopedKey).Return(&IdempotencyRecord[domain.Order]{
			State:       IdempotencyDone,
			Fingerprint: utils.Fingerprint(req),
			Result:      stored,
		}, nil)

		order, err := svc.CreateOrder(context.Background(), testOwner, "key-1", req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if order.ID != stored.ID {
			t.Fatalf("expected stored order, got %+v", order)
		}
	})

	t.Run("failure releases the key", func(t *testing.T) {
		svc, m := setupOrderService(t)

		m.idemCache.EXPECT().SetNX(gomock.Any(), scopedKey, gomock.Any(), gomock.Any()).Return(true, nil)
		m.productCache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
		m.productRepo.EXPECT().GetByID(gomock.Any(), productID).Return(nil, serviceerrors.NewNotFoundError("product not found"))
		m.idemCache.EXPECT().Del(gomock.Any(), scopedKey).Return(nil)

		if _, err := svc.CreateOrder(context.Background(), testOwner, "key-1", req); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
