package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	taxRate               = decimal.RequireFromString("0.15")
	freeShippingThreshold = decimal.NewFromInt(100)
	flatShippingPrice     = decimal.NewFromInt(10)
)

type OrderItem struct {
	Product ID
	Name    string
	Image   string
	Price   decimal.Decimal
	Qty     int
}

func NewOrderItem(product *Product, qty int) *OrderItem {
	return &OrderItem{
		Product: product.ID,
		Name:    product.Name,
		Image:   product.Image,
		Price:   product.Price,
		Qty:     qty,
	}
}

func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Qty)))
}

type ShippingAddress struct {
	Address    string
	City       string
	PostalCode string
	Country    string
}

type PaymentResult struct {
	ID           string
	Status       string
	UpdateTime   string
	EmailAddress string
}

type Order struct {
	ID              ID
	User            ID
	OrderItems      []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   string
	PaymentResult   *PaymentResult
	ItemsPrice      decimal.Decimal
	TaxPrice        decimal.Decimal
	ShippingPrice   decimal.Decimal
	TotalPrice      decimal.Decimal
	IsPaid          bool
	PaidAt          *time.Time
	IsDelivered     bool
	DeliveredAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderPrices holds the server-computed totals for a set of items.
type OrderPrices struct {
	Items    decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

func CalculatePrices(items []OrderItem) OrderPrices {
	itemsPrice := decimal.Zero
	for _, item := range items {
		itemsPrice = itemsPrice.Add(item.Subtotal())
	}
	itemsPrice = RoundPrice(itemsPrice)

	shipping := flatShippingPrice
	if itemsPrice.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := RoundPrice(itemsPrice.Mul(taxRate))

	return OrderPrices{
		Items:    itemsPrice,
		Tax:      tax,
		Shipping: shipping,
		Total:    RoundPrice(itemsPrice.Add(tax).Add(shipping)),
	}
}

func NewOrder(user ID, items []OrderItem, address ShippingAddress, paymentMethod string) *Order {
	prices := CalculatePrices(items)
	now := time.Now()
	return &Order{
		User:            user,
		OrderItems:      items,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      prices.Items,
		TaxPrice:        prices.Tax,
		ShippingPrice:   prices.Shipping,
		TotalPrice:      prices.Total,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (o *Order) MarkPaid(result PaymentResult, at time.Time) error {
	if o.IsPaid {
		return ErrAlreadyPaid
	}
	o.IsPaid = true
	o.PaidAt = &at
	o.PaymentResult = &result
	o.UpdatedAt = at
	return nil
}

func (o *Order) MarkDelivered(at time.Time) error {
	if o.IsDelivered {
		return ErrAlreadyDelivered
	}
	o.IsDelivered = true
	o.DeliveredAt = &at
	o.UpdatedAt = at
	return nil
}

type OrderCreatedEvent struct {
	OrderID    ID              `json:"order_id"`
	User       ID              `json:"user"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      int             `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (e *OrderCreatedEvent) GetName() string {
	return "order.created"
}

func (e *OrderCreatedEvent) GetEntityName() string {
	return "order"
}

func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		OrderID:    o.ID,
		User:       o.User,
		TotalPrice: o.TotalPrice,
		Items:      len(o.OrderItems),
		CreatedAt:  o.CreatedAt,
	}
}

// OrderStatusEvent is published when an order is paid or delivered.
type OrderStatusEvent struct {
	name      string
	OrderID   ID        `json:"order_id"`
	User      ID        `json:"user"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *OrderStatusEvent) GetName() string {
	return e.name
}

func (e *OrderStatusEvent) GetEntityName() string {
	return "order"
}

func NewOrderPaidEvent(o *Order) *OrderStatusEvent {
	return &OrderStatusEvent{name: "order.paid", OrderID: o.ID, User: o.User, UpdatedAt: o.UpdatedAt}
}

func NewOrderDeliveredEvent(o *Order) *OrderStatusEvent {
	return &OrderStatusEvent{name: "order.delivered", OrderID: o.ID, User: o.User, UpdatedAt: o.UpdatedAt}
}
