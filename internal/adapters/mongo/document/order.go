package document

import (
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderItemDocument struct {
	Product primitive.ObjectID   `bson:"product"`
	Name    string               `bson:"name"`
	Image   string               `bson:"image"`
	Price   primitive.Decimal128 `bson:"price"`
	Qty     int                  `bson:"qty"`
}

type ShippingAddressDocument struct {
	Address    string `bson:"address"`
	City       string `bson:"city"`
	PostalCode string `bson:"postal_code"`
	Country    string `bson:"country"`
}

type PaymentResultDocument struct {
	ID           string `bson:"id"`
	Status       string `bson:"status"`
	UpdateTime   string `bson:"update_time"`
	EmailAddress string `bson:"email_address"`
}

type OrderDocument struct {
	ID              primitive.ObjectID      `bson:"_id,omitempty"`
	User            primitive.ObjectID      `bson:"user"`
	OrderItems      []OrderItemDocument     `bson:"order_items"`
	ShippingAddress ShippingAddressDocument `bson:"shipping_address"`
	PaymentMethod   string                  `bson:"payment_method"`
	PaymentResult   *PaymentResultDocument  `bson:"payment_result,omitempty"`
	ItemsPrice      primitive.Decimal128    `bson:"items_price"`
	TaxPrice        primitive.Decimal128    `bson:"tax_price"`
	ShippingPrice   primitive.Decimal128    `bson:"shipping_price"`
	TotalPrice      primitive.Decimal128    `bson:"total_price"`
	IsPaid          bool                    `bson:"is_paid"`
	PaidAt          *time.Time              `bson:"paid_at,omitempty"`
	IsDelivered     bool                    `bson:"is_delivered"`
	DeliveredAt     *time.Time              `bson:"delivered_at,omitempty"`
	CreatedAt       time.Time               `bson:"created_at"`
	UpdatedAt       time.Time               `bson:"updated_at"`
}

func (doc OrderDocument) GetID() primitive.ObjectID {
	return doc.ID
}

func (doc *OrderDocument) ToDomain() *domain.Order {
	items := make([]domain.OrderItem, len(doc.OrderItems))
	for i, itemDoc := range doc.OrderItems {
		items[i] = domain.OrderItem{
			Product: domainID(itemDoc.Product),
			Name:    itemDoc.Name,
			Image:   itemDoc.Image,
			Price:   fromDecimal128(itemDoc.Price),
			Qty:     itemDoc.Qty,
		}
	}

	order := &domain.Order{
		ID:         domainID(doc.ID),
		User:       domainID(doc.User),
		OrderItems: items,
		ShippingAddress: domain.ShippingAddress{
			Address:    doc.ShippingAddress.Address,
			City:       doc.ShippingAddress.City,
			PostalCode: doc.ShippingAddress.PostalCode,
			Country:    doc.ShippingAddress.Country,
		},
		PaymentMethod: doc.PaymentMethod,
		ItemsPrice:    fromDecimal128(doc.ItemsPrice),
		TaxPrice:      fromDecimal128(doc.TaxPrice),
		ShippingPrice: fromDecimal128(doc.ShippingPrice),
		TotalPrice:    fromDecimal128(doc.TotalPrice),
		IsPaid:        doc.IsPaid,
		PaidAt:        doc.PaidAt,
		IsDelivered:   doc.IsDelivered,
		DeliveredAt:   doc.DeliveredAt,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}

	if doc.PaymentResult != nil {
		order.PaymentResult = &domain.PaymentResult{
			ID:           doc.PaymentResult.ID,
			Status:       doc.PaymentResult.Status,
			UpdateTime:   doc.PaymentResult.UpdateTime,
			EmailAddress: doc.PaymentResult.EmailAddress,
		}
	}

	return order
}

func ToOrderDocument(order *domain.Order) (*OrderDocument, error) {
	var prices priceEncoder
	items := make([]OrderItemDocument, len(order.OrderItems))
	for i, item := range order.OrderItems {
		items[i] = OrderItemDocument{
			Product: objectID(item.Product),
			Name:    item.Name,
			Image:   item.Image,
			Price:   prices.encode(item.Price),
			Qty:     item.Qty,
		}
	}

	doc := &OrderDocument{
		ID:         objectID(order.ID),
		User:       objectID(order.User),
		OrderItems: items,
		ShippingAddress: ShippingAddressDocument{
			Address:    order.ShippingAddress.Address,
			City:       order.ShippingAddress.City,
			PostalCode: order.ShippingAddress.PostalCode,
			Country:    order.ShippingAddress.Country,
		},
		PaymentMethod: order.PaymentMethod,
		ItemsPrice:    prices.encode(order.ItemsPrice),
		TaxPrice:      prices.encode(order.TaxPrice),
		ShippingPrice: prices.encode(order.ShippingPrice),
		TotalPrice:    prices.encode(order.TotalPrice),
		IsPaid:        order.IsPaid,
		PaidAt:        order.PaidAt,
		IsDelivered:   order.IsDelivered,
		DeliveredAt:   order.DeliveredAt,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}

	if order.PaymentResult != nil {
		doc.PaymentResult = &PaymentResultDocument{
			ID:           order.PaymentResult.ID,
			Status:       order.PaymentResult.Status,
			UpdateTime:   order.PaymentResult.UpdateTime,
			EmailAddress: order.PaymentResult.EmailAddress,
		}
	}

	if prices.err != nil {
		return nil, prices.err
	}
	return doc, nil
}
