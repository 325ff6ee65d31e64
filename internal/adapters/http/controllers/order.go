package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/http/handlers"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/http/middleware"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/dto"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/service"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/serviceerrors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderController struct {
	orderService *service.OrderService
}

type OrderItemResponse struct {
	Name    string      `json:"name"`
	Qty     int         `json:"qty"`
	Image   string      `json:"image"`
	Price   json.Number `json:"price"`
	Product string      `json:"product"`
}

type ShippingAddressResponse struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type PaymentResultResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type OrderResponse struct {
	ID              string                  `json:"_id"`
	User            string                  `json:"user"`
	OrderItems      []OrderItemResponse     `json:"orderItems"`
	ShippingAddress ShippingAddressResponse `json:"shippingAddress"`
	PaymentMethod   string                  `json:"paymentMethod"`
	PaymentResult   *PaymentResultResponse  `json:"paymentResult,omitempty"`
	ItemsPrice      json.Number             `json:"itemsPrice"`
	TaxPrice        json.Number             `json:"taxPrice"`
	ShippingPrice   json.Number             `json:"shippingPrice"`
	TotalPrice      json.Number             `json:"totalPrice"`
	IsPaid          bool                    `json:"isPaid"`
	PaidAt          *time.Time              `json:"paidAt,omitempty"`
	IsDelivered     bool                    `json:"isDelivered"`
	DeliveredAt     *time.Time              `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

func price(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

func NewOrderResponse(order *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.OrderItems))
	for i, item := range order.OrderItems {
		items[i] = OrderItemResponse{
			Name:    item.Name,
			Qty:     item.Qty,
			Image:   item.Image,
			Price:   json.Number(item.Price.String()),
			Product: string(item.Product),
		}
	}

	response := OrderResponse{
		ID:         string(order.ID),
		User:       string(order.User),
		OrderItems: items,
		ShippingAddress: ShippingAddressResponse{
			Address:    order.ShippingAddress.Address,
			City:       order.ShippingAddress.City,
			PostalCode: order.ShippingAddress.PostalCode,
			Country:    order.ShippingAddress.Country,
		},
		PaymentMethod: order.PaymentMethod,
		ItemsPrice:    price(order.ItemsPrice),
		TaxPrice:      price(order.TaxPrice),
		ShippingPrice: price(order.ShippingPrice),
		TotalPrice:    price(order.TotalPrice),
		IsPaid:        order.IsPaid,
		PaidAt:        order.PaidAt,
		IsDelivered:   order.IsDelivered,
		DeliveredAt:   order.DeliveredAt,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
	if order.PaymentResult != nil {
		response.PaymentResult = &PaymentResultResponse{
			ID:           order.PaymentResult.ID,
			Status:       order.PaymentResult.Status,
			UpdateTime:   order.PaymentResult.UpdateTime,
			EmailAddress: order.PaymentResult.EmailAddress,
		}
	}
	return response
}

func NewOrderResponses(orders []*domain.Order) []OrderResponse {
	response := make([]OrderResponse, len(orders))
	for i, order := range orders {
		response[i] = NewOrderResponse(order)
	}
	return response
}

func NewOrderController(orderService *service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// CreateOrder godoc
// @Summary     Create an order
// @Description Prices items from the catalog, deducts stock and supports idempotent retries
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       Idempotency-Key header   string                 false "Idempotency key"
// @Param       request         body     dto.CreateOrderRequest true  "Order data"
// @Success     201             {object} OrderResponse
// @Failure     400             {object} handlers.ErrorResponse
// @Failure     404             {object} handlers.ErrorResponse
// @Failure     409             {object} handlers.ErrorResponse
// @Failure     422             {object} handlers.ErrorResponse
// @Failure     429             {object} handlers.ErrorResponse
// @Router      /api/orders [post]
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var request dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}
	idempotencyKey := c.GetHeader("Idempotency-Key")
	order, err := oc.orderService.CreateOrder(c.Request.Context(), middleware.CallerFrom(c), idempotencyKey, &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewOrderResponse(order))
}

// GetMyOrders godoc
// @Summary     Orders of the current user
// @Tags        orders
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} OrderResponse
// @Router      /api/orders/myorders [get]
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	orders, err := oc.orderService.GetMyOrders(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewOrderResponses(orders))
}

// GetOrders godoc
// @Summary     All orders
// @Tags        orders
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} OrderResponse
// @Router      /api/orders [get]
func (oc *OrderController) GetOrders(c *gin.Context) {
	orders, err := oc.orderService.GetAll(c.Request.Context())
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewOrderResponses(orders))
}

// GetOrderByID godoc
// @Summary     Get order by ID
// @Tags        orders
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string true "Order ID"
// @Success     200 {object} OrderResponse
// @Failure     403 {object} handlers.ErrorResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Router      /api/orders/{id} [get]
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	order, err := oc.orderService.GetOrderByID(c.Request.Context(), middleware.CallerFrom(c), domain.ID(c.Param("id")))
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewOrderResponse(order))
}

// PayOrder godoc
// @Summary     Mark an order as paid
// @Tags        orders
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path     string                   true "Order ID"
// @Param       request body     dto.PaymentResultRequest true "Payment provider result"
// @Success     200     {object} OrderResponse
// @Failure     404     {object} handlers.ErrorResponse
// @Failure     422     {object} handlers.ErrorResponse
// @Router      /api/orders/{id}/pay [put]
func (oc *OrderController) PayOrder(c *gin.Context) {
	var request dto.PaymentResultRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}
	order, err := oc.orderService.PayOrder(c.Request.Context(), middleware.CallerFrom(c), domain.ID(c.Param("id")), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewOrderResponse(order))
}

// DeliverOrder godoc
// @Summary     Mark an order as delivered
// @Tags        orders
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string true "Order ID"
// @Success     200 {object} OrderResponse
// @Failure     404 {object} handlers.ErrorResponse
// @Failure     422 {object} handlers.ErrorResponse
// @Router      /api/orders/{id}/deliver [put]
func (oc *OrderController) DeliverOrder(c *gin.Context) {
	order, err := oc.orderService.DeliverOrder(c.Request.Context(), domain.ID(c.Param("id")))
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewOrderResponse(order))
}
