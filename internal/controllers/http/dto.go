package http

import "shop-backend/internal/services"

type CreateOrderRequest struct {
	Lines          []services.RequestedLine `json:"lines" binding:"required"`
	PaymentMethod  string                   `json:"paymentMethod" binding:"required"`
	PaymentStatus  string                   `json:"paymentStatus"`
	DeliveryCharge int64                    `json:"deliveryCharge"`
	CustomerName   string                   `json:"customerName" binding:"required"`
	CustomerEmail  string                   `json:"customerEmail"`
	CustomerPhone  string                   `json:"customerPhone"`
}

type CreateOrderResponse struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
}

type VerifyPaymentRequest struct {
	Decision string `json:"decision" binding:"required"`
	Reason   string `json:"reason"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CancelOrderRequest struct {
	Actor  string `json:"actor" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}
