package domain

import "time"

type OrderStatus string

const (
	StatusPendingVerification OrderStatus = "pending_verification"
	StatusOrderPlaced         OrderStatus = "order_placed"
	StatusProcessing          OrderStatus = "processing"
	StatusShipped             OrderStatus = "shipped"
	StatusOutForDelivery      OrderStatus = "out_for_delivery"
	StatusDelivered           OrderStatus = "delivered"
	StatusCancelled           OrderStatus = "cancelled"
	StatusPaymentRejected     OrderStatus = "payment_rejected"
)

var validStatuses = map[OrderStatus]bool{
	StatusPendingVerification: true,
	StatusOrderPlaced:         true,
	StatusProcessing:          true,
	StatusShipped:             true,
	StatusOutForDelivery:      true,
	StatusDelivered:           true,
	StatusCancelled:           true,
	StatusPaymentRejected:     true,
}

func ValidStatus(s OrderStatus) bool {
	return validStatuses[s]
}

// Terminal statuses admit no further transition.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusPaymentRejected
}

// forwardTransitions is the delivery pipeline; Cancelled is handled separately
// because any non-terminal status may move there.
var forwardTransitions = map[OrderStatus]OrderStatus{
	StatusOrderPlaced:    StatusProcessing,
	StatusProcessing:     StatusShipped,
	StatusShipped:        StatusOutForDelivery,
	StatusOutForDelivery: StatusDelivered,
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return forwardTransitions[s] == next
}

type PaymentMethod string

const (
	PaymentCOD    PaymentMethod = "cod"
	PaymentOnline PaymentMethod = "online"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	return m == PaymentCOD || m == PaymentOnline
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentVerified PaymentStatus = "verified"
	PaymentRejected PaymentStatus = "rejected"
)

type CancelActor string

const (
	CancelledByUser  CancelActor = "user"
	CancelledByAdmin CancelActor = "admin"
)

// OrderLine is a snapshot taken at placement time. ProductID is nil for
// promotion-sourced lines that never resolved against the catalogue, so the
// order stays readable even if the product is later renamed or deleted.
type OrderLine struct {
	ProductID     *uint64 `json:"productId,omitempty"`
	Name          string  `json:"name"`
	UnitPrice     int64   `json:"unitPrice"`
	Quantity      int64   `json:"quantity"`
	FromPromotion bool    `json:"fromPromotion,omitempty"`
}

type Order struct {
	ID             uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Lines          []OrderLine `json:"lines" gorm:"serializer:json;not null"`
	TotalAmount    int64       `json:"totalAmount" gorm:"not null"`
	DeliveryCharge int64       `json:"deliveryCharge"`
	CustomerName   string      `json:"customerName" gorm:"not null"`
	CustomerEmail  string      `json:"customerEmail"`
	CustomerPhone  string      `json:"customerPhone"`

	Status        OrderStatus   `json:"status" gorm:"type:varchar(32);not null;index"`
	PaymentMethod PaymentMethod `json:"paymentMethod" gorm:"type:varchar(16);not null"`
	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"type:varchar(16);not null"`

	// InventoryCommitted is true iff stock has actually been decremented for
	// this order's lines. It is the only guard against double commit and
	// double release; never derive it from Status.
	InventoryCommitted bool `json:"inventoryCommitted"`

	CancelReason string      `json:"cancelReason,omitempty"`
	CancelledBy  CancelActor `json:"cancelledBy,omitempty" gorm:"type:varchar(16)"`

	PlacedAt    time.Time  `json:"placedAt" gorm:"autoCreateTime"`
	VerifiedAt  *time.Time `json:"verifiedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`

	// Version backs the optimistic CAS in the repositories.
	Version uint64 `json:"-" gorm:"not null;default:1"`
}

// Cancellable reports whether the order may still be cancelled by a user or
// admin. Orders already handed to delivery are not.
func (o *Order) Cancellable() bool {
	switch o.Status {
	case StatusShipped, StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return false
	}
	return true
}
