package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentOnline = "online"
	PaymentCOD    = "cod"

	PaymentPending   = "pending"
	PaymentPartial   = "partial"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// PaymentClaim marks a Razorpay order as consumed. Its unique key lets only one
// transaction persist orders for a given payment.
type PaymentClaim struct {
	ID              uint      `gorm:"primaryKey"`
	RazorpayOrderID string    `gorm:"size:50;uniqueIndex;not null"`
	CreatedAt       time.Time
}

type Order struct {
	Base
	OrderNumber       string             `gorm:"size:40;uniqueIndex;not null" json:"orderNumber"`
	UserID            uint               `gorm:"index;not null" json:"userId"`
	User              *User              `json:"user,omitempty"`
	SellerID          uint               `gorm:"index;not null" json:"sellerId"`
	Seller            *Seller            `json:"seller,omitempty"`
	Items             []OrderItem        `json:"items"`
	StatusHistory     []OrderStatusEvent `json:"statusHistory"`
	ShippingAddress   ShippingAddress    `gorm:"embedded;embeddedPrefix:ship_" json:"shippingAddress"`
	Status            string             `gorm:"size:30;not null;index" json:"status"`
	PaymentMethod     string             `gorm:"size:10;not null" json:"paymentMethod"`
	PaymentStatus     string             `gorm:"size:20;not null" json:"paymentStatus"`
	RazorpayOrderID   string             `gorm:"size:50;index" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string             `gorm:"size:50" json:"razorpayPaymentId,omitempty"`
	Subtotal          float64            `json:"subtotal"`
	ShippingCharge    float64            `json:"shippingCharge"`
	Total             float64            `json:"total"`
	OnlineAmount      float64            `json:"onlineAmount"`
	CODAmount         float64            `gorm:"column:cod_amount" json:"codAmount"`
	DeliveredAt       *time.Time         `json:"deliveredAt,omitempty"`
	CancelledAt       *time.Time         `json:"cancelledAt,omitempty"`
}

// OrderItem is a snapshot of the product at order time.
type OrderItem struct {
	Base
	OrderID                 uint    `gorm:"index;not null" json:"orderId"`
	ProductID               uint    `gorm:"index;not null" json:"productId"`
	Name                    string  `gorm:"size:200;not null" json:"name"`
	Image                   string  `gorm:"size:500" json:"image"`
	Size                    string  `gorm:"size:10" json:"size"`
	Color                   string  `gorm:"size:30" json:"color"`
	Price                   float64 `json:"price"`
	DiscountedPrice         float64 `json:"discountedPrice"`
	Quantity                int     `gorm:"not null" json:"quantity"`
	OnlinePaymentPercentage float64 `json:"onlinePaymentPercentage"`
	LineTotal               float64 `json:"lineTotal"`
	OnlineAmount            float64 `json:"onlineAmount"`
	CODAmount               float64 `gorm:"column:cod_amount" json:"codAmount"`
}

type OrderStatusEvent struct {
	Base
	OrderID   uint   `gorm:"index;not null" json:"orderId"`
	Status    string `gorm:"size:30;not null" json:"status"`
	ChangedBy string `gorm:"size:50" json:"changedBy"`
	Note      string `gorm:"size:255" json:"note,omitempty"`
}

type ShippingAddress struct {
	Name     string `gorm:"size:100" json:"name"`
	Phone    string `gorm:"size:20" json:"phone"`
	Line1    string `gorm:"size:255" json:"line1"`
	Line2    string `gorm:"size:255" json:"line2"`
	Landmark string `gorm:"size:150" json:"landmark"`
	City     string `gorm:"size:100" json:"city"`
	State    string `gorm:"size:100" json:"state"`
	Pincode  string `gorm:"size:10" json:"pincode"`
}

// BeforeSave recomputes the totals whenever the items are loaded.
func (o *Order) BeforeSave(tx *gorm.DB) error {
	if len(o.Items) > 0 {
		o.RecalculateTotals()
	}
	return nil
}

// RecalculateTotals derives subtotal, total and the online/COD split from the items.
// Shipping is collected with the online portion on prepaid orders and on delivery otherwise.
func (o *Order) RecalculateTotals() {
	var subtotal, online float64
	for _, it := range o.Items {
		subtotal += it.LineTotal
		online += it.OnlineAmount
	}
	if o.PaymentMethod == PaymentOnline {
		online += o.ShippingCharge
	}
	o.Subtotal = RoundMoney(subtotal)
	o.Total = RoundMoney(subtotal + o.ShippingCharge)
	o.OnlineAmount = RoundMoney(online)
	o.CODAmount = RoundMoney(o.Total - o.OnlineAmount)
}
