package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/malaura/storefront/internal/loyalty"
	"github.com/malaura/storefront/internal/pricing"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
)

// PickupMarker is stored as the shipping address of in-store pickup orders.
const PickupMarker = "RECOGIDA EN TIENDA"

type Order struct {
	ID              int64                  `json:"id"`
	UserID          uuid.UUID              `json:"user_id"`
	CustomerName    string                 `json:"customer_name"`
	CustomerEmail   string                 `json:"customer_email"`
	ShippingAddress string                 `json:"shipping_address"`
	DeliveryMethod  pricing.DeliveryMethod `json:"delivery_method"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	ShippingCost    decimal.Decimal        `json:"shipping_cost"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	PaymentIntentID string                 `json:"stripe_payment_intent_id"`
	Status          OrderStatus            `json:"status"`
	CreatedAt       time.Time              `json:"created_at"`
	Items           []OrderItem            `json:"items"`
}

type OrderItem struct {
	ID           int64           `json:"id"`
	OrderID      int64           `json:"order_id"`
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name,omitempty"`
	ImageURL     string          `json:"image_url,omitempty"`
	Quantity     int             `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Color        string          `json:"color,omitempty"`
	Finish       string          `json:"finish,omitempty"`
}

type RewardProgress struct {
	PaidOrders         int `json:"paid_orders"`
	RewardsEarned      int `json:"rewards_earned"`
	OrdersToNextReward int `json:"orders_to_next_reward"`
	RewardInterval     int `json:"reward_interval"`
}

func NewRewardProgress(paidOrders int) RewardProgress {
	return RewardProgress{
		PaidOrders:         paidOrders,
		RewardsEarned:      loyalty.RewardsEarned(paidOrders),
		OrdersToNextReward: loyalty.OrdersToNextReward(paidOrders),
		RewardInterval:     loyalty.RewardInterval,
	}
}

type OrderHistory struct {
	Orders   []Order        `json:"orders"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Rewards  RewardProgress `json:"rewards"`
}
