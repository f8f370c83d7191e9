package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type DeliveryMethod string

const (
	DeliveryShipping DeliveryMethod = "shipping"
	DeliveryPickup   DeliveryMethod = "pickup"
)

// ParseDeliveryMethod accepts "shipping" or "pickup" in any case.
func ParseDeliveryMethod(s string) (DeliveryMethod, error) {
	switch DeliveryMethod(strings.ToLower(strings.TrimSpace(s))) {
	case DeliveryShipping:
		return DeliveryShipping, nil
	case DeliveryPickup:
		return DeliveryPickup, nil
	}

	return "", fmt.Errorf("unknown delivery method %q", s)
}

var (
	DefaultFlatFee       = decimal.RequireFromString("4.50")
	DefaultFreeThreshold = decimal.RequireFromString("40")
)

// Policy is the shipping policy shared by cart display and the authoritative charge.
type Policy struct {
	FlatFee       decimal.Decimal
	FreeThreshold decimal.Decimal
}

func DefaultPolicy() Policy {
	return Policy{FlatFee: DefaultFlatFee, FreeThreshold: DefaultFreeThreshold}
}

// NewPolicy builds a policy from configured amounts, falling back to the defaults for zero values.
func NewPolicy(flatFee, freeThreshold float64) Policy {
	p := DefaultPolicy()

	if flatFee > 0 {
		p.FlatFee = decimal.NewFromFloat(flatFee).Round(2)
	}

	if freeThreshold > 0 {
		p.FreeThreshold = decimal.NewFromFloat(freeThreshold).Round(2)
	}

	return p
}

// ShippingCost is zero for pickup and for subtotals strictly above the free threshold.
func (p Policy) ShippingCost(subtotal decimal.Decimal, method DeliveryMethod) decimal.Decimal {
	if method == DeliveryPickup {
		return decimal.Zero
	}

	if subtotal.GreaterThan(p.FreeThreshold) {
		return decimal.Zero
	}

	return p.FlatFee
}

type Quote struct {
	DeliveryMethod           DeliveryMethod  `json:"delivery_method"`
	Subtotal                 decimal.Decimal `json:"subtotal"`
	Shipping                 decimal.Decimal `json:"shipping"`
	Total                    decimal.Decimal `json:"total"`
	RemainingForFreeShipping decimal.Decimal `json:"remaining_for_free_shipping"`
}

func (p Policy) Quote(subtotal decimal.Decimal, method DeliveryMethod) Quote {
	shipping := p.ShippingCost(subtotal, method)

	remaining := decimal.Zero
	if method == DeliveryShipping && !subtotal.GreaterThan(p.FreeThreshold) {
		remaining = p.FreeThreshold.Sub(subtotal)
	}

	return Quote{
		DeliveryMethod:           method,
		Subtotal:                 subtotal,
		Shipping:                 shipping,
		Total:                    subtotal.Add(shipping),
		RemainingForFreeShipping: remaining,
	}
}

// ShippingCost applies the default policy.
func ShippingCost(subtotal decimal.Decimal, method DeliveryMethod) decimal.Decimal {
	return DefaultPolicy().ShippingCost(subtotal, method)
}

func Total(subtotal decimal.Decimal, method DeliveryMethod) decimal.Decimal {
	return subtotal.Add(ShippingCost(subtotal, method))
}

var hundred = decimal.NewFromInt(100)

// ToMinorUnits converts an amount to cents, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

func FromMinorUnits(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
