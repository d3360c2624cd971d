package models

import "fmt"

// CheckoutLine is a product resolved from the cart or from an ad-hoc item list.
type CheckoutLine struct {
	Product  Product
	Size     string
	Color    string
	Quantity int
}

// ShippingRule charges a flat fee per checkout, waived above a threshold.
type ShippingRule struct {
	Charge    float64
	FreeAbove float64
}

func (r ShippingRule) ChargeFor(subtotal float64) float64 {
	if subtotal <= 0 {
		return 0
	}
	if r.FreeAbove > 0 && subtotal >= r.FreeAbove {
		return 0
	}
	return r.Charge
}

// CheckoutPlan is one checkout split into one draft order per seller. It is what gets
// staged while an online payment is outstanding.
type CheckoutPlan struct {
	UserID        uint    `json:"userId"`
	PaymentMethod string  `json:"paymentMethod"`
	FromCart      bool    `json:"fromCart"`
	Orders        []Order `json:"orders"`
}

func (p *CheckoutPlan) OnlineAmount() float64 {
	var v float64
	for _, o := range p.Orders {
		v += o.OnlineAmount
	}
	return RoundMoney(v)
}

func (p *CheckoutPlan) Total() float64 {
	var v float64
	for _, o := range p.Orders {
		v += o.Total
	}
	return RoundMoney(v)
}

// BuildCheckoutPlan groups lines by seller in first-seen order, snapshots every item and
// splits the checkout's shipping charge across sellers in proportion to their subtotal.
func BuildCheckoutPlan(userID uint, method string, address ShippingAddress, lines []CheckoutLine, rule ShippingRule) (*CheckoutPlan, error) {
	if method != PaymentOnline && method != PaymentCOD {
		return nil, ErrInvalidPaymentMode
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCheckout
	}

	plan := &CheckoutPlan{UserID: userID, PaymentMethod: method}
	bySeller := make(map[uint]int)
	var subtotal float64

	for _, line := range lines {
		item, err := snapshotLine(line, method)
		if err != nil {
			return nil, err
		}
		i, ok := bySeller[line.Product.SellerID]
		if !ok {
			i = len(plan.Orders)
			bySeller[line.Product.SellerID] = i
			plan.Orders = append(plan.Orders, Order{
				UserID:          userID,
				SellerID:        line.Product.SellerID,
				ShippingAddress: address,
				Status:          StatusConfirmed,
				PaymentMethod:   method,
				PaymentStatus:   PaymentPending,
			})
		}
		plan.Orders[i].Items = append(plan.Orders[i].Items, item)
		subtotal += item.LineTotal
	}

	shipping := rule.ChargeFor(RoundMoney(subtotal))
	var allocated float64
	for i := range plan.Orders {
		o := &plan.Orders[i]
		o.RecalculateTotals()
		if i == len(plan.Orders)-1 {
			o.ShippingCharge = RoundMoney(shipping - allocated)
		} else {
			o.ShippingCharge = RoundMoney(shipping * o.Subtotal / subtotal)
			allocated += o.ShippingCharge
		}
		o.RecalculateTotals()
	}
	return plan, nil
}

func snapshotLine(line CheckoutLine, method string) (OrderItem, error) {
	p := line.Product
	if line.Quantity < 1 {
		return OrderItem{}, ErrInvalidQuantity
	}
	if p.Status != ProductEnabled {
		return OrderItem{}, fmt.Errorf("%w: %s", ErrProductUnavailable, p.Name)
	}
	if !p.Offers(line.Size, line.Color) {
		return OrderItem{}, fmt.Errorf("%w: %s", ErrInvalidVariant, p.Name)
	}
	if p.Stock < line.Quantity {
		return OrderItem{}, fmt.Errorf("%w: %s", ErrInsufficientStock, p.Name)
	}

	pct := p.OnlinePaymentPercentage
	if method == PaymentOnline || !p.CODAvailable {
		pct = 100
	}
	unit := DiscountedPrice(p.Price, p.Discount, p.DiscountPercentage)
	lineTotal := RoundMoney(unit * float64(line.Quantity))
	online := RoundMoney(lineTotal * pct / 100)

	var image string
	if len(p.Images) > 0 {
		image = p.Images[0].URL
	}
	return OrderItem{
		ProductID:               p.ID,
		Name:                    p.Name,
		Image:                   image,
		Size:                    line.Size,
		Color:                   line.Color,
		Price:                   p.Price,
		DiscountedPrice:         unit,
		Quantity:                line.Quantity,
		OnlinePaymentPercentage: pct,
		LineTotal:               lineTotal,
		OnlineAmount:            online,
		CODAmount:               RoundMoney(lineTotal - online),
	}, nil
}
