package services

import (
	"errors"
	"fmt"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/utils"
	"gorm.io/gorm"
)

type CheckoutRequest struct {
	AddressID     uint                 `json:"addressId" binding:"required"`
	PaymentMethod string               `json:"paymentMethod" binding:"required,oneof=online cod"`
	Items         []models.ItemRequest `json:"items" binding:"omitempty,dive"`
}

// PrepareCheckout resolves the request's lines (the cart when no items are given) and
// builds the per-seller plan. Nothing is written.
func PrepareCheckout(db *gorm.DB, userID uint, req CheckoutRequest, rule models.ShippingRule) (*models.CheckoutPlan, error) {
	var address models.Address
	if err := db.Where("id = ? AND user_id = ?", req.AddressID, userID).First(&address).Error; err != nil {
		return nil, fmt.Errorf("address: %w", err)
	}

	fromCart := len(req.Items) == 0
	items := models.MergeItems(req.Items)
	if fromCart {
		cart, err := ListCart(db, userID)
		if err != nil {
			return nil, err
		}
		for _, c := range cart {
			items = append(items, models.ItemRequest{
				LineKey:  models.LineKey{ProductID: c.ProductID, Size: c.Size, Color: c.Color},
				Quantity: c.Quantity,
			})
		}
	}
	if len(items) == 0 {
		return nil, models.ErrEmptyCheckout
	}

	lines := make([]models.CheckoutLine, 0, len(items))
	for _, it := range items {
		p, err := requirePublicProduct(db, it.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, models.CheckoutLine{Product: *p, Size: it.Size, Color: it.Color, Quantity: it.Quantity})
	}

	plan, err := models.BuildCheckoutPlan(userID, req.PaymentMethod, address.Snapshot(), lines, rule)
	if err != nil {
		return nil, err
	}
	plan.FromCart = fromCart
	return plan, nil
}

// PersistPlan writes every seller order of the plan, decrements stock and clears the cart
// when the plan came from it, all in one transaction. razorpayOrderID and paymentID are
// empty for cash-on-delivery checkouts.
func PersistPlan(db *gorm.DB, plan *models.CheckoutPlan, razorpayOrderID, paymentID string) ([]models.Order, error) {
	orders := make([]models.Order, len(plan.Orders))
	copy(orders, plan.Orders)

	err := db.Transaction(func(tx *gorm.DB) error {
		if razorpayOrderID != "" {
			if err := claimPayment(tx, razorpayOrderID); err != nil {
				return err
			}
		}
		sellers := make(map[uint]bool)
		for i := range orders {
			o := &orders[i]
			o.ID = 0
			o.UserID = plan.UserID
			o.OrderNumber = utils.NewOrderNumber()
			o.Status = models.StatusConfirmed
			o.RazorpayOrderID = razorpayOrderID
			o.RazorpayPaymentID = paymentID
			o.PaymentStatus = initialPaymentStatus(o, paymentID)
			o.StatusHistory = []models.OrderStatusEvent{{Status: models.StatusConfirmed, ChangedBy: "system"}}
			o.Items = append([]models.OrderItem(nil), o.Items...)
			for j := range o.Items {
				o.Items[j].ID = 0
			}

			if err := tx.Create(o).Error; err != nil {
				return err
			}
			for _, it := range o.Items {
				if err := DecrementStock(tx, it.ProductID, it.Quantity); err != nil {
					return fmt.Errorf("%w: %s", err, it.Name)
				}
			}
			sellers[o.SellerID] = true
		}

		if plan.FromCart {
			if err := tx.Where("user_id = ?", plan.UserID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}
		if razorpayOrderID != "" {
			if err := tx.Where("razorpay_order_id = ?", razorpayOrderID).Delete(&models.PendingOrder{}).Error; err != nil {
				return err
			}
		}
		for sellerID := range sellers {
			if err := RecomputeSellerRevenue(tx, sellerID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// claimPayment inserts the payment's claim row. A second claim for the same Razorpay
// order fails on the unique key and rolls the caller's transaction back.
func claimPayment(tx *gorm.DB, razorpayOrderID string) error {
	err := tx.Create(&models.PaymentClaim{RazorpayOrderID: razorpayOrderID}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrPaymentAlreadyUsed
	}
	return err
}

func initialPaymentStatus(o *models.Order, paymentID string) string {
	if paymentID == "" || o.OnlineAmount == 0 {
		return models.PaymentPending
	}
	if o.CODAmount > 0 {
		return models.PaymentPartial
	}
	return models.PaymentCompleted
}

// DecrementStock takes quantity units in a single conditional update so concurrent
// checkouts can never drive stock negative.
func DecrementStock(tx *gorm.DB, productID uint, quantity int) error {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrInsufficientStock
	}
	return nil
}

func RestoreStock(tx *gorm.DB, productID uint, quantity int) error {
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity)).Error
}

// OrdersForPayment returns the orders already persisted for a Razorpay order, so a
// repeated verify-payment call is answered without creating duplicates.
func OrdersForPayment(db *gorm.DB, userID uint, razorpayOrderID string) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("Items").
		Where("razorpay_order_id = ? AND user_id = ?", razorpayOrderID, userID).
		Order("id ASC").
		Find(&orders).Error
	return orders, err
}
