package services

import (
	"fmt"
	"time"

	"github.com/Kariqs/marketplace-api/models"
	"gorm.io/gorm"
)

// InvalidTransitionError carries the statuses the order may move to instead.
type InvalidTransitionError struct {
	From    string
	To      string
	Allowed []string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot change order status from %q to %q", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return models.ErrInvalidTransition }

// ChangeOrderStatus applies one status transition and its effects: history entry, payment
// status, stock restoration on cancel or return, and the seller's revenue.
func ChangeOrderStatus(db *gorm.DB, orderID uint, to, actor, note string, now time.Time) (*models.Order, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			return err
		}
		if err := models.CheckTransition(order.Status, to); err != nil {
			return &InvalidTransitionError{From: order.Status, To: to, Allowed: models.AllowedTransitions(order.Status)}
		}

		updates := map[string]any{"status": to}
		switch to {
		case models.StatusDelivered:
			updates["delivered_at"] = now
			if order.PaymentStatus != models.PaymentCompleted {
				updates["payment_status"] = models.PaymentCompleted
			}
		case models.StatusCancelled, models.StatusReturned:
			updates["payment_status"] = models.PaymentFailed
			if to == models.StatusCancelled {
				updates["cancelled_at"] = now
			}
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, order.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}

		event := models.OrderStatusEvent{OrderID: order.ID, Status: to, ChangedBy: actor, Note: note}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		if to == models.StatusCancelled || to == models.StatusReturned {
			for _, it := range order.Items {
				if err := RestoreStock(tx, it.ProductID, it.Quantity); err != nil {
					return err
				}
			}
		}
		return RecomputeSellerRevenue(tx, order.SellerID)
	})
	if err != nil {
		return nil, err
	}
	return LoadOrder(db, orderID)
}

// CancelByUser lets a shopper cancel their own order while it has not shipped and the
// cancellation window is still open.
func CancelByUser(db *gorm.DB, userID, orderID uint, window time.Duration, now time.Time) (*models.Order, error) {
	var order models.Order
	if err := db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error; err != nil {
		return nil, err
	}
	if order.Status != models.StatusConfirmed && order.Status != models.StatusProcessing {
		return nil, &InvalidTransitionError{From: order.Status, To: models.StatusCancelled}
	}
	if now.Sub(order.CreatedAt) > window {
		return nil, models.ErrCancelWindowElapsed
	}
	return ChangeOrderStatus(db, order.ID, models.StatusCancelled, "user", "cancelled by customer", now)
}

func LoadOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	err := db.Preload("Items").
		Preload("StatusHistory", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

type OrderFilter struct {
	UserID   uint
	SellerID uint
	Status   string
	Page     int
	Limit    int
}

func ListOrders(db *gorm.DB, f OrderFilter) ([]models.Order, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	q := db.Model(&models.Order{})
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.SellerID != 0 {
		q = q.Where("seller_id = ?", f.SellerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []models.Order
	err := q.Preload("Items").
		Order("created_at DESC").Order("id DESC").
		Limit(f.Limit).Offset((f.Page - 1) * f.Limit).
		Find(&orders).Error
	return orders, total, err
}
