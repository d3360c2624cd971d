package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PendingOrderStore stages a checkout plan between create-order and verify-payment,
// keyed by the Razorpay order id.
type PendingOrderStore interface {
	Put(ctx context.Context, razorpayOrderID string, plan *models.CheckoutPlan, ttl time.Duration) error
	Get(ctx context.Context, razorpayOrderID string) (*models.CheckoutPlan, error)
	Delete(ctx context.Context, razorpayOrderID string) error
}

type RedisPendingStore struct {
	client *redis.Client
	prefix string
}

func NewRedisPendingStore(client *redis.Client) *RedisPendingStore {
	return &RedisPendingStore{client: client, prefix: "pending-order:"}
}

func (s *RedisPendingStore) Put(ctx context.Context, id string, plan *models.CheckoutPlan, ttl time.Duration) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+id, payload, ttl).Err()
}

func (s *RedisPendingStore) Get(ctx context.Context, id string) (*models.CheckoutPlan, error) {
	payload, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPendingOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	var plan models.CheckoutPlan
	if err := json.Unmarshal(payload, &plan); err != nil {
		return nil, fmt.Errorf("decode pending order %s: %w", id, err)
	}
	return &plan, nil
}

func (s *RedisPendingStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.prefix+id).Err()
}

// DBPendingStore keeps staged plans in the pending_orders table. Expired rows are ignored
// on read and purged by the scheduler.
type DBPendingStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDBPendingStore(db *gorm.DB) *DBPendingStore {
	return &DBPendingStore{db: db, now: time.Now}
}

func (s *DBPendingStore) Put(ctx context.Context, id string, plan *models.CheckoutPlan, ttl time.Duration) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	row := models.PendingOrder{RazorpayOrderID: id, Payload: payload, ExpiresAt: s.now().Add(ttl)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "razorpay_order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
	}).Create(&row).Error
}

func (s *DBPendingStore) Get(ctx context.Context, id string) (*models.CheckoutPlan, error) {
	var row models.PendingOrder
	err := s.db.WithContext(ctx).
		Where("razorpay_order_id = ? AND expires_at > ?", id, s.now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPendingOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	var plan models.CheckoutPlan
	if err := json.Unmarshal(row.Payload, &plan); err != nil {
		return nil, fmt.Errorf("decode pending order %s: %w", id, err)
	}
	return &plan, nil
}

func (s *DBPendingStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("razorpay_order_id = ?", id).Delete(&models.PendingOrder{}).Error
}
