package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/testutil"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var rule = models.ShippingRule{Charge: 40, FreeAbove: 500}

func TestCheckoutFromCartSplitsBySeller(t *testing.T) {
	db := testutil.NewDB(t)
	category := createCategory(t, db)
	s1 := createSeller(t, db, models.SellerEnabled)
	s2 := createSeller(t, db, models.SellerEnabled)
	p1 := createProduct(t, db, s1, category, 100, 10)
	p2 := createProduct(t, db, s2, category, 90, 5)
	user, addr := createUser(t, db)

	_, err := AddToCart(db, user.ID, item(p1.ID, "M", "Red", 2))
	require.NoError(t, err)
	_, err = AddToCart(db, user.ID, item(p2.ID, "L", "Red", 1))
	require.NoError(t, err)

	plan, err := PrepareCheckout(db, user.ID, CheckoutRequest{AddressID: addr.ID, PaymentMethod: models.PaymentCOD}, rule)
	require.NoError(t, err)
	assert.True(t, plan.FromCart)
	require.Len(t, plan.Orders, 2)

	orders, err := PersistPlan(db, plan, "", "")
	require.NoError(t, err)
	require.Len(t, orders, 2)

	var sum float64
	for _, o := range orders {
		var itemsTotal float64
		for _, it := range o.Items {
			itemsTotal += it.LineTotal
		}
		assert.InDelta(t, itemsTotal+o.ShippingCharge, o.Total, 0.001)
		assert.Equal(t, models.PaymentPending, o.PaymentStatus)
		assert.NotEmpty(t, o.OrderNumber)
		sum += o.Total
	}
	assert.InDelta(t, 330.0, sum, 0.001)

	var count int64
	db.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 2, count)

	assert.Equal(t, 8, reloadProduct(t, db, p1.ID).Stock)
	assert.Equal(t, 4, reloadProduct(t, db, p2.ID).Stock)
	cart, _ := ListCart(db, user.ID)
	assert.Empty(t, cart)

	rev := reloadSeller(t, db, s1.ID).Revenue
	assert.InDelta(t, orders[0].Total, rev.Total, 0.001)
	assert.InDelta(t, orders[0].Total, rev.PendingCOD, 0.001)
	assert.Zero(t, rev.COD)
}

func TestCheckoutItemsLeaveCartAlone(t *testing.T) {
	db := testutil.NewDB(t)
	p := createProduct(t, db, createSeller(t, db, models.SellerEnabled), createCategory(t, db), 100, 10)
	user, addr := createUser(t, db)
	_, err := AddToCart(db, user.ID, item(p.ID, "M", "Red", 1))
	require.NoError(t, err)

	plan, err := PrepareCheckout(db, user.ID, CheckoutRequest{
		AddressID:     addr.ID,
		PaymentMethod: models.PaymentOnline,
		Items:         []models.ItemRequest{item(p.ID, "L", "Red", 1)},
	}, rule)
	require.NoError(t, err)
	assert.False(t, plan.FromCart)
	assert.InDelta(t, 140.0, plan.OnlineAmount(), 0.001)

	orders, err := PersistPlan(db, plan, "order_1", "pay_1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, orders[0].PaymentStatus)

	cart, _ := ListCart(db, user.ID)
	assert.Len(t, cart, 1)

	again, err := OrdersForPayment(db, user.ID, "order_1")
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, orders[0].ID, again[0].ID)
}

func onlinePlan(t *testing.T, db *gorm.DB, stock int) (*models.CheckoutPlan, *models.Product, *models.User) {
	t.Helper()
	p := createProduct(t, db, createSeller(t, db, models.SellerEnabled), createCategory(t, db), 100, stock)
	user, addr := createUser(t, db)
	plan, err := PrepareCheckout(db, user.ID, CheckoutRequest{
		AddressID:     addr.ID,
		PaymentMethod: models.PaymentOnline,
		Items:         []models.ItemRequest{item(p.ID, "M", "Red", 2)},
	}, rule)
	require.NoError(t, err)
	return plan, p, user
}

func TestPersistPlanClaimsPaymentOnce(t *testing.T) {
	db := testutil.NewDB(t)
	plan, p, user := onlinePlan(t, db, 10)

	first, err := PersistPlan(db, plan, "order_X", "pay_1")
	require.NoError(t, err)
	require.Len(t, first, 1)

	_, err = PersistPlan(db, plan, "order_X", "pay_1")
	assert.ErrorIs(t, err, ErrPaymentAlreadyUsed)

	orders, err := OrdersForPayment(db, user.ID, "order_X")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, first[0].ID, orders[0].ID)
	assert.Equal(t, 8, reloadProduct(t, db, p.ID).Stock)
}

func TestPersistPlanConcurrentVerifications(t *testing.T) {
	db := testutil.NewDB(t)
	plan, p, _ := onlinePlan(t, db, 10)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := PersistPlan(db, plan, "order_Y", "pay_1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var placed, rejected int
	for err := range errs {
		switch {
		case err == nil:
			placed++
		case errors.Is(err, ErrPaymentAlreadyUsed):
			rejected++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, placed)
	assert.Equal(t, attempts-1, rejected)

	var count int64
	db.Model(&models.Order{}).Where("razorpay_order_id = ?", "order_Y").Count(&count)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, 8, reloadProduct(t, db, p.ID).Stock)
}

func TestCheckoutRejectsOtherUsersAddress(t *testing.T) {
	db := testutil.NewDB(t)
	createProduct(t, db, createSeller(t, db, models.SellerEnabled), createCategory(t, db), 100, 10)
	user, _ := createUser(t, db)
	_, other := createUser(t, db)

	_, err := PrepareCheckout(db, user.ID, CheckoutRequest{AddressID: other.ID, PaymentMethod: models.PaymentCOD}, rule)
	assert.True(t, IsNotFound(err))
}

func TestPersistPlanRollsBackOnInsufficientStock(t *testing.T) {
	db := testutil.NewDB(t)
	category := createCategory(t, db)
	p1 := createProduct(t, db, createSeller(t, db, models.SellerEnabled), category, 100, 10)
	p2 := createProduct(t, db, createSeller(t, db, models.SellerEnabled), category, 100, 2)
	user, addr := createUser(t, db)

	plan, err := PrepareCheckout(db, user.ID, CheckoutRequest{
		AddressID:     addr.ID,
		PaymentMethod: models.PaymentCOD,
		Items:         []models.ItemRequest{item(p1.ID, "M", "Red", 1), item(p2.ID, "M", "Red", 2)},
	}, rule)
	require.NoError(t, err)

	// another checkout takes the last units before this one is persisted
	require.NoError(t, DecrementStock(db, p2.ID, 1))

	_, err = PersistPlan(db, plan, "", "")
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	assert.Equal(t, 10, reloadProduct(t, db, p1.ID).Stock)
	assert.Equal(t, 1, reloadProduct(t, db, p2.ID).Stock)
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestDecrementStockNeverNegative(t *testing.T) {
	db := testutil.NewDB(t)
	p := createProduct(t, db, createSeller(t, db, models.SellerEnabled), createCategory(t, db), 100, 3)

	require.NoError(t, DecrementStock(db, p.ID, 3))
	assert.ErrorIs(t, DecrementStock(db, p.ID, 1), models.ErrInsufficientStock)
	assert.Equal(t, 0, reloadProduct(t, db, p.ID).Stock)
}

func testPendingStore(t *testing.T, store PendingOrderStore, expire func()) {
	ctx := context.Background()
	plan := &models.CheckoutPlan{UserID: 7, PaymentMethod: models.PaymentOnline, FromCart: true,
		Orders: []models.Order{{SellerID: 3, Total: 140, Items: []models.OrderItem{{ProductID: 9, Quantity: 1}}}}}

	_, err := store.Get(ctx, "order_x")
	assert.ErrorIs(t, err, ErrPendingOrderNotFound)

	require.NoError(t, store.Put(ctx, "order_x", plan, time.Minute))
	got, err := store.Get(ctx, "order_x")
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)
	assert.True(t, got.FromCart)
	require.Len(t, got.Orders, 1)
	assert.Equal(t, uint(9), got.Orders[0].Items[0].ProductID)

	require.NoError(t, store.Delete(ctx, "order_x"))
	_, err = store.Get(ctx, "order_x")
	assert.ErrorIs(t, err, ErrPendingOrderNotFound)

	require.NoError(t, store.Put(ctx, "order_y", plan, time.Minute))
	expire()
	_, err = store.Get(ctx, "order_y")
	assert.ErrorIs(t, err, ErrPendingOrderNotFound)
}

func TestDBPendingStore(t *testing.T) {
	store := NewDBPendingStore(testutil.NewDB(t))
	now := time.Now()
	store.now = func() time.Time { return now }
	testPendingStore(t, store, func() { now = now.Add(2 * time.Minute) })
}

func TestRedisPendingStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	testPendingStore(t, NewRedisPendingStore(client), func() { mr.FastForward(2 * time.Minute) })
}
