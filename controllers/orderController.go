package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Kariqs/marketplace-api/metrics"
	"github.com/Kariqs/marketplace-api/middlewares"
	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/services"
	"github.com/Kariqs/marketplace-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const currencyINR = "INR"

// CreateOrder starts a checkout. When part of it is payable online a Razorpay order is
// created for the combined online amount and the plan is staged until the payment is
// verified; otherwise the orders are placed straight away.
func (c *Controller) CreateOrder(ctx *gin.Context) {
	var req services.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	userID := middlewares.PrincipalID(ctx)
	plan, err := services.PrepareCheckout(c.DB, userID, req, c.shippingRule())
	if err != nil {
		respondWithError(ctx, err, "Address")
		return
	}

	online := plan.OnlineAmount()
	if online == 0 {
		c.persistAndRespond(ctx, plan, "", "")
		return
	}

	amount := models.ToPaise(online)
	rzpOrder, err := c.Payments.CreateOrder(ctx.Request.Context(), amount, currencyINR, uuid.NewString())
	if err != nil {
		if !errors.Is(err, utils.ErrPaymentsDisabled) {
			logrus.WithError(err).WithField("userId", userID).Error("failed to create razorpay order")
			sendErrorResponse(ctx, http.StatusBadGateway, "Failed to initiate payment, please try again")
			return
		}
		respondWithError(ctx, err, "")
		return
	}
	if err := c.Pending.Put(ctx.Request.Context(), rzpOrder.ID, plan, c.Config.PendingOrderTTL); err != nil {
		respondWithError(ctx, err, "")
		return
	}

	logrus.WithFields(logrus.Fields{
		"userId":          userID,
		"razorpayOrderId": rzpOrder.ID,
		"amount":          amount,
		"sellers":         len(plan.Orders),
	}).Info("payment initiated")
	sendJSONResponse(ctx, http.StatusCreated, "Payment initiated", gin.H{
		"razorpayOrderId": rzpOrder.ID,
		"amount":          amount,
		"currency":        currencyINR,
		"keyId":           c.Payments.KeyID(),
		"total":           plan.Total(),
		"onlineAmount":    online,
		"codAmount":       models.RoundMoney(plan.Total() - online),
	})
}

type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

func (c *Controller) VerifyPayment(ctx *gin.Context) {
	var req verifyPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if !c.Payments.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		metrics.RecordPaymentVerification("invalid")
		logrus.WithField("razorpayOrderId", req.RazorpayOrderID).Warn("payment signature mismatch")
		respondWithError(ctx, services.ErrInvalidSignature, "")
		return
	}

	userID := middlewares.PrincipalID(ctx)
	if c.respondIfVerified(ctx, userID, req.RazorpayOrderID) {
		return
	}

	plan, err := c.Pending.Get(ctx.Request.Context(), req.RazorpayOrderID)
	if err == nil && plan.UserID != userID {
		err = services.ErrPendingOrderNotFound
	}
	if errors.Is(err, services.ErrPendingOrderNotFound) && c.respondIfVerified(ctx, userID, req.RazorpayOrderID) {
		return
	}
	if err != nil {
		metrics.RecordPaymentVerification("error")
		respondWithError(ctx, err, "")
		return
	}

	orders, err := services.PersistPlan(c.DB, plan, req.RazorpayOrderID, req.RazorpayPaymentID)
	if errors.Is(err, services.ErrPaymentAlreadyUsed) && c.respondIfVerified(ctx, userID, req.RazorpayOrderID) {
		return
	}
	if err != nil {
		metrics.RecordPaymentVerification("error")
		respondWithError(ctx, err, "Product")
		return
	}
	if err := c.Pending.Delete(ctx.Request.Context(), req.RazorpayOrderID); err != nil {
		logrus.WithError(err).WithField("razorpayOrderId", req.RazorpayOrderID).Warn("failed to delete pending order")
	}
	metrics.RecordPaymentVerification("valid")
	metrics.RecordOrderPlaced(plan.PaymentMethod, len(orders))
	c.notifySellers(ctx.Request.Context(), orders)

	sendJSONResponse(ctx, http.StatusCreated, "Payment verified and orders placed", gin.H{"orders": orders})
}

// respondIfVerified answers with the orders already persisted for the payment, if any.
// Repeated or concurrent verifications of one payment end here.
func (c *Controller) respondIfVerified(ctx *gin.Context, userID uint, razorpayOrderID string) bool {
	existing, err := services.OrdersForPayment(c.DB, userID, razorpayOrderID)
	if err != nil {
		metrics.RecordPaymentVerification("error")
		respondWithError(ctx, err, "")
		return true
	}
	if len(existing) == 0 {
		return false
	}
	sendJSONResponse(ctx, http.StatusOK, "Payment already verified", gin.H{"orders": existing})
	return true
}

// PlaceOrder places a checkout that has nothing payable online.
func (c *Controller) PlaceOrder(ctx *gin.Context) {
	var req services.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	plan, err := services.PrepareCheckout(c.DB, middlewares.PrincipalID(ctx), req, c.shippingRule())
	if err != nil {
		respondWithError(ctx, err, "Address")
		return
	}
	if plan.OnlineAmount() > 0 {
		respondWithError(ctx, services.ErrOnlinePaymentRequired, "")
		return
	}
	c.persistAndRespond(ctx, plan, "", "")
}

func (c *Controller) persistAndRespond(ctx *gin.Context, plan *models.CheckoutPlan, razorpayOrderID, paymentID string) {
	orders, err := services.PersistPlan(c.DB, plan, razorpayOrderID, paymentID)
	if err != nil {
		respondWithError(ctx, err, "Product")
		return
	}
	metrics.RecordOrderPlaced(plan.PaymentMethod, len(orders))
	c.notifySellers(ctx.Request.Context(), orders)
	sendJSONResponse(ctx, http.StatusCreated, "Order placed successfully", gin.H{"orders": orders})
}

// notifySellers mails each seller about their new order. Mail failures never fail the
// checkout.
func (c *Controller) notifySellers(ctx context.Context, orders []models.Order) {
	for i := range orders {
		order := &orders[i]
		var seller models.Seller
		if err := c.DB.Select("id", "name", "email", "shop_name").First(&seller, order.SellerID).Error; err != nil {
			logrus.WithError(err).WithField("sellerId", order.SellerID).Warn("failed to load seller for notification")
			continue
		}
		subject, body, err := utils.RenderNewOrderEmail(&seller, order)
		if err == nil {
			err = c.Mail.SendEmail(ctx, seller.Name, seller.Email, subject, body)
		}
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"sellerId":    seller.ID,
				"orderNumber": order.OrderNumber,
			}).Warn("failed to notify seller")
		}
	}
}

func (c *Controller) GetUserOrders(ctx *gin.Context) {
	page, limit := paginationParams(ctx, 10)
	orders, total, err := services.ListOrders(c.DB, services.OrderFilter{
		UserID: middlewares.PrincipalID(ctx),
		Status: ctx.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Orders fetched successfully", paginated("orders", orders, total, page, limit))
}

func (c *Controller) GetUserOrder(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	order, err := services.LoadOrder(c.DB.Where("user_id = ?", middlewares.PrincipalID(ctx)), id)
	if err != nil {
		respondWithError(ctx, err, "Order")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Order fetched successfully", order)
}

func (c *Controller) CancelOrder(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	order, err := services.CancelByUser(c.DB, middlewares.PrincipalID(ctx), id, c.Config.CancelWindow, c.now())
	if err != nil {
		respondWithError(ctx, err, "Order")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Order cancelled successfully", order)
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=255"`
}

func (c *Controller) changeStatus(ctx *gin.Context, orderID uint, actor string) {
	var req statusUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	order, err := services.ChangeOrderStatus(c.DB, orderID, strings.ToLower(strings.TrimSpace(req.Status)), actor, req.Note, c.now())
	if err != nil {
		respondWithError(ctx, err, "Order")
		return
	}
	logrus.WithFields(logrus.Fields{"orderId": order.ID, "status": order.Status, "actor": actor}).Info("order status changed")
	sendJSONResponse(ctx, http.StatusOK, "Order status updated", order)
}

// UpdateSellerOrderStatus lets a seller move one of their own orders along.
func (c *Controller) UpdateSellerOrderStatus(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	seller := middlewares.CurrentSeller(ctx)
	var count int64
	if err := c.DB.Model(&models.Order{}).Where("id = ? AND seller_id = ?", id, seller.ID).Count(&count).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if count == 0 {
		sendErrorResponse(ctx, http.StatusNotFound, "Order not found")
		return
	}
	c.changeStatus(ctx, id, "seller")
}

func (c *Controller) UpdateAdminOrderStatus(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	c.changeStatus(ctx, id, "admin")
}

func (c *Controller) GetSellerOrders(ctx *gin.Context) {
	page, limit := paginationParams(ctx, 20)
	orders, total, err := services.ListOrders(c.DB, services.OrderFilter{
		SellerID: middlewares.PrincipalID(ctx),
		Status:   ctx.Query("status"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Orders fetched successfully", paginated("orders", orders, total, page, limit))
}

func (c *Controller) GetSellerOrder(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	order, err := services.LoadOrder(c.DB.Where("seller_id = ?", middlewares.PrincipalID(ctx)), id)
	if err != nil {
		respondWithError(ctx, err, "Order")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Order fetched successfully", order)
}

func (c *Controller) GetAllOrders(ctx *gin.Context) {
	page, limit := paginationParams(ctx, 20)
	orders, total, err := services.ListOrders(c.DB, services.OrderFilter{
		UserID:   queryUint(ctx, "user"),
		SellerID: queryUint(ctx, "seller"),
		Status:   ctx.Query("status"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Orders fetched successfully", paginated("orders", orders, total, page, limit))
}

func (c *Controller) GetOrder(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	order, err := services.LoadOrder(c.DB.Preload("User").Preload("Seller"), id)
	if err != nil {
		respondWithError(ctx, err, "Order")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Order fetched successfully", order)
}
