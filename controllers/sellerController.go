package controllers

import (
	"net/http"
	"strings"

	"github.com/Kariqs/marketplace-api/middlewares"
	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/services"
	"github.com/gin-gonic/gin"
)

func (c *Controller) GetSellerProfile(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusOK, "Seller profile", middlewares.CurrentSeller(ctx))
}

type bankDetailsInput struct {
	AccountHolderName *string `json:"accountHolderName"`
	AccountNumber     *string `json:"accountNumber" binding:"omitempty,numeric,min=6,max=20"`
	IFSC              *string `json:"ifsc" binding:"omitempty,len=11,alphanum"`
	BankName          *string `json:"bankName"`
	UPIID             *string `json:"upiId" binding:"omitempty,contains=@"`
	RazorpayAccountID *string `json:"razorpayAccountId"`
}

type sellerProfileInput struct {
	Name        *string           `json:"name" binding:"omitempty,min=1,max=100"`
	ShopName    *string           `json:"shopName" binding:"omitempty,min=1,max=150"`
	Phone       *string           `json:"phone" binding:"omitempty,min=10,max=15"`
	Email       *string           `json:"email" binding:"omitempty,email"`
	Description *string           `json:"description"`
	Address     *string           `json:"address"`
	City        *string           `json:"city"`
	State       *string           `json:"state"`
	Pincode     *string           `json:"pincode" binding:"omitempty,numeric,len=6"`
	GSTIN       *string           `json:"gstin" binding:"omitempty,len=15,alphanum"`
	Logo        *string           `json:"logo" binding:"omitempty,url"`
	BankDetails *bankDetailsInput `json:"bankDetails"`
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func (in *sellerProfileInput) apply(s *models.Seller) {
	setIf(&s.Name, in.Name)
	setIf(&s.ShopName, in.ShopName)
	setIf(&s.Phone, in.Phone)
	setIf(&s.Email, in.Email)
	s.Email = strings.ToLower(s.Email)
	setIf(&s.Description, in.Description)
	setIf(&s.Address, in.Address)
	setIf(&s.City, in.City)
	setIf(&s.State, in.State)
	setIf(&s.Pincode, in.Pincode)
	setIf(&s.GSTIN, in.GSTIN)
	setIf(&s.Logo, in.Logo)
	if b := in.BankDetails; b != nil {
		setIf(&s.Bank.AccountHolderName, b.AccountHolderName)
		setIf(&s.Bank.AccountNumber, b.AccountNumber)
		setIf(&s.Bank.IFSC, b.IFSC)
		s.Bank.IFSC = strings.ToUpper(s.Bank.IFSC)
		setIf(&s.Bank.BankName, b.BankName)
		setIf(&s.Bank.UPIID, b.UPIID)
		setIf(&s.Bank.RazorpayAccountID, b.RazorpayAccountID)
	}
}

// sellerProfileColumns are the columns a profile edit may write. Status, password and
// revenue are owned by other flows.
var sellerProfileColumns = []string{
	"name", "shop_name", "phone", "email", "description", "address", "city", "state", "pincode",
	"gstin", "logo", "bank_account_holder_name", "bank_account_number", "bank_ifsc",
	"bank_bank_name", "bank_upi_id", "bank_razorpay_account_id", "updated_at",
}

// saveSellerProfile applies in to seller, refusing a phone or email taken by another
// seller. Only sellerProfileColumns are written.
func (c *Controller) saveSellerProfile(ctx *gin.Context, seller *models.Seller, in *sellerProfileInput) bool {
	in.apply(seller)
	exists, err := c.sellerExists(seller.Phone, seller.Email, seller.ID)
	if err != nil {
		respondWithError(ctx, err, "")
		return false
	}
	if exists {
		sendErrorResponse(ctx, http.StatusConflict, msgSellerAlreadyExists)
		return false
	}
	err = c.DB.Model(seller).Select(sellerProfileColumns).Updates(seller).Error
	if err != nil {
		respondWithError(ctx, err, "")
		return false
	}
	return true
}

func (c *Controller) UpdateSellerProfile(ctx *gin.Context) {
	var in sellerProfileInput
	if err := ctx.ShouldBindJSON(&in); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	seller := middlewares.CurrentSeller(ctx)
	if !c.saveSellerProfile(ctx, seller, &in) {
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Profile updated successfully", seller)
}

// GetSellerRevenue reports the stored revenue split together with order counts per status.
func (c *Controller) GetSellerRevenue(ctx *gin.Context) {
	sellerID := middlewares.PrincipalID(ctx)
	if err := services.RecomputeSellerRevenue(c.DB, sellerID); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var seller models.Seller
	if err := c.DB.Select("id", "revenue_total", "revenue_online", "revenue_cod", "revenue_pending_cod").First(&seller, sellerID).Error; err != nil {
		respondWithError(ctx, err, "Seller")
		return
	}
	var byStatus []services.CountByStatus
	err := c.DB.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where("seller_id = ?", sellerID).
		Group("status").Order("status").
		Scan(&byStatus).Error
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var totalOrders int64
	for _, s := range byStatus {
		totalOrders += s.Count
	}
	sendJSONResponse(ctx, http.StatusOK, "Revenue fetched successfully", gin.H{
		"revenue":        seller.Revenue,
		"totalOrders":    totalOrders,
		"ordersByStatus": byStatus,
	})
}
