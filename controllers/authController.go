package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Kariqs/marketplace-api/middlewares"
	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/services"
	"github.com/Kariqs/marketplace-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	msgInvalidCredentials    = "Invalid email or password"
	msgFailedToGenerateToken = "Failed to generate token"
	msgSellerAlreadyExists   = "A seller with this phone or email already exists"
	msgAdminAlreadyExists    = "An admin with this email already exists"
	msgTooManyOTPRequests    = "Too many OTP requests, please wait a minute and try again"
)

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

type sendOTPRequest struct {
	Phone string `json:"phone" binding:"required,min=10,max=15"`
}

func (c *Controller) SendOTP(ctx *gin.Context) {
	var req sendOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	phone := strings.TrimSpace(req.Phone)
	if !c.OTPLimiter.Allow(phone) {
		sendErrorResponse(ctx, http.StatusTooManyRequests, msgTooManyOTPRequests)
		return
	}

	code, err := services.IssueOTP(c.DB, phone, c.Config.OTPTTL, c.now())
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(c.Config.OTPTTL.Minutes()))
	if err := c.SMS.SendSMS(ctx.Request.Context(), phone, body); err != nil {
		logrus.WithError(err).WithField("phone", phone).Error("failed to send otp")
		sendErrorResponse(ctx, http.StatusBadGateway, "Failed to send OTP, please try again")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "OTP sent successfully", nil)
}

type verifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

func (c *Controller) VerifyOTP(ctx *gin.Context) {
	var req verifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	user, created, err := services.VerifyOTP(c.DB, strings.TrimSpace(req.Phone), req.OTP, c.now())
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	token, err := c.Tokens.Issue(user.ID, utils.RoleUser)
	if err != nil {
		logrus.WithError(err).Error(msgFailedToGenerateToken)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Login successful", gin.H{
		"token":     token,
		"user":      user,
		"isNewUser": created,
	})
}

type sellerRegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	ShopName string `json:"shopName" binding:"required"`
	Phone    string `json:"phone" binding:"required,min=10,max=15"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Pincode  string `json:"pincode"`
	GSTIN    string `json:"gstin"`
}

func (c *Controller) sellerExists(phone, email string, exceptID uint) (bool, error) {
	var count int64
	err := c.DB.Model(&models.Seller{}).
		Where("(phone = ? OR email = ?) AND id <> ?", phone, strings.ToLower(email), exceptID).
		Count(&count).Error
	return count > 0, err
}

func (c *Controller) SellerRegister(ctx *gin.Context) {
	var req sellerRegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	exists, err := c.sellerExists(req.Phone, req.Email, 0)
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if exists {
		sendErrorResponse(ctx, http.StatusConflict, msgSellerAlreadyExists)
		return
	}
	hashed, err := hashPassword(req.Password)
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}

	seller := models.Seller{
		Name:     req.Name,
		ShopName: req.ShopName,
		Phone:    req.Phone,
		Email:    strings.ToLower(req.Email),
		Password: hashed,
		Status:   models.SellerPending,
		Address:  req.Address,
		City:     req.City,
		State:    req.State,
		Pincode:  req.Pincode,
		GSTIN:    req.GSTIN,
	}
	if err := c.DB.Create(&seller).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	token, err := c.Tokens.Issue(seller.ID, utils.RoleSeller)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, "Registration successful. Your account is awaiting approval.", gin.H{
		"token":  token,
		"seller": seller,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (c *Controller) SellerLogin(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var seller models.Seller
	err := c.DB.Where("email = ?", strings.ToLower(req.Email)).First(&seller).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && comparePasswords(seller.Password, req.Password) != nil) {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	token, err := c.Tokens.Issue(seller.ID, utils.RoleSeller)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Login successful", gin.H{"token": token, "seller": seller})
}

func (c *Controller) AdminLogin(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var admin models.Admin
	err := c.DB.Where("email = ?", strings.ToLower(req.Email)).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && comparePasswords(admin.Password, req.Password) != nil) {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	token, err := c.Tokens.Issue(admin.ID, utils.RoleAdmin)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Login successful", gin.H{"token": token, "admin": admin})
}

type createAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (c *Controller) CreateAdmin(ctx *gin.Context) {
	var req createAdminRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondWithError(ctx, err, "")
		return
	}
	var count int64
	if err := c.DB.Model(&models.Admin{}).Where("email = ?", strings.ToLower(req.Email)).Count(&count).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	if count > 0 {
		sendErrorResponse(ctx, http.StatusConflict, msgAdminAlreadyExists)
		return
	}
	hashed, err := hashPassword(req.Password)
	if err != nil {
		respondWithError(ctx, err, "")
		return
	}
	admin := models.Admin{Name: req.Name, Email: strings.ToLower(req.Email), Password: hashed, Role: models.RoleAdmin}
	if err := c.DB.Create(&admin).Error; err != nil {
		respondWithError(ctx, err, "")
		return
	}
	logrus.WithFields(logrus.Fields{"adminId": admin.ID, "createdBy": middlewares.PrincipalID(ctx)}).Info("admin account created")
	sendJSONResponse(ctx, http.StatusCreated, "Admin created successfully", admin)
}

func (c *Controller) GetAdminProfile(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusOK, "Admin profile", middlewares.CurrentAdmin(ctx))
}
