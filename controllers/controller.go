package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/marketplace-api/initializers"
	"github.com/Kariqs/marketplace-api/middlewares"
	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/services"
	"github.com/Kariqs/marketplace-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PaymentGateway interface {
	Enabled() bool
	KeyID() string
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*utils.RazorpayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type MediaStore interface {
	Upload(ctx context.Context, file io.Reader, filename, contentType, folder string) (models.Image, error)
	Delete(ctx context.Context, publicID string) error
}

type SearchIndex interface {
	services.ProductSearcher
	Index(ctx context.Context, p *models.Product) error
	Remove(ctx context.Context, productID uint) error
}

type Mailer interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, htmlContent string) error
}

// Controller holds what the handlers share: the database, configuration and the
// third-party adapters.
type Controller struct {
	DB         *gorm.DB
	Config     *initializers.Config
	Tokens     *utils.TokenManager
	Payments   PaymentGateway
	SMS        SMSSender
	Media      MediaStore
	Search     SearchIndex
	Mail       Mailer
	Pending    services.PendingOrderStore
	OTPLimiter *middlewares.RateLimiter
	// LoginLimiter throttles credential checks per client IP.
	LoginLimiter *middlewares.RateLimiter
	Now          func() time.Time
}

func (c *Controller) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Controller) shippingRule() models.ShippingRule {
	return models.ShippingRule{Charge: c.Config.ShippingCharge, FreeAbove: c.Config.FreeShippingThreshold}
}

const (
	msgInvalidInput        = "Invalid request body"
	msgInvalidID           = "Invalid id"
	msgInternalServerError = "Internal server error"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	}
}

func sendJSONResponse(ctx *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	ctx.JSON(status, body)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"success": false, "message": message})
}

func sendValidationErrors(ctx *gin.Context, message string, problems []string) {
	ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message, "errors": problems})
}

// respondWithError maps domain and infrastructure errors to a status and message.
// notFound names the resource for 404 responses.
func respondWithError(ctx *gin.Context, err error, notFound string) {
	var (
		verrs      validator.ValidationErrors
		pricingErr *models.PricingError
		uploadErr  *utils.UploadError
		transErr   *services.InvalidTransitionError
		syntaxErr  *json.SyntaxError
		typeErr    *json.UnmarshalTypeError
		numErr     *strconv.NumError
	)
	switch {
	case errors.As(err, &verrs):
		sendValidationErrors(ctx, "Validation failed", validationMessages(verrs))
	case errors.As(err, &pricingErr):
		sendValidationErrors(ctx, "Invalid product details", pricingErr.Problems)
	case errors.As(err, &uploadErr):
		sendErrorResponse(ctx, http.StatusBadRequest, uploadErr.Message)
	case errors.As(err, &transErr):
		allowed := transErr.Allowed
		if allowed == nil {
			allowed = []string{}
		}
		ctx.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": transErr.Error(),
			"allowed": allowed,
		})
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.As(err, &numErr),
		errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, services.ErrPendingOrderNotFound):
		if errors.Is(err, services.ErrPendingOrderNotFound) {
			notFound = "Pending order"
		}
		sendErrorResponse(ctx, http.StatusNotFound, notFound+" not found")
	case errors.Is(err, models.ErrInsufficientStock), errors.Is(err, services.ErrStatusConflict),
		errors.Is(err, services.ErrPaymentAlreadyUsed), errors.Is(err, gorm.ErrDuplicatedKey):
		sendErrorResponse(ctx, http.StatusConflict, capitalize(err.Error()))
	case errors.Is(err, services.ErrOTPAttemptsExceeded):
		sendErrorResponse(ctx, http.StatusTooManyRequests, capitalize(err.Error()))
	case errors.Is(err, utils.ErrPaymentsDisabled):
		sendErrorResponse(ctx, http.StatusServiceUnavailable, "Online payments are currently unavailable")
	case isClientError(err):
		sendErrorResponse(ctx, http.StatusBadRequest, capitalize(err.Error()))
	default:
		logrus.WithError(err).WithFields(logrus.Fields{
			"method": ctx.Request.Method,
			"path":   ctx.FullPath(),
		}).Error("request failed")
		ctx.Error(err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
	}
}

var clientErrors = []error{
	models.ErrInvalidTransition,
	models.ErrUnknownStatus,
	models.ErrProductUnavailable,
	models.ErrEmptyCheckout,
	models.ErrInvalidQuantity,
	models.ErrInvalidVariant,
	models.ErrInvalidPaymentMode,
	models.ErrIndexOutOfRange,
	models.ErrInvalidLayout,
	models.ErrInvalidPricing,
	models.ErrCancelWindowElapsed,
	services.ErrCategoryInUse,
	services.ErrCategoryNotFound,
	services.ErrInvalidSignature,
	services.ErrOnlinePaymentRequired,
	services.ErrNoOnlinePortion,
	services.ErrOTPInvalid,
	services.ErrOTPExpired,
}

func isClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func validationMessages(verrs validator.ValidationErrors) []string {
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			messages = append(messages, field+" is required")
		case "email":
			messages = append(messages, field+" must be a valid email address")
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "len":
			messages = append(messages, fmt.Sprintf("%s must be %s characters long", field, fe.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
		case "numeric":
			messages = append(messages, field+" must contain only digits")
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return messages
}

// parseID reads a numeric path parameter, answering 400 itself when it is malformed.
func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return uint(id), true
}

func parseIndex(ctx *gin.Context) (int, bool) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil || index < 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid image index")
		return 0, false
	}
	return index, true
}

func paginationParams(ctx *gin.Context, defaultLimit int) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}

func paginated(key string, items any, total int64, page, limit int) gin.H {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return gin.H{
		key: items,
		"metadata": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": pages,
		},
	}
}

func queryUint(ctx *gin.Context, name string) uint {
	v, _ := strconv.ParseUint(ctx.Query(name), 10, 64)
	return uint(v)
}

func queryFloat(ctx *gin.Context, name string) float64 {
	v, _ := strconv.ParseFloat(ctx.Query(name), 64)
	return v
}

type bulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1,dive,min=1"`
}

// deleteMedia removes uploaded files after their rows are gone. Failures only leave
// orphaned files behind, so they are logged.
func (c *Controller) deleteMedia(ctx context.Context, publicIDs ...string) {
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := c.Media.Delete(ctx, id); err != nil {
			logrus.WithError(err).WithField("publicId", id).Warn("failed to delete media")
		}
	}
}
