package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	CodeTokenMissing      = "TOKEN_MISSING"
	CodeTokenInvalid      = "TOKEN_INVALID"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodePrincipalNotFound = "PRINCIPAL_NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeAccountDisabled   = "ACCOUNT_DISABLED"

	principalKey   = "principal"
	principalIDKey = "principalId"
	roleKey        = "role"
)

// PrincipalLoader fetches the account a token's subject refers to.
type PrincipalLoader func(ctx context.Context, id uint) (any, error)

func abortWithCode(ctx *gin.Context, status int, code, message string) {
	ctx.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
		"code":    code,
	})
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// RequireAuth verifies the bearer token, checks it was issued for role and attaches the
// loaded principal to the context.
func RequireAuth(tokens *utils.TokenManager, role string, load PrincipalLoader) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if authenticate(ctx, tokens, role, load) {
			ctx.Next()
		}
	}
}

func authenticate(ctx *gin.Context, tokens *utils.TokenManager, role string, load PrincipalLoader) bool {
	raw := bearerToken(ctx)
	if raw == "" {
		abortWithCode(ctx, http.StatusUnauthorized, CodeTokenMissing, "Authorization token is required")
		return false
	}
	claims, err := tokens.Parse(raw)
	if errors.Is(err, utils.ErrTokenExpired) {
		abortWithCode(ctx, http.StatusUnauthorized, CodeTokenExpired, "Session expired, please log in again")
		return false
	}
	if err != nil {
		abortWithCode(ctx, http.StatusUnauthorized, CodeTokenInvalid, "Invalid token")
		return false
	}
	if claims.Role != role {
		abortWithCode(ctx, http.StatusForbidden, CodeForbidden, role+" access required")
		return false
	}
	id, err := claims.PrincipalID()
	if err != nil {
		abortWithCode(ctx, http.StatusUnauthorized, CodeTokenInvalid, "Invalid token")
		return false
	}

	principal, err := load(ctx.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		abortWithCode(ctx, http.StatusUnauthorized, CodePrincipalNotFound, "Account not found")
		return false
	}
	if err != nil {
		ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
		return false
	}

	ctx.Set(principalKey, principal)
	ctx.Set(principalIDKey, id)
	ctx.Set(roleKey, role)
	return true
}

func loadFrom[T any](db *gorm.DB) PrincipalLoader {
	return func(ctx context.Context, id uint) (any, error) {
		var principal T
		if err := db.WithContext(ctx).First(&principal, id).Error; err != nil {
			return nil, err
		}
		return &principal, nil
	}
}

func RequireUser(tokens *utils.TokenManager, db *gorm.DB) gin.HandlerFunc {
	return RequireAuth(tokens, utils.RoleUser, loadFrom[models.User](db))
}

func RequireAdmin(tokens *utils.TokenManager, db *gorm.DB) gin.HandlerFunc {
	return RequireAuth(tokens, utils.RoleAdmin, loadFrom[models.Admin](db))
}

// RequireSeller authenticates a seller. Disabled sellers may only read their profile.
func RequireSeller(tokens *utils.TokenManager, db *gorm.DB) gin.HandlerFunc {
	load := loadFrom[models.Seller](db)
	return func(ctx *gin.Context) {
		if !authenticate(ctx, tokens, utils.RoleSeller, load) {
			return
		}
		seller := CurrentSeller(ctx)
		profileRead := ctx.Request.Method == http.MethodGet && strings.HasSuffix(ctx.FullPath(), "/profile")
		if seller.Status == models.SellerDisabled && !profileRead {
			abortWithCode(ctx, http.StatusForbidden, CodeAccountDisabled, "Your seller account has been disabled")
			return
		}
		ctx.Next()
	}
}

// RequireEnabledSeller guards catalog writes: pending sellers can set up their profile but
// not list products.
func RequireEnabledSeller() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		seller := CurrentSeller(ctx)
		if seller == nil || seller.Status != models.SellerEnabled {
			abortWithCode(ctx, http.StatusForbidden, CodeForbidden, "Your seller account is awaiting approval")
			return
		}
		ctx.Next()
	}
}

// OptionalUser attaches the user when a valid user token is present and never rejects.
func OptionalUser(tokens *utils.TokenManager, db *gorm.DB) gin.HandlerFunc {
	load := loadFrom[models.User](db)
	return func(ctx *gin.Context) {
		raw := bearerToken(ctx)
		if raw == "" {
			ctx.Next()
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil || claims.Role != utils.RoleUser {
			ctx.Next()
			return
		}
		id, err := claims.PrincipalID()
		if err != nil {
			ctx.Next()
			return
		}
		if principal, err := load(ctx.Request.Context(), id); err == nil {
			ctx.Set(principalKey, principal)
			ctx.Set(principalIDKey, id)
			ctx.Set(roleKey, utils.RoleUser)
		}
		ctx.Next()
	}
}

func principal[T any](ctx *gin.Context) *T {
	v, ok := ctx.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*T)
	return p
}

func CurrentUser(ctx *gin.Context) *models.User     { return principal[models.User](ctx) }
func CurrentSeller(ctx *gin.Context) *models.Seller { return principal[models.Seller](ctx) }
func CurrentAdmin(ctx *gin.Context) *models.Admin   { return principal[models.Admin](ctx) }

// PrincipalID returns the authenticated account id, or 0.
func PrincipalID(ctx *gin.Context) uint {
	return ctx.GetUint(principalIDKey)
}
