package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/testutil"
	"github.com/Kariqs/marketplace-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	db     *gorm.DB
	tokens *utils.TokenManager
	router *gin.Engine
	user   *models.User
	seller *models.Seller
}

func newAuthFixture(t *testing.T) *authFixture {
	db := testutil.NewDB(t)
	f := &authFixture{db: db, tokens: utils.NewTokenManager("test-secret", time.Hour)}

	f.user = &models.User{Phone: "+919000000001"}
	require.NoError(t, db.Create(f.user).Error)
	f.seller = &models.Seller{Name: "S", ShopName: "Shop", Phone: "9000000002", Email: "s@shop.test", Password: "x", Status: models.SellerEnabled}
	require.NoError(t, db.Create(f.seller).Error)

	r := gin.New()
	r.GET("/user", RequireUser(f.tokens, db), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"phone": CurrentUser(ctx).Phone})
	})
	r.GET("/seller/profile", RequireSeller(f.tokens, db), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"shop": CurrentSeller(ctx).ShopName})
	})
	r.POST("/seller/products", RequireSeller(f.tokens, db), RequireEnabledSeller(), func(ctx *gin.Context) {
		ctx.Status(http.StatusCreated)
	})
	r.GET("/optional", OptionalUser(f.tokens, db), func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"id": PrincipalID(ctx)})
	})
	f.router = r
	return f
}

func (f *authFixture) do(t *testing.T, method, path, token string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func (f *authFixture) token(t *testing.T, id uint, role string) string {
	tok, err := f.tokens.Issue(id, role)
	require.NoError(t, err)
	return tok
}

func TestRequireUser(t *testing.T) {
	f := newAuthFixture(t)

	w, body := f.do(t, http.MethodGet, "/user", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeTokenMissing, body["code"])

	w, body = f.do(t, http.MethodGet, "/user", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeTokenInvalid, body["code"])

	w, body = f.do(t, http.MethodGet, "/user", f.token(t, f.user.ID, utils.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, f.user.Phone, body["phone"])

	w, body = f.do(t, http.MethodGet, "/user", f.token(t, f.seller.ID, utils.RoleSeller))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, CodeForbidden, body["code"])

	w, body = f.do(t, http.MethodGet, "/user", f.token(t, 999, utils.RoleUser))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodePrincipalNotFound, body["code"])
}

func TestExpiredTokenHasDistinctCode(t *testing.T) {
	f := newAuthFixture(t)
	expired, err := utils.NewTokenManager("test-secret", -time.Minute).Issue(f.user.ID, utils.RoleUser)
	require.NoError(t, err)

	w, body := f.do(t, http.MethodGet, "/user", expired)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, CodeTokenExpired, body["code"])
	assert.Equal(t, false, body["success"])
}

func TestSellerStatusGates(t *testing.T) {
	f := newAuthFixture(t)
	tok := f.token(t, f.seller.ID, utils.RoleSeller)

	w, _ := f.do(t, http.MethodPost, "/seller/products", tok)
	assert.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, f.db.Model(f.seller).Update("status", models.SellerPending).Error)
	w, _ = f.do(t, http.MethodPost, "/seller/products", tok)
	assert.Equal(t, http.StatusForbidden, w.Code)

	require.NoError(t, f.db.Model(f.seller).Update("status", models.SellerDisabled).Error)
	w, body := f.do(t, http.MethodPost, "/seller/products", tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, CodeAccountDisabled, body["code"])

	w, body = f.do(t, http.MethodGet, "/seller/profile", tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Shop", body["shop"])
}

func TestOptionalUser(t *testing.T) {
	f := newAuthFixture(t)

	_, body := f.do(t, http.MethodGet, "/optional", "")
	assert.EqualValues(t, 0, body["id"])

	_, body = f.do(t, http.MethodGet, "/optional", "garbage")
	assert.EqualValues(t, 0, body["id"])

	_, body = f.do(t, http.MethodGet, "/optional", f.token(t, f.user.ID, utils.RoleUser))
	assert.EqualValues(t, f.user.ID, body["id"])
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3)
	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("+919000000001"))
	}
	assert.False(t, rl.Allow("+919000000001"))
	assert.True(t, rl.Allow("+919000000002"))

	r := gin.New()
	r.POST("/login", NewRateLimiter(1).ByClientIP(), func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	codes := make([]int, 2)
	for i := range codes {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
