package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Kariqs/marketplace-api/controllers"
	"github.com/Kariqs/marketplace-api/initializers"
	"github.com/Kariqs/marketplace-api/middlewares"
	"github.com/Kariqs/marketplace-api/models"
	"github.com/Kariqs/marketplace-api/routes"
	"github.com/Kariqs/marketplace-api/services"
	"github.com/Kariqs/marketplace-api/testutil"
	"github.com/Kariqs/marketplace-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	razorpaySecret     = "rzp-test-secret"
	loginRatePerMinute = 20
)

type fakeGateway struct {
	mu      sync.Mutex
	created []int64
}

func (g *fakeGateway) Enabled() bool { return true }
func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

func (g *fakeGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*utils.RazorpayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created = append(g.created, amount)
	return &utils.RazorpayOrder{ID: fmt.Sprintf("order_%d", len(g.created)), Amount: amount, Currency: currency, Receipt: receipt}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return utils.VerifyRazorpaySignature(razorpaySecret, orderID, paymentID, signature)
}

type fakeSMS struct {
	messages []string
}

func (s *fakeSMS) SendSMS(ctx context.Context, to, body string) error {
	s.messages = append(s.messages, body)
	return nil
}

type fakeMedia struct {
	uploaded []string
	deleted  []string
}

func (m *fakeMedia) Upload(ctx context.Context, file io.Reader, filename, contentType, folder string) (models.Image, error) {
	id := fmt.Sprintf("%s/%d-%s", folder, len(m.uploaded)+1, filename)
	m.uploaded = append(m.uploaded, id)
	return models.Image{URL: "https://media.test/" + id, PublicID: id}, nil
}

func (m *fakeMedia) Delete(ctx context.Context, publicID string) error {
	m.deleted = append(m.deleted, publicID)
	return nil
}

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) SendEmail(ctx context.Context, toName, toEmail, subject, htmlContent string) error {
	m.sent = append(m.sent, toEmail+": "+subject)
	return nil
}

type fixture struct {
	db      *gorm.DB
	tokens  *utils.TokenManager
	router  *gin.Engine
	gateway *fakeGateway
	sms     *fakeSMS
	media   *fakeMedia
	mail    *fakeMailer

	seller   *models.Seller
	category *models.Category
	user     *models.User
	address  *models.Address
	admin    *models.Admin
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:      db,
		tokens:  utils.NewTokenManager("test-secret", time.Hour),
		gateway: &fakeGateway{},
		sms:     &fakeSMS{},
		media:   &fakeMedia{},
		mail:    &fakeMailer{},
	}
	c := &controllers.Controller{
		DB: db,
		Config: &initializers.Config{
			PendingOrderTTL:       30 * time.Minute,
			ShippingCharge:        40,
			FreeShippingThreshold: 500,
			CancelWindow:          24 * time.Hour,
			OTPTTL:                5 * time.Minute,
		},
		Tokens:       f.tokens,
		Payments:     f.gateway,
		SMS:          f.sms,
		Media:        f.media,
		Search:       utils.NewElasticSearch("", "products"),
		Mail:         f.mail,
		Pending:      services.NewDBPendingStore(db),
		OTPLimiter:   middlewares.NewRateLimiter(3),
		LoginLimiter: middlewares.NewRateLimiter(loginRatePerMinute),
	}

	f.router = gin.New()
	routes.DefaultRoutes(f.router)
	routes.CatalogRoutes(f.router, c)
	routes.UserRoutes(f.router, c)
	routes.SellerRoutes(f.router, c)
	routes.AdminRoutes(f.router, c)

	f.seller = &models.Seller{Name: "Meera", ShopName: "Meera Weaves", Phone: "9000000001", Email: "meera@shop.test", Password: "x", Status: models.SellerEnabled}
	require.NoError(t, db.Create(f.seller).Error)
	f.category = &models.Category{Name: "Kurtas", Slug: "kurtas"}
	require.NoError(t, db.Create(f.category).Error)
	f.user = &models.User{Phone: "8000000001", Name: "Asha"}
	require.NoError(t, db.Create(f.user).Error)
	f.address = &models.Address{UserID: f.user.ID, Name: "Asha", Phone: "8000000001", Line1: "1 MG Road", City: "Pune", State: "MH", Pincode: "411001", IsDefault: true}
	require.NoError(t, db.Create(f.address).Error)
	f.admin = &models.Admin{Name: "Root", Email: "root@market.test", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(f.admin).Error)
	return f
}

func (f *fixture) product(t *testing.T, price float64, stock int, cod bool) *models.Product {
	t.Helper()
	p := &models.Product{
		SellerID:     f.seller.ID,
		CategoryID:   f.category.ID,
		Name:         fmt.Sprintf("Kurta %v", price),
		Description:  "handloom cotton",
		Price:        price,
		Stock:        stock,
		Sizes:        datatypes.JSONSlice[string]{"M", "L"},
		Colors:       datatypes.JSONSlice[string]{"Red"},
		CODAvailable: cod,
		Status:       models.ProductEnabled,
	}
	if !cod {
		p.OnlinePaymentPercentage = 100
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func (f *fixture) token(t *testing.T, id uint, role string) string {
	t.Helper()
	tok, err := f.tokens.Issue(id, role)
	require.NoError(t, err)
	return tok
}

func (f *fixture) userToken(t *testing.T) string   { return f.token(t, f.user.ID, utils.RoleUser) }
func (f *fixture) sellerToken(t *testing.T) string { return f.token(t, f.seller.ID, utils.RoleSeller) }
func (f *fixture) adminToken(t *testing.T) string  { return f.token(t, f.admin.ID, utils.RoleAdmin) }

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
	Allowed []string        `json:"allowed"`
	Code    string          `json:"code"`
}

func (f *fixture) serve(t *testing.T, req *http.Request, token string) (int, response) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	var body response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w.Code, body
}

func (f *fixture) do(t *testing.T, method, path, token string, payload any) (int, response) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return f.serve(t, req, token)
}

// multipartRequest builds a form with text fields and files under fileField.
func multipartRequest(t *testing.T, method, path string, fields map[string]string, fileField string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, content := range files {
		part, err := w.CreateFormFile(fileField, name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
