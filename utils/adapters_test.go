package utils

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudinarySignature(t *testing.T) {
	params := map[string]string{"timestamp": "1700000000", "folder": "products", "api_key": "ignored"}
	sum := sha1.Sum([]byte("folder=products&timestamp=1700000000" + "shh"))

	assert.Equal(t, hex.EncodeToString(sum[:]), CloudinarySignature(params, "shh"))
}

func TestCloudinaryUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1_1/demo/image/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "products", r.FormValue("folder"))
		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.Equal(t, "1700000000", r.FormValue("timestamp"))
		assert.Equal(t, CloudinarySignature(map[string]string{"folder": "products", "timestamp": "1700000000"}, "secret"), r.FormValue("signature"))

		f, _, err := r.FormFile("file")
		require.NoError(t, err)
		data, _ := io.ReadAll(f)
		assert.Equal(t, "image-bytes", string(data))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"secure_url":"https://cdn.example/p.png","public_id":"products/p"}`))
	}))
	defer srv.Close()

	c := NewCloudinary("demo", "key", "secret", srv.URL)
	c.now = func() time.Time { return time.Unix(1700000000, 0) }

	img, err := c.Upload(context.Background(), strings.NewReader("image-bytes"), "p.png", "image/png", "products")
	require.NoError(t, err)
	assert.Equal(t, models.Image{URL: "https://cdn.example/p.png", PublicID: "products/p"}, img)
}

func TestCloudinaryDelete(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, "/v1_1/demo/image/destroy", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "products/p", r.FormValue("public_id"))
		w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	c := NewCloudinary("demo", "key", "secret", srv.URL)
	require.NoError(t, c.Delete(context.Background(), "products/p"))
	assert.True(t, called)

	called = false
	require.NoError(t, c.Delete(context.Background(), ""))
	assert.False(t, called)
}

func TestTwilioSendSMS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC1/Messages.json", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+919999999999", r.PostForm.Get("To"))
		assert.Equal(t, "+15550000000", r.PostForm.Get("From"))
		assert.Contains(t, r.PostForm.Get("Body"), "123456")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid":"SM1"}`))
	}))
	defer srv.Close()

	sms := NewTwilioSMS("AC1", "token", "+15550000000", srv.URL)
	require.NoError(t, sms.SendSMS(context.Background(), "+919999999999", "Your code is 123456"))
}

func TestTwilioDisabledSucceeds(t *testing.T) {
	sms := NewTwilioSMS("", "", "", "")
	assert.NoError(t, sms.SendSMS(context.Background(), "+919999999999", "code"))
}

func TestElasticSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/products/_doc/7":
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"result":"created"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/products/_doc/7":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"result":"not_found"}`))
		case r.Method == http.MethodPost && r.URL.Path == "/products/_search":
			body, _ := io.ReadAll(r.Body)
			assert.Contains(t, string(body), `"fuzziness":"AUTO"`)
			w.Write([]byte(`{"hits":{"hits":[{"_id":"7"},{"_id":"3"},{"_id":"x"}]}}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	es := NewElasticSearch(srv.URL, "products")
	p := &models.Product{Name: "Shirt"}
	p.ID = 7

	require.NoError(t, es.Index(context.Background(), p))
	require.NoError(t, es.Remove(context.Background(), 7))
	ids, err := es.Search(context.Background(), "shrt", 10)
	require.NoError(t, err)
	assert.Equal(t, []uint{7, 3}, ids)
}

func TestElasticSearchDisabled(t *testing.T) {
	es := NewElasticSearch("", "products")
	_, err := es.Search(context.Background(), "shirt", 10)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
	assert.ErrorIs(t, es.Index(context.Background(), &models.Product{}), ErrSearchUnavailable)
}

func TestElasticSearchDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewElasticSearch(url, "products").Search(context.Background(), "shirt", 10)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestRenderMails(t *testing.T) {
	seller := &models.Seller{Name: "Asha", ShopName: "Asha Styles", Status: models.SellerEnabled}
	order := &models.Order{
		OrderNumber:   "OD123",
		PaymentMethod: models.PaymentCOD,
		Total:         430,
		Items:         []models.OrderItem{{Name: "Kurta", Size: "M", Color: "Red", Quantity: 2, LineTotal: 390}},
	}

	subject, body, err := RenderNewOrderEmail(seller, order)
	require.NoError(t, err)
	assert.Equal(t, "New order OD123", subject)
	assert.Contains(t, body, "Kurta")
	assert.Contains(t, body, "430.00")

	subject, body, err = RenderSellerStatusEmail(seller)
	require.NoError(t, err)
	assert.Equal(t, "Your seller account is enabled", subject)
	assert.Contains(t, body, "is now live")
}

func TestMailerDisabledSucceeds(t *testing.T) {
	assert.NoError(t, NewMailer("", "").SendEmail(context.Background(), "A", "a@example.com", "s", "<p>x</p>"))
}
