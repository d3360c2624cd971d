package utils

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const cloudinaryBaseURL = "https://api.cloudinary.com"

// Cloudinary stores images through the signed upload API.
type Cloudinary struct {
	cloudName string
	apiKey    string
	apiSecret string
	client    *resty.Client
	now       func() time.Time
}

func NewCloudinary(cloudName, apiKey, apiSecret, baseURL string) *Cloudinary {
	if baseURL == "" {
		baseURL = cloudinaryBaseURL
	}
	return &Cloudinary{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		client:    resty.New().SetBaseURL(baseURL).SetTimeout(60 * time.Second),
		now:       time.Now,
	}
}

func (c *Cloudinary) Upload(ctx context.Context, file io.Reader, filename, contentType, folder string) (models.Image, error) {
	params := map[string]string{
		"folder":    folder,
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	params["signature"] = CloudinarySignature(params, c.apiSecret)
	params["api_key"] = c.apiKey

	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, file).
		SetFormData(params).
		Post(fmt.Sprintf("/v1_1/%s/image/upload", c.cloudName))
	if err != nil {
		return models.Image{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.IsError() {
		return models.Image{}, fmt.Errorf("cloudinary upload failed with status %d: %s",
			resp.StatusCode(), gjson.GetBytes(resp.Body(), "error.message").String())
	}
	return models.Image{
		URL:      gjson.GetBytes(resp.Body(), "secure_url").String(),
		PublicID: gjson.GetBytes(resp.Body(), "public_id").String(),
	}, nil
}

func (c *Cloudinary) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
	}
	params["signature"] = CloudinarySignature(params, c.apiSecret)
	params["api_key"] = c.apiKey

	resp, err := c.client.R().
		SetContext(ctx).
		SetFormData(params).
		Post(fmt.Sprintf("/v1_1/%s/image/destroy", c.cloudName))
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("cloudinary destroy failed with status %d", resp.StatusCode())
	}
	return nil
}

// CloudinarySignature signs the request parameters: sorted key=value pairs joined with
// '&', the API secret appended, SHA-1 hex encoded.
func CloudinarySignature(params map[string]string, apiSecret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == "file" || k == "api_key" || k == "signature" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + apiSecret))
	return hex.EncodeToString(sum[:])
}
