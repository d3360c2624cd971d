package utils

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/Kariqs/marketplace-api/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

var mailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Mailer sends transactional email through SendGrid. Without an API key messages are only
// logged.
type Mailer struct {
	apiKey   string
	fromName string
	from     string
}

func NewMailer(apiKey, from string) *Mailer {
	return &Mailer{apiKey: apiKey, fromName: "Marketplace", from: from}
}

func (m *Mailer) SendEmail(ctx context.Context, toName, toEmail, subject, htmlContent string) error {
	if m.apiKey == "" || m.from == "" {
		logrus.WithFields(logrus.Fields{"to": toEmail, "subject": subject}).Debug("mail disabled, skipping")
		return nil
	}
	from := mail.NewEmail(m.fromName, m.from)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlContent)
	client := sendgrid.NewSendClient(m.apiKey)

	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("send email to %s: %w", toEmail, err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d, body: %s", response.StatusCode, response.Body)
	}
	logrus.WithFields(logrus.Fields{"to": toEmail, "status": response.StatusCode}).Info("email sent")
	return nil
}

type newOrderMail struct {
	SellerName    string
	OrderNumber   string
	Items         []models.OrderItem
	Total         float64
	PaymentMethod string
	City          string
	State         string
	Pincode       string
}

// RenderNewOrderEmail returns the subject and HTML body sent to a seller for a new order.
func RenderNewOrderEmail(seller *models.Seller, order *models.Order) (string, string, error) {
	var buf bytes.Buffer
	err := mailTemplates.ExecuteTemplate(&buf, "new_order.html", newOrderMail{
		SellerName:    seller.Name,
		OrderNumber:   order.OrderNumber,
		Items:         order.Items,
		Total:         order.Total,
		PaymentMethod: order.PaymentMethod,
		City:          order.ShippingAddress.City,
		State:         order.ShippingAddress.State,
		Pincode:       order.ShippingAddress.Pincode,
	})
	if err != nil {
		return "", "", err
	}
	return "New order " + order.OrderNumber, buf.String(), nil
}

func RenderSellerStatusEmail(seller *models.Seller) (string, string, error) {
	var buf bytes.Buffer
	err := mailTemplates.ExecuteTemplate(&buf, "seller_status.html", map[string]string{
		"SellerName": seller.Name,
		"ShopName":   seller.ShopName,
		"Status":     seller.Status,
	})
	if err != nil {
		return "", "", err
	}
	return "Your seller account is " + seller.Status, buf.String(), nil
}
