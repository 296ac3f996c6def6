package mailer

import (
	"fmt"
	"os"
	"strconv"

	"go-inventory-api/internal/model"

	"gopkg.in/gomail.v2"
)

// Mailer sends operational mail (low-stock alerts, OTP codes, confirmations).
// Every send is best-effort: callers log the returned error and move on, a
// failed mail never fails the operation that triggered it.
type Mailer struct {
	dialer    *gomail.Dialer
	from      string
	alertTo   string
	available bool
}

// NewFromEnv builds a Mailer from SMTP_* environment variables. When the host
// is unset the mailer stays in no-op mode so local development works without
// an SMTP server.
func NewFromEnv() *Mailer {
	host := os.Getenv("SMTP_HOST")
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = fmt.Sprintf("Inventory Management System <%s>", username)
	}
	alertTo := os.Getenv("ALERT_RECIPIENT")

	return &Mailer{
		dialer:    gomail.NewDialer(host, port, username, password),
		from:      from,
		alertTo:   alertTo,
		available: host != "",
	}
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.available {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// LowStockAlert notifies the fixed operational recipient that a product has
// reached its reorder threshold.
func (m *Mailer) LowStockAlert(product *model.Product) error {
	if m.alertTo == "" {
		return nil
	}

	supplierName := "none"
	if product.Supplier != nil {
		supplierName = product.Supplier.Name
	}

	subject := fmt.Sprintf("Low Stock Alert: %s", product.Name)
	body := fmt.Sprintf(`Hello,

This is an automated notification to inform you that the stock level for the following product has reached its reorder threshold.

Product details:

Product name: %s
SKU: %s
Current stock: %d
Reorder level: %d
Supplier: %s

To avoid running out of stock, please consider restocking this product as soon as possible.

If this message was sent in error, please ignore it.

Best regards,
Inventory Management System
`, product.Name, product.SKU, product.CurrentStock, product.ReorderLevel, supplierName)

	return m.send(m.alertTo, subject, body)
}

// OtpCode mails a verification code. Valid for 5 minutes, single use.
func (m *Mailer) OtpCode(to, name, code string) error {
	body := fmt.Sprintf(`Hello %s,

Your verification code is: %s

This code is valid for the next 5 minutes.
Please use it to complete your action.
If you did not request this, please ignore this email.

Thank you,
The Inventory Management Team
`, name, code)

	return m.send(to, "Your Verification Code", body)
}

// Welcome is sent once the signup OTP has been verified.
func (m *Mailer) Welcome(to, name string) error {
	body := fmt.Sprintf(`Hello %s,

Your account has been successfully verified.

Welcome to the Inventory Management System! You can now login and start managing your inventory.

Thank you,
Inventory Management Team
`, name)

	return m.send(to, "Welcome to Inventory Management System", body)
}

// PasswordChanged confirms a completed password reset.
func (m *Mailer) PasswordChanged(to, name string) error {
	body := fmt.Sprintf(`Hello %s,

This is a confirmation that your account password has been successfully reset.
If you did not request this change, please contact our support team immediately.

Thank you,
The Inventory Management Team
`, name)

	return m.send(to, "Your Password Has Been Reset", body)
}
