package service

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/solmercado/tienda-api/internal/config"
	"github.com/solmercado/tienda-api/internal/models"
	"github.com/solmercado/tienda-api/internal/repository"
)

var (
	ErrEmailDisabled      = errors.New("email sending disabled")
	ErrEmailNotConfigured = errors.New("email not configured")
	ErrInvalidEmail       = errors.New("invalid email address")
)

// EmailService sends sale confirmation emails over SMTP.
type EmailService struct {
	cfg   config.EmailConfig
	sales repository.SaleRepository
}

func NewEmailService(cfg config.EmailConfig, sales repository.SaleRepository) *EmailService {
	return &EmailService{cfg: cfg, sales: sales}
}

// SendSaleConfirmation looks up the sale and mails the buyer a plain-text
// receipt. Sales without a buyer email are skipped without error; the worker
// has nobody to write to.
func (s *EmailService) SendSaleConfirmation(saleID uint) error {
	sale, err := s.sales.GetByID(saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return ErrSaleNotFound
	}
	if strings.TrimSpace(sale.BuyerEmail) == "" {
		return nil
	}

	subject, body := buildSaleConfirmationContent(sale)
	return s.sendTextEmail(sale.BuyerEmail, subject, body)
}

func buildSaleConfirmationContent(sale *models.Sale) (string, string) {
	subject := fmt.Sprintf("Confirmación de compra #%d", sale.ID)

	var buf bytes.Buffer
	buf.WriteString("¡Gracias por tu compra!\n\n")
	buf.WriteString(fmt.Sprintf("Venta #%d\n", sale.ID))
	for _, item := range sale.Items {
		buf.WriteString(fmt.Sprintf("- Producto %d x%d: $%s\n", item.ProductID, item.Quantity, item.Subtotal.String()))
	}
	buf.WriteString(fmt.Sprintf("\nTotal (envío incluido): $%s\n", sale.Total.String()))
	buf.WriteString(fmt.Sprintf("Estado: %s\n", sale.Status))
	return subject, buf.String()
}

// SendSaleStatusUpdate mails the buyer when an admin moves the sale to a new
// state. The status argument is what the task carried at enqueue time; the
// stored sale is still loaded so the body reflects the current lines.
func (s *EmailService) SendSaleStatusUpdate(saleID uint, status string) error {
	sale, err := s.sales.GetByID(saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return ErrSaleNotFound
	}
	if strings.TrimSpace(sale.BuyerEmail) == "" {
		return nil
	}
	if strings.TrimSpace(status) == "" {
		status = sale.Status
	}

	subject, body := buildSaleStatusUpdateContent(sale, status)
	return s.sendTextEmail(sale.BuyerEmail, subject, body)
}

func buildSaleStatusUpdateContent(sale *models.Sale, status string) (string, string) {
	subject := fmt.Sprintf("Actualización de tu pedido #%d: %s", sale.ID, status)

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("Tu pedido #%d cambió de estado.\n\n", sale.ID))
	buf.WriteString(fmt.Sprintf("Nuevo estado: %s\n\n", status))
	for _, item := range sale.Items {
		buf.WriteString(fmt.Sprintf("- Producto %d x%d: $%s\n", item.ProductID, item.Quantity, item.Subtotal.String()))
	}
	buf.WriteString(fmt.Sprintf("\nTotal (envío incluido): $%s\n", sale.Total.String()))
	return subject, buf.String()
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if !s.cfg.Enabled {
		return ErrEmailDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseTLS {
		return sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	return sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}
	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}
	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
