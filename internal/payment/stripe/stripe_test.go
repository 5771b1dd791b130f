package stripe

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testConfig() *Config {
	cfg := &Config{
		SecretKey:     "sk_test_abc",
		WebhookSecret: "whsec_test",
		SuccessURL:    "https://tienda.example/checkout/success",
		CancelURL:     "https://tienda.example/checkout/cancel",
	}
	cfg.Normalize()
	return cfg
}

func signedHeader(secret string, ts time.Time, body []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), computeSignature(secret, ts.Unix(), body))
}

const completedEventBody = `{
	"id": "evt_1",
	"type": "checkout.session.completed",
	"data": {
		"object": {
			"id": "cs_test_55",
			"payment_status": "paid",
			"customer_email": "ana@example.com",
			"currency": "usd",
			"amount_total": 5099,
			"metadata": {"carrito_id": "7", "correo": "ana@example.com"}
		}
	}
}`

func TestVerifyAndParseWebhook(t *testing.T) {
	cfg := testConfig()
	now := time.Now()
	body := []byte(completedEventBody)

	event, err := VerifyAndParseWebhook(cfg, signedHeader(cfg.WebhookSecret, now, body), body, now)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if event.SessionID != "cs_test_55" {
		t.Fatalf("expected session cs_test_55, got %s", event.SessionID)
	}
	if event.CartID != 7 {
		t.Fatalf("expected cart 7, got %d", event.CartID)
	}
	if event.CustomerEmail != "ana@example.com" {
		t.Fatalf("unexpected email: %s", event.CustomerEmail)
	}
	if event.AmountTotal != "50.99" {
		t.Fatalf("expected amount 50.99, got %s", event.AmountTotal)
	}
	if !event.Completed() {
		t.Fatalf("expected completed event")
	}
}

func TestVerifyAndParseWebhookBadSignature(t *testing.T) {
	cfg := testConfig()
	now := time.Now()
	body := []byte(completedEventBody)

	_, err := VerifyAndParseWebhook(cfg, signedHeader("whsec_other", now, body), body, now)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifyAndParseWebhookTamperedBody(t *testing.T) {
	cfg := testConfig()
	now := time.Now()
	body := []byte(completedEventBody)
	header := signedHeader(cfg.WebhookSecret, now, body)

	tampered := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_evil"}}}`)
	if _, err := VerifyAndParseWebhook(cfg, header, tampered, now); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestVerifyAndParseWebhookStaleTimestamp(t *testing.T) {
	cfg := testConfig()
	now := time.Now()
	body := []byte(completedEventBody)
	old := now.Add(-time.Duration(cfg.WebhookToleranceSeconds+60) * time.Second)

	if _, err := VerifyAndParseWebhook(cfg, signedHeader(cfg.WebhookSecret, old, body), body, now); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid for stale timestamp, got %v", err)
	}
}

func TestVerifyAndParseWebhookMissingHeader(t *testing.T) {
	cfg := testConfig()
	if _, err := VerifyAndParseWebhook(cfg, "", []byte(completedEventBody), time.Now()); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid, got %v", err)
	}
}

func TestWebhookEventCompleted(t *testing.T) {
	unpaid := &WebhookEvent{EventType: "checkout.session.completed", PaymentStatus: "unpaid"}
	if unpaid.Completed() {
		t.Fatalf("unpaid session must not count as completed")
	}
	other := &WebhookEvent{EventType: "payment_intent.succeeded", PaymentStatus: "paid"}
	if other.Completed() {
		t.Fatalf("other event types must not count as completed")
	}
}

func TestToMinorAmount(t *testing.T) {
	minor, err := toMinorAmount(decimal.RequireFromString("15.99"), "USD")
	if err != nil {
		t.Fatalf("toMinorAmount failed: %v", err)
	}
	if minor != 1599 {
		t.Fatalf("expected 1599, got %d", minor)
	}

	whole, err := toMinorAmount(decimal.RequireFromString("500"), "JPY")
	if err != nil {
		t.Fatalf("toMinorAmount failed: %v", err)
	}
	if whole != 500 {
		t.Fatalf("expected 500, got %d", whole)
	}

	if _, err := toMinorAmount(decimal.RequireFromString("-1.00"), "USD"); err == nil {
		t.Fatalf("expected error for negative amount")
	}
}

func TestValidateConfig(t *testing.T) {
	cfg := testConfig()
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	missing := *cfg
	missing.SecretKey = ""
	if err := Validate(&missing); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("expected ErrConfigInvalid, got %v", err)
	}
}

func TestParseSignatureHeader(t *testing.T) {
	ts, sigs, err := parseSignatureHeader("t=1700000000,v1=aa,v1=bb,v0=ignored")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if ts != 1700000000 {
		t.Fatalf("expected timestamp 1700000000, got %d", ts)
	}
	if len(sigs) != 2 {
		t.Fatalf("expected 2 signatures, got %d", len(sigs))
	}

	if _, _, err := parseSignatureHeader("v1=aa"); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("expected ErrSignatureInvalid without timestamp, got %v", err)
	}
}
