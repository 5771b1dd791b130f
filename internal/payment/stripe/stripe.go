package stripe

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrConfigInvalid    = errors.New("stripe config invalid")
	ErrRequestFailed    = errors.New("stripe request failed")
	ErrResponseInvalid  = errors.New("stripe response invalid")
	ErrSignatureInvalid = errors.New("stripe signature invalid")
)

const (
	defaultAPIBaseURL        = "https://api.stripe.com"
	defaultTimeout           = 12 * time.Second
	defaultWebhookToleranceS = 300
)

// Config holds the checkout-session provider credentials. It is constructed
// once at startup from app config and passed to the checkout and webhook
// code paths; nothing in this package keeps global state.
type Config struct {
	SecretKey               string
	WebhookSecret           string
	SuccessURL              string
	CancelURL               string
	APIBaseURL              string
	WebhookToleranceSeconds int
}

// Line is one checkout line: a product selection or the shipping charge.
type Line struct {
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// CreateSessionInput describes a checkout session to open.
type CreateSessionInput struct {
	CartID     uint
	BuyerEmail string
	BuyerName  string
	Currency   string
	Lines      []Line
}

// CreateSessionResult is the provider's answer: the session id plus the URL
// the storefront redirects the buyer to.
type CreateSessionResult struct {
	SessionID string
	URL       string
	Status    string
	Raw       map[string]interface{}
}

// WebhookEvent is a verified, parsed webhook delivery.
type WebhookEvent struct {
	EventID       string
	EventType     string
	SessionID     string
	CartID        uint
	CustomerEmail string
	PaymentStatus string
	AmountTotal   string
	Currency      string
	Raw           map[string]interface{}
}

// Completed reports whether the event is a paid checkout session.
func (e *WebhookEvent) Completed() bool {
	return e != nil &&
		e.EventType == "checkout.session.completed" &&
		strings.EqualFold(e.PaymentStatus, "paid")
}

// Normalize fills config defaults.
func (c *Config) Normalize() {
	c.SecretKey = strings.TrimSpace(c.SecretKey)
	c.WebhookSecret = strings.TrimSpace(c.WebhookSecret)
	c.SuccessURL = strings.TrimSpace(c.SuccessURL)
	c.CancelURL = strings.TrimSpace(c.CancelURL)
	c.APIBaseURL = strings.TrimSpace(c.APIBaseURL)
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.WebhookToleranceSeconds <= 0 {
		c.WebhookToleranceSeconds = defaultWebhookToleranceS
	}
}

// Validate checks that the config can reach the provider.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrConfigInvalid)
	}
	if cfg.SecretKey == "" {
		return fmt.Errorf("%w: secret_key is required", ErrConfigInvalid)
	}
	if cfg.WebhookSecret == "" {
		return fmt.Errorf("%w: webhook_secret is required", ErrConfigInvalid)
	}
	if cfg.SuccessURL == "" {
		return fmt.Errorf("%w: success_url is required", ErrConfigInvalid)
	}
	if cfg.CancelURL == "" {
		return fmt.Errorf("%w: cancel_url is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return fmt.Errorf("%w: api_base_url is invalid", ErrConfigInvalid)
	}
	return nil
}

// CreateCheckoutSession opens a hosted checkout session with one provider
// line per input line. Cart id and buyer email travel in session metadata so
// the webhook can find the cart to finalize.
func CreateCheckoutSession(ctx context.Context, cfg *Config, input CreateSessionInput) (*CreateSessionResult, error) {
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if input.CartID == 0 {
		return nil, fmt.Errorf("%w: cart id is required", ErrConfigInvalid)
	}
	if len(input.Lines) == 0 {
		return nil, fmt.Errorf("%w: at least one line is required", ErrConfigInvalid)
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "USD"
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", cfg.SuccessURL)
	form.Set("cancel_url", cfg.CancelURL)
	form.Set("client_reference_id", strconv.FormatUint(uint64(input.CartID), 10))
	if email := strings.TrimSpace(input.BuyerEmail); email != "" {
		form.Set("customer_email", email)
	}
	for i, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %d has non-positive quantity", ErrConfigInvalid, i)
		}
		minor, err := toMinorAmount(line.UnitPrice, currency)
		if err != nil {
			return nil, err
		}
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(line.Quantity))
		form.Set(prefix+"[price_data][currency]", strings.ToLower(currency))
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(minor, 10))
		form.Set(prefix+"[price_data][product_data][name]", line.Name)
	}
	form.Set("metadata[carrito_id]", strconv.FormatUint(uint64(input.CartID), 10))
	form.Set("metadata[correo]", strings.TrimSpace(input.BuyerEmail))
	form.Set("metadata[nombre]", strings.TrimSpace(input.BuyerName))

	respBody, statusCode, err := doFormRequest(ctx, cfg, http.MethodPost, "/v1/checkout/sessions", form)
	if err != nil {
		return nil, err
	}
	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("%w: create checkout session status %d", ErrResponseInvalid, statusCode)
	}

	raw, err := decodeRawMap(respBody)
	if err != nil {
		return nil, err
	}
	result := &CreateSessionResult{
		SessionID: strings.TrimSpace(readString(raw, "id")),
		URL:       strings.TrimSpace(readString(raw, "url")),
		Status:    strings.TrimSpace(readString(raw, "status")),
		Raw:       raw,
	}
	if result.SessionID == "" || result.URL == "" {
		return nil, fmt.Errorf("%w: missing session id or url", ErrResponseInvalid)
	}
	return result, nil
}

// VerifyAndParseWebhook checks the Stripe-Signature header against the raw
// body and returns the parsed event. Signature failure is terminal; the
// caller must respond 4xx without touching any state.
func VerifyAndParseWebhook(cfg *Config, signatureHeader string, body []byte, now time.Time) (*WebhookEvent, error) {
	if cfg == nil || cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("%w: webhook_secret is required", ErrConfigInvalid)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: body is empty", ErrResponseInvalid)
	}
	if now.IsZero() {
		now = time.Now()
	}
	if strings.TrimSpace(signatureHeader) == "" {
		return nil, fmt.Errorf("%w: Stripe-Signature is required", ErrSignatureInvalid)
	}

	timestamp, signatures, err := parseSignatureHeader(signatureHeader)
	if err != nil {
		return nil, err
	}
	tolerance := cfg.WebhookToleranceSeconds
	if tolerance <= 0 {
		tolerance = defaultWebhookToleranceS
	}
	if math.Abs(float64(now.Unix()-timestamp)) > float64(tolerance) {
		return nil, fmt.Errorf("%w: timestamp outside tolerance", ErrSignatureInvalid)
	}

	expected := computeSignature(cfg.WebhookSecret, timestamp, body)
	matched := false
	for _, sig := range signatures {
		if hmac.Equal([]byte(strings.ToLower(sig)), []byte(expected)) {
			matched = true
			break
		}
	}
	if !matched {
		return nil, fmt.Errorf("%w: verify failed", ErrSignatureInvalid)
	}

	eventRaw, err := decodeRawMap(body)
	if err != nil {
		return nil, err
	}
	eventType := strings.TrimSpace(readString(eventRaw, "type"))
	if eventType == "" {
		return nil, fmt.Errorf("%w: missing event type", ErrResponseInvalid)
	}
	dataRaw, ok := eventRaw["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing data object", ErrResponseInvalid)
	}
	objectRaw, ok := dataRaw["object"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: missing event object", ErrResponseInvalid)
	}

	event := &WebhookEvent{
		EventID:       strings.TrimSpace(readString(eventRaw, "id")),
		EventType:     eventType,
		SessionID:     strings.TrimSpace(readString(objectRaw, "id")),
		CustomerEmail: strings.TrimSpace(readString(objectRaw, "customer_email")),
		PaymentStatus: strings.TrimSpace(readString(objectRaw, "payment_status")),
		Currency:      strings.ToUpper(strings.TrimSpace(readString(objectRaw, "currency"))),
		Raw:           eventRaw,
	}
	if metadata := readMap(objectRaw, "metadata"); metadata != nil {
		event.CartID = parseCartID(metadata)
		if event.CustomerEmail == "" {
			event.CustomerEmail = strings.TrimSpace(readString(metadata, "correo"))
		}
	}
	if details := readMap(objectRaw, "customer_details"); details != nil && event.CustomerEmail == "" {
		event.CustomerEmail = strings.TrimSpace(readString(details, "email"))
	}
	if minor := readInt64(objectRaw, "amount_total"); minor > 0 && event.Currency != "" {
		event.AmountTotal = fromMinorAmount(minor, event.Currency)
	}
	return event, nil
}

// Currencies billed in whole units rather than cents.
var zeroDecimalCurrencies = map[string]struct{}{
	"BIF": {}, "CLP": {}, "DJF": {}, "GNF": {}, "JPY": {}, "KMF": {},
	"KRW": {}, "MGA": {}, "PYG": {}, "RWF": {}, "UGX": {}, "VND": {},
	"VUV": {}, "XAF": {}, "XOF": {}, "XPF": {},
}

func currencyScale(currency string) int {
	if _, ok := zeroDecimalCurrencies[strings.ToUpper(currency)]; ok {
		return 0
	}
	return 2
}

func toMinorAmount(amount decimal.Decimal, currency string) (int64, error) {
	scale := currencyScale(currency)
	scaled := amount.Shift(int32(scale)).Round(0)
	if !scaled.IsInteger() || scaled.IsNegative() {
		return 0, fmt.Errorf("%w: invalid amount %s", ErrConfigInvalid, amount.String())
	}
	return scaled.IntPart(), nil
}

func fromMinorAmount(minor int64, currency string) string {
	scale := currencyScale(currency)
	return decimal.NewFromInt(minor).Shift(-int32(scale)).StringFixed(int32(scale))
}

func doFormRequest(ctx context.Context, cfg *Config, method, path string, form url.Values) ([]byte, int, error) {
	requestCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, cfg.APIBaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read body: %v", ErrRequestFailed, err)
	}
	return body, resp.StatusCode, nil
}

func decodeRawMap(body []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode json: %v", ErrResponseInvalid, err)
	}
	return raw, nil
}

func computeSignature(secret string, timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var timestamp int64
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		pair := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(pair) != 2 {
			continue
		}
		switch pair[0] {
		case "t":
			parsed, err := strconv.ParseInt(pair[1], 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("%w: bad timestamp", ErrSignatureInvalid)
			}
			timestamp = parsed
		case "v1":
			signatures = append(signatures, pair[1])
		}
	}
	if timestamp == 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("%w: missing timestamp or signature", ErrSignatureInvalid)
	}
	return timestamp, signatures, nil
}

func parseCartID(metadata map[string]interface{}) uint {
	raw := strings.TrimSpace(readString(metadata, "carrito_id"))
	if raw == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

func readString(raw map[string]interface{}, key string) string {
	if raw == nil {
		return ""
	}
	if value, ok := raw[key].(string); ok {
		return value
	}
	return ""
}

func readMap(raw map[string]interface{}, key string) map[string]interface{} {
	if raw == nil {
		return nil
	}
	if value, ok := raw[key].(map[string]interface{}); ok {
		return value
	}
	return nil
}

func readInt64(raw map[string]interface{}, key string) int64 {
	if raw == nil {
		return 0
	}
	switch value := raw[key].(type) {
	case float64:
		return int64(value)
	case int64:
		return value
	case json.Number:
		parsed, err := value.Int64()
		if err == nil {
			return parsed
		}
	}
	return 0
}
