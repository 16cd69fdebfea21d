package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"elearn/config"

	"github.com/go-resty/resty/v2"
)

// PaymentIntent is the processor's handle for a pending charge
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
}

// CreatePaymentIntent registers a charge with the external processor and
// returns the intent the client confirms on its side. Amount is converted to
// minor units the way the processor expects.
func CreatePaymentIntent(amount float64, currency string, metadata map[string]string) (*PaymentIntent, error) {
	client := resty.New().SetTimeout(15 * time.Second)

	form := map[string]string{
		"amount":   strconv.FormatInt(int64(amount*100), 10),
		"currency": currency,
	}
	for k, v := range metadata {
		form["metadata["+k+"]"] = v
	}

	resp, err := client.R().
		SetHeader("Authorization", "Bearer "+config.AppConfig.PaymentSecretKey).
		SetFormData(form).
		Post(config.AppConfig.PaymentApiURL + "payment_intents")
	if err != nil {
		return nil, fmt.Errorf("payment processor unreachable: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("payment processor returned %d: %s", resp.StatusCode(), resp.String())
	}

	var intent PaymentIntent
	if err := json.Unmarshal(resp.Body(), &intent); err != nil {
		return nil, fmt.Errorf("invalid payment processor response: %w", err)
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("payment processor response missing intent id")
	}

	return &intent, nil
}

// webhookTolerance bounds how old a signed webhook timestamp may be
const webhookTolerance = 5 * time.Minute

// VerifyWebhookSignature checks the processor's signature header against the
// raw payload. The header carries "t=<unix>,v1=<hex hmac-sha256>" where the
// MAC covers "<t>.<payload>".
func VerifyWebhookSignature(payload []byte, sigHeader, secret string) error {
	return verifyWebhookSignatureAt(payload, sigHeader, secret, time.Now())
}

func verifyWebhookSignatureAt(payload []byte, sigHeader, secret string, at time.Time) error {
	if sigHeader == "" {
		return fmt.Errorf("missing signature header")
	}

	var timestamp int64
	var signatures []string

	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return fmt.Errorf("malformed signature timestamp")
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return fmt.Errorf("malformed signature header")
	}

	age := at.Sub(time.Unix(timestamp, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}

	return fmt.Errorf("signature mismatch")
}

// SignWebhookPayload produces the signature header for a payload. The test
// processor and the webhook tests use it to emit valid events.
func SignWebhookPayload(payload []byte, secret string, at time.Time) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return "t=" + ts + ",v1=" + hex.EncodeToString(mac.Sum(nil))
}
