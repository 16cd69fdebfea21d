package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"elearn/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebhookSignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"type":"payment_intent.succeeded"}`)
	secret := "whsec_abc"
	now := time.Now()

	sig := SignWebhookPayload(payload, secret, now)
	assert.NoError(t, verifyWebhookSignatureAt(payload, sig, secret, now))
}

func TestWebhookSignatureRejectsTamperedPayload(t *testing.T) {
	secret := "whsec_abc"
	now := time.Now()

	sig := SignWebhookPayload([]byte(`{"amount":100}`), secret, now)
	err := verifyWebhookSignatureAt([]byte(`{"amount":999}`), sig, secret, now)
	assert.Error(t, err)
}

func TestWebhookSignatureRejectsWrongSecret(t *testing.T) {
	payload := []byte(`{}`)
	now := time.Now()

	sig := SignWebhookPayload(payload, "whsec_abc", now)
	assert.Error(t, verifyWebhookSignatureAt(payload, sig, "whsec_other", now))
}

func TestWebhookSignatureTolerance(t *testing.T) {
	payload := []byte(`{}`)
	secret := "whsec_abc"
	signedAt := time.Now()

	sig := SignWebhookPayload(payload, secret, signedAt)

	// Inside the window
	assert.NoError(t, verifyWebhookSignatureAt(payload, sig, secret, signedAt.Add(4*time.Minute)))

	// Too old and too far in the future
	assert.Error(t, verifyWebhookSignatureAt(payload, sig, secret, signedAt.Add(6*time.Minute)))
	assert.Error(t, verifyWebhookSignatureAt(payload, sig, secret, signedAt.Add(-6*time.Minute)))
}

func TestWebhookSignatureMalformedHeaders(t *testing.T) {
	payload := []byte(`{}`)

	for _, header := range []string{"", "t=abc,v1=deadbeef", "v1=deadbeef", "t=123456"} {
		assert.Error(t, VerifyWebhookSignature(payload, header, "whsec_abc"), "header %q", header)
	}
}

func TestCreatePaymentIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.Equal(t, "2500", r.FormValue("amount"))
		assert.Equal(t, "rwf", r.FormValue("currency"))
		assert.Equal(t, "7", r.FormValue("metadata[course_id]"))

		json.NewEncoder(w).Encode(map[string]string{
			"id":            "pi_test_1",
			"client_secret": "pi_test_1_secret",
			"status":        "requires_payment_method",
		})
	}))
	defer server.Close()

	config.AppConfig = &config.Config{
		PaymentApiURL:    server.URL + "/",
		PaymentSecretKey: "sk_test_123",
	}

	intent, err := CreatePaymentIntent(25.0, "rwf", map[string]string{"course_id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "pi_test_1", intent.ID)
	assert.Equal(t, "pi_test_1_secret", intent.ClientSecret)
}

func TestCreatePaymentIntentGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":"card_declined"}`))
	}))
	defer server.Close()

	config.AppConfig = &config.Config{
		PaymentApiURL:    server.URL + "/",
		PaymentSecretKey: "sk_test_123",
	}

	_, err := CreatePaymentIntent(25.0, "rwf", nil)
	assert.Error(t, err)
}
