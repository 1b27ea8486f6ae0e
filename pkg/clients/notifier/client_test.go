package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/fabric-ledger/internal/config"
)

func TestSendPostsJSONWithToken(t *testing.T) {
	var got Message
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(config.NotifierConfig{WebhookURL: srv.URL, Token: "s3cret"})
	err := client.Send(context.Background(), Message{Title: "Weekly fabric purchases", Text: "3 records"})
	require.NoError(t, err)
	require.Equal(t, "Bearer s3cret", auth)
	require.Equal(t, Message{Title: "Weekly fabric purchases", Text: "3 records"}, got)
}

func TestSendWithoutToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(config.NotifierConfig{WebhookURL: srv.URL}).Send(context.Background(), Message{Text: "hi"}))
	require.Empty(t, auth)
}

func TestSendReportsWebhookErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer srv.Close()

	err := NewClient(config.NotifierConfig{WebhookURL: srv.URL}).Send(context.Background(), Message{Text: "hi"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "code=401")
	require.Contains(t, err.Error(), "invalid token")
}

func TestSendRequiresURL(t *testing.T) {
	err := NewClient(config.NotifierConfig{}).Send(context.Background(), Message{Text: "hi"})
	require.Error(t, err)
}
