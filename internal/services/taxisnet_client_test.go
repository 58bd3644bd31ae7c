package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/govgr-digital/profile-api/internal/config"
	"github.com/govgr-digital/profile-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTaxisnetClient(baseURL string) *TaxisnetClient {
	client := NewTaxisnetClient(&config.Config{
		TaxisnetBaseURL: baseURL,
		TaxisnetTimeout: 5 * time.Second,
	}, nil)
	client.retryConfig = RetryConfig{
		MaxRetries:    2,
		BaseDelay:     time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
	return client
}

func TestFetchCitizenDataSuccess(t *testing.T) {
	var gotBody taxisnetRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/citizen-data", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(taxisnetResponse{
			Success: true,
			Data:    sampleRetrievalResult(),
		})
	}))
	defer server.Close()

	client := newTestTaxisnetClient(server.URL)
	result, err := client.FetchCitizenData(context.Background(), "user1", "secret")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "user1", gotBody.Username)
	assert.Equal(t, "secret", gotBody.Password)
	assert.Equal(t, "Παπαδόπουλος Γιώργος", result.Fullname)
	require.NotNil(t, result.Address)
	assert.Equal(t, "Σταδίου", result.Address.Street)
}

func TestFetchCitizenDataProviderRejection(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(taxisnetResponse{
			Success: false,
			Message: "invalid credentials",
		})
	}))
	defer server.Close()

	client := newTestTaxisnetClient(server.URL)
	result, err := client.FetchCitizenData(context.Background(), "user1", "wrong")

	assert.ErrorIs(t, err, models.ErrProviderRejected)
	assert.Nil(t, result)
	assert.Equal(t, int32(1), calls.Load(), "a definitive rejection is never retried")
}

func TestFetchCitizenDataRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(taxisnetResponse{
			Success: true,
			Data:    sampleRetrievalResult(),
		})
	}))
	defer server.Close()

	client := newTestTaxisnetClient(server.URL)
	result, err := client.FetchCitizenData(context.Background(), "user1", "secret")

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchCitizenDataExhaustedRetriesIsTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestTaxisnetClient(server.URL)
	result, err := client.FetchCitizenData(context.Background(), "user1", "secret")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.NotErrorIs(t, err, models.ErrProviderRejected)
}

func TestFetchCitizenDataUnreachableServer(t *testing.T) {
	client := newTestTaxisnetClient("http://127.0.0.1:1")

	result, err := client.FetchCitizenData(context.Background(), "user1", "secret")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.NotErrorIs(t, err, models.ErrProviderRejected)
}

func TestFetchCitizenDataSuccessWithoutData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(taxisnetResponse{Success: true})
	}))
	defer server.Close()

	client := newTestTaxisnetClient(server.URL)
	result, err := client.FetchCitizenData(context.Background(), "user1", "secret")

	assert.ErrorIs(t, err, models.ErrMalformedRetrieval)
	assert.Nil(t, result)
}

func TestFetchCitizenDataUndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway maintenance</html>"))
	}))
	defer server.Close()

	client := newTestTaxisnetClient(server.URL)
	result, err := client.FetchCitizenData(context.Background(), "user1", "secret")

	require.Error(t, err)
	assert.Nil(t, result)
	assert.NotErrorIs(t, err, models.ErrProviderRejected)
}

func TestFetchCitizenDataContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := newTestTaxisnetClient(server.URL)
	_, err := client.FetchCitizenData(ctx, "user1", "secret")

	require.Error(t, err)
}
