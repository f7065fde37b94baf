package abstractapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReputationValidatorRequiresKey(t *testing.T) {
	_, err := NewReputationValidator("", 5*time.Second)
	assert.Error(t, err)

	v, err := NewReputationValidator("key", 0)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, v.client.Timeout)
}

func TestAssessPolicy(t *testing.T) {
	cases := []struct {
		name    string
		result  reputationResult
		wantErr string
	}{
		{"clean personal address", reputationResult{EmailReputation: "HIGH"}, ""},
		{"medium reputation passes", reputationResult{EmailReputation: "MEDIUM"}, ""},
		{"disposable inbox", reputationResult{IsDisposable: true, EmailReputation: "HIGH"}, "disposable email is not allowed"},
		{"role address", reputationResult{IsRoleEmail: true, EmailReputation: "HIGH"}, "role-based email is not allowed"},
		{"low reputation", reputationResult{EmailReputation: "LOW"}, "email reputation is too low"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := assess(c.result)
			if c.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, c.wantErr)
			}
		})
	}
}

func TestValidateCallsAPIWithConfiguredKey(t *testing.T) {
	var gotKey, gotEmail string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		gotEmail = r.URL.Query().Get("email")
		w.Write([]byte(`{"email_reputation":"HIGH","is_disposable_email":false,"is_role_email":false}`))
	}))
	defer srv.Close()

	v, err := NewReputationValidator("test-key", time.Second)
	require.NoError(t, err)
	v.baseURL = srv.URL

	err = v.Validate(context.Background(), "somchai@example.com")

	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "somchai@example.com", gotEmail)
}

func TestValidateRejectsDisposableResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email_reputation":"HIGH","is_disposable_email":true,"is_role_email":false}`))
	}))
	defer srv.Close()

	v, err := NewReputationValidator("test-key", time.Second)
	require.NoError(t, err)
	v.baseURL = srv.URL

	err = v.Validate(context.Background(), "throwaway@mailinator.com")

	assert.EqualError(t, err, "disposable email is not allowed")
}

func TestValidateSurfacesServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	v, err := NewReputationValidator("test-key", time.Second)
	require.NoError(t, err)
	v.baseURL = srv.URL

	err = v.Validate(context.Background(), "somchai@example.com")

	assert.ErrorContains(t, err, "email reputation service error")
}
