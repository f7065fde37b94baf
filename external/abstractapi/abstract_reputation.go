package abstractapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://emailreputation.abstractapi.com/v1/"

// ReputationValidator rejects registration emails that the Abstract
// email-reputation API scores poorly. It sits behind
// services.EmailValidator; the local regex validator is the fallback
// when reputation checking is disabled in config.
type ReputationValidator struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewReputationValidator builds a validator from the configured API key
// and request timeout (email.abstract_key, email.timeout_seconds).
func NewReputationValidator(apiKey string, timeout time.Duration) (*ReputationValidator, error) {
	if apiKey == "" {
		return nil, errors.New("abstract api key is not configured")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ReputationValidator{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type reputationResult struct {
	EmailReputation string `json:"email_reputation"` // LOW, MEDIUM, HIGH
	IsDisposable    bool   `json:"is_disposable_email"`
	IsRoleEmail     bool   `json:"is_role_email"`
}

func (v *ReputationValidator) Validate(ctx context.Context, email string) error {
	u, err := url.Parse(v.baseURL)
	if err != nil {
		return err
	}
	q := u.Query()
	q.Set("api_key", v.apiKey)
	q.Set("email", email)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email reputation service error: %s", resp.Status)
	}

	var out reputationResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}

	return assess(out)
}

// assess applies the acceptance policy: guest orders and registrations
// go through with any deliverable personal address, but disposable
// inboxes, role addresses and known-bad reputations are turned away.
func assess(out reputationResult) error {
	if out.IsDisposable {
		return errors.New("disposable email is not allowed")
	}
	if out.IsRoleEmail {
		return errors.New("role-based email is not allowed")
	}
	if out.EmailReputation == "LOW" {
		return errors.New("email reputation is too low")
	}
	return nil
}
