package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/apponta/apponta-server/internal/common"
)

// Firebase Identity Toolkit REST error codes we care about.
const (
	fbEmailExists       = "EMAIL_EXISTS"
	fbWeakPassword      = "WEAK_PASSWORD"
	fbEmailNotFound     = "EMAIL_NOT_FOUND"
	fbInvalidPassword   = "INVALID_PASSWORD"
	fbInvalidLoginCreds = "INVALID_LOGIN_CREDENTIALS"
	fbUserDisabled      = "USER_DISABLED"
)

// FirebaseProvider talks to the Firebase Identity Toolkit REST API
// (accounts:signUp, accounts:signInWithPassword, accounts:delete).
type FirebaseProvider struct {
	endpoint   string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

// NewFirebaseProvider creates a provider client. endpoint is the Identity
// Toolkit base URL (e.g. "https://identitytoolkit.googleapis.com/v1");
// timeout bounds every call.
func NewFirebaseProvider(endpoint, apiKey string, timeout time.Duration) *FirebaseProvider {
	return &FirebaseProvider{
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type fbAuthResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type fbErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *FirebaseProvider) CreateAccount(ctx context.Context, email, credential string) (*Account, error) {
	resp, err := p.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          credential,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, p.mapError(err, common.ErrorIdentity)
	}
	return &Account{ExternalID: resp.LocalID, Email: email, RemovalToken: resp.IDToken}, nil
}

func (p *FirebaseProvider) VerifyCredentials(ctx context.Context, email, credential string) (*Account, error) {
	resp, err := p.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          credential,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, p.mapError(err, common.ErrorUnauthorized)
	}
	return &Account{ExternalID: resp.LocalID, Email: email}, nil
}

func (p *FirebaseProvider) RemoveAccount(ctx context.Context, account *Account) error {
	if account == nil || account.RemovalToken == "" {
		return fmt.Errorf("%w: account has no removal token", common.ErrorConsistency)
	}
	_, err := p.post(ctx, "accounts:delete", map[string]any{
		"idToken": account.RemovalToken,
	})
	if err != nil {
		return p.mapError(err, common.ErrorIdentity)
	}
	return nil
}

// UpdateCredential signs in with the current credential to obtain a session
// token, then asks the provider to store the new credential.
func (p *FirebaseProvider) UpdateCredential(ctx context.Context, email, current, updated string) error {
	resp, err := p.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          current,
		"returnSecureToken": true,
	})
	if err != nil {
		return p.mapError(err, common.ErrorUnauthorized)
	}

	_, err = p.post(ctx, "accounts:update", map[string]any{
		"idToken":           resp.IDToken,
		"password":          updated,
		"returnSecureToken": false,
	})
	if err != nil {
		return p.mapError(err, common.ErrorIdentity)
	}
	return nil
}

// providerError carries the Identity Toolkit error code of a rejected call.
type providerError struct {
	code   string
	status int
}

func (e *providerError) Error() string {
	return fmt.Sprintf("identity provider rejected request: %s (http %d)", e.code, e.status)
}

func (p *FirebaseProvider) post(ctx context.Context, action string, body map[string]any) (*fbAuthResponse, error) {

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", p.endpoint, action, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		fbErr := &fbErrorResponse{}
		_ = json.Unmarshal(data, fbErr)
		return nil, &providerError{code: fbErr.Error.Message, status: resp.StatusCode}
	}

	out := &fbAuthResponse{}
	if err := json.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return out, nil
}

// mapError translates transport and provider failures into the shared
// taxonomy. rejection is the sentinel used for provider-side refusals
// (ErrorIdentity for sign-up, ErrorUnauthorized for sign-in).
func (p *FirebaseProvider) mapError(err error, rejection error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", common.ErrorTimeout, err)
	}

	var pe *providerError
	if errors.As(err, &pe) {
		switch {
		case strings.HasPrefix(pe.code, fbEmailExists),
			strings.HasPrefix(pe.code, fbWeakPassword):
			return fmt.Errorf("%w: %s", common.ErrorIdentity, pe.code)
		case strings.HasPrefix(pe.code, fbEmailNotFound),
			strings.HasPrefix(pe.code, fbInvalidPassword),
			strings.HasPrefix(pe.code, fbInvalidLoginCreds),
			strings.HasPrefix(pe.code, fbUserDisabled):
			// collapse all sign-in refusals into one kind
			return fmt.Errorf("%w: invalid credentials", rejection)
		default:
			return fmt.Errorf("%w: %s", rejection, pe.code)
		}
	}

	// net/http wraps context deadline errors from the client timeout
	if strings.Contains(err.Error(), "Client.Timeout") {
		return fmt.Errorf("%w: %v", common.ErrorTimeout, err)
	}

	return fmt.Errorf("identity provider call: %w", err)
}
