package yandex

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Egoriy286/yandex-cloud-instance-start/internal/config"
	"github.com/Egoriy286/yandex-cloud-instance-start/internal/tokencache"
)

const (
	// tokenSafetyMargin is how long before expiry a cached token is already
	// treated as stale, in seconds.
	tokenSafetyMargin = 300

	// assertionTTL is the lifetime of the signed service-account assertion.
	assertionTTL = time.Hour
)

// TokenSource supplies a valid IAM bearer token for outbound compute calls,
// refreshing through the token endpoint only when the cached token is missing
// or inside the safety margin. No locking around the cache: a concurrent
// refresh is idempotent and at worst redundant.
type TokenSource struct {
	cred       *config.Credential
	endpoint   string
	cache      tokencache.Store
	signKey    *rsa.PrivateKey
	httpClient *http.Client
	now        func() time.Time
}

// NewTokenSource parses the service-account private key and builds a token
// source exchanging assertions at endpoint.
func NewTokenSource(cred *config.Credential, endpoint string, cache tokencache.Store) (*TokenSource, error) {
	signKey, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(cred.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account private key: %w", err)
	}

	return &TokenSource{
		cred:       cred,
		endpoint:   endpoint,
		cache:      cache,
		signKey:    signKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		now:        time.Now,
	}, nil
}

// Token returns a bearer token valid for at least the safety margin. A fresh
// token is persisted to the cache before being returned; a failed persist is
// logged and swallowed since the token is still valid in memory.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	token, expiry := ts.cache.Load()
	now := ts.now().Unix()

	if token != "" && now < expiry-tokenSafetyMargin {
		logx.Debug("Using cached IAM token, expires at %d", expiry)
		return token, nil
	}

	logx.Info("IAM token expired or missing, refreshing")

	token, expiry, err := ts.exchange(ctx)
	if err != nil {
		return "", err
	}

	if err := ts.cache.Save(token, expiry); err != nil {
		logx.Error("Failed to persist IAM token cache: %v", err)
	}

	logx.Info("IAM token refreshed, expires at %d", expiry)
	return token, nil
}

// exchange signs a fresh assertion and trades it for an IAM token.
func (ts *TokenSource) exchange(ctx context.Context) (string, int64, error) {
	assertion, err := ts.signedAssertion()
	if err != nil {
		return "", 0, &AuthError{Err: err}
	}

	body, err := json.Marshal(map[string]string{"jwt": assertion})
	if err != nil {
		return "", 0, &AuthError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", 0, &AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return "", 0, &AuthError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, &AuthError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", 0, &AuthError{Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))}
	}

	var tr struct {
		IAMToken  string `json:"iamToken"`
		ExpiresAt string `json:"expiresAt"`
	}
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return "", 0, &AuthError{Err: fmt.Errorf("malformed token response: %w", err)}
	}
	if tr.IAMToken == "" {
		return "", 0, &AuthError{Err: fmt.Errorf("token response carries no iamToken")}
	}

	expiresAt, err := time.Parse(time.RFC3339, tr.ExpiresAt)
	if err != nil {
		return "", 0, &AuthError{Err: fmt.Errorf("malformed expiresAt %q: %w", tr.ExpiresAt, err)}
	}

	return tr.IAMToken, expiresAt.Unix(), nil
}

// signedAssertion builds the PS256-signed service-account JWT with the key id
// in the header. The audience is the token endpoint itself.
func (ts *TokenSource) signedAssertion() (string, error) {
	now := ts.now()

	claims := jwt.MapClaims{
		"aud": ts.endpoint,
		"iss": ts.cred.ServiceAccountID,
		"iat": now.Unix(),
		"exp": now.Add(assertionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodPS256, claims)
	token.Header["kid"] = ts.cred.KeyID

	signed, err := token.SignedString(ts.signKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign assertion: %w", err)
	}

	return signed, nil
}
