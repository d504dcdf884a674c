// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/expense-tracker/backend/internal/application/adapter"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

const (
	// jwksCacheTTL bounds how long fetched signing keys are trusted.
	jwksCacheTTL = 10 * time.Minute
	// jwksMinRefresh limits refetches triggered by unknown key ids.
	jwksMinRefresh = 6 * time.Second
)

// TokenVerifierConfig configures bearer token verification.
type TokenVerifierConfig struct {
	Secret   string // HS256 shared secret; used when JWKSURI is empty
	JWKSURI  string
	Issuer   string
	Audience string
}

// CustomClaims represents the claims read from identity provider tokens.
type CustomClaims struct {
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	jwt.RegisteredClaims
}

// tokenVerifier implements the adapter.TokenVerifier interface.
type tokenVerifier struct {
	secret []byte
	parser *jwt.Parser
	jwks   *jwksCache
}

// NewTokenVerifier creates a token verifier. With a JWKS URI tokens must be RS256
// signed by a published key; otherwise they must be HS256 signed with the secret.
func NewTokenVerifier(cfg TokenVerifierConfig, client *http.Client) adapter.TokenVerifier {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(strings.TrimSuffix(cfg.Issuer, "/")))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	v := &tokenVerifier{secret: []byte(cfg.Secret)}
	if cfg.JWKSURI != "" {
		if client == nil {
			client = &http.Client{Timeout: 5 * time.Second}
		}
		v.jwks = &jwksCache{uri: cfg.JWKSURI, client: client, keys: map[string]*rsa.PublicKey{}}
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	} else {
		opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	}
	v.parser = jwt.NewParser(opts...)

	return v
}

// Verify validates the token and returns its claims.
func (v *tokenVerifier) Verify(ctx context.Context, token string) (*adapter.TokenClaims, error) {
	claims := &CustomClaims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if v.jwks == nil {
			return v.secret, nil
		}
		kid, _ := t.Header["kid"].(string)
		return v.jwks.key(ctx, kid)
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", domainerror.ErrExpiredToken, err)
		case errors.Is(err, domainerror.ErrUnknownSigningKey):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %v", domainerror.ErrInvalidToken, err)
		}
	}

	email := claims.Email
	if email == "" {
		email = claims.PreferredUsername
	}

	return &adapter.TokenClaims{
		Subject: claims.Subject,
		Email:   email,
		Issuer:  claims.Issuer,
	}, nil
}

// jwksCache holds the identity provider's RSA signing keys by key id.
type jwksCache struct {
	uri    string
	client *http.Client

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

func (c *jwksCache) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if k, ok := c.lookup(kid); ok && time.Since(c.fetchedAt) < jwksCacheTTL {
		return k, nil
	}

	if time.Since(c.fetchedAt) >= jwksMinRefresh {
		if err := c.refresh(ctx); err != nil {
			return nil, err
		}
	}

	if k, ok := c.lookup(kid); ok {
		return k, nil
	}
	return nil, fmt.Errorf("%w: kid %q", domainerror.ErrUnknownSigningKey, kid)
}

// lookup finds a key by id. An empty id matches a single published key.
func (c *jwksCache) lookup(kid string) (*rsa.PublicKey, bool) {
	if kid == "" && len(c.keys) == 1 {
		for _, k := range c.keys {
			return k, true
		}
	}
	k, ok := c.keys[kid]
	return k, ok
}

type jsonWebKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (c *jwksCache) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.uri, nil)
	if err != nil {
		return fmt.Errorf("failed to build JWKS request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch JWKS: status %d", resp.StatusCode)
	}

	var set struct {
		Keys []jsonWebKey `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("failed to decode JWKS: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, jwk := range set.Keys {
		if jwk.Kty != "RSA" || (jwk.Use != "" && jwk.Use != "sig") {
			continue
		}
		pub, err := rsaPublicKey(jwk)
		if err != nil {
			continue
		}
		keys[jwk.Kid] = pub
	}

	c.keys = keys
	c.fetchedAt = time.Now()
	return nil
}

func rsaPublicKey(jwk jsonWebKey) (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, err
	}
	e, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, err
	}
	exp := new(big.Int).SetBytes(e)
	if !exp.IsInt64() || exp.Int64() > 1<<31-1 {
		return nil, errors.New("exponent too large")
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: int(exp.Int64())}, nil
}
