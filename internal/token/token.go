// Package token signs and verifies the compact HMAC credentials used for
// session auth, playback access, and chat access.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Audiences a token can be minted for. Verification requires an exact match
// so a chat token can never pass as a playback token.
const (
	AudienceSession  = "session"
	AudiencePlayback = "playback"
	AudienceChat     = "chat"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the signed payload of a token.
type Claims struct {
	Subject   string `json:"sub"`
	Audience  string `json:"aud"`
	Scope     string `json:"scope,omitempty"`
	ExpiresAt int64  `json:"exp"`
}

// Signer mints and verifies tokens with a single HMAC-SHA256 key.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer from the shared secret.
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("token secret cannot be empty")
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign mints a token for subject, valid for ttl. Scope narrows the token to
// one resource (a stream session id for playback tokens); it may be empty.
func (s *Signer) Sign(subject, audience, scope string, ttl time.Duration) (string, error) {
	claims := Claims{
		Subject:   subject,
		Audience:  audience,
		Scope:     scope,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}

	data, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("failed to marshal claims: %w", err)
	}

	payload := base64.RawURLEncoding.EncodeToString(data)
	return payload + "." + s.signature(payload), nil
}

// Verify checks the signature and expiry and that the token was minted for
// audience. Returns the claims on success.
func (s *Signer) Verify(tok, audience string) (*Claims, error) {
	payload, sig, ok := strings.Cut(tok, ".")
	if !ok {
		return nil, ErrInvalidToken
	}

	if !hmac.Equal([]byte(s.signature(payload)), []byte(sig)) {
		return nil, ErrInvalidToken
	}

	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, ErrInvalidToken
	}

	if claims.Audience != audience {
		return nil, ErrInvalidToken
	}
	if time.Now().Unix() >= claims.ExpiresAt {
		return nil, ErrExpiredToken
	}

	return &claims, nil
}

func (s *Signer) signature(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
