// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// auth service.
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/bookshelf/pkg/uuid"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// The subject is the decimal user id. The registered ID (jti) is unique per
// token so a single token can be revoked on logout.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	Username string `json:"unm,omitempty"`
}

// TokenService handles generation and verification of JWT tokens.
//
// It signs with HS256 and a shared secret by default, or with RS256 when
// built from a PEM key pair.
type TokenService struct {
	method    jwt.SigningMethod
	signKey   any
	verifyKey any
	issuer    string
}

// NewHMACTokenService creates a TokenService that signs with HS256.
func NewHMACTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("sec: empty HMAC secret")
	}

	key := []byte(secret)
	return &TokenService{
		method:    jwt.SigningMethodHS256,
		signKey:   key,
		verifyKey: key,
		issuer:    issuer,
	}, nil
}

// NewRSATokenService creates a TokenService that signs with RS256.
// It reads RSA keys from the provided filesystem paths.
func NewRSATokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKey, err := readPrivateKey(privateKeyPath)
	if err != nil {
		return nil, err
	}

	publicKey, err := readPublicKey(publicKeyPath)
	if err != nil {
		return nil, err
	}

	return &TokenService{
		method:    jwt.SigningMethodRS256,
		signKey:   privateKey,
		verifyKey: publicKey,
		issuer:    issuer,
	}, nil
}

func readPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", path, err)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}
	return key, nil
}

func readPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", path, err)
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse public key: %w", err)
	}
	return key, nil
}

// GenerateAccessToken creates a new signed JWT access token for a user.
//
// # Returns
//   - The signed token string.
//   - The claims that were embedded, including the generated token ID.
func (service *TokenService) GenerateAccessToken(subject, username string, timeToLive time.Duration) (string, *AuthClaims, error) {
	currentTime := time.Now()
	claims := &AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New(),
			Subject:   subject,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Username: username,
	}

	token := jwt.NewWithClaims(service.method, claims)
	signedToken, err := token.SignedString(service.signKey)
	if err != nil {
		return "", nil, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, claims, nil
}

// VerifyToken checks the signature, algorithm and expiry of a JWT string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != service.method.Alg() {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.verifyKey, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, errors.New("sec: invalid token claims")
	}

	// Revocation is keyed by jti, so a token without one could never be revoked.
	if !uuid.IsValid(claims.ID) {
		return nil, errors.New("sec: token has no valid id")
	}

	return claims, nil
}
