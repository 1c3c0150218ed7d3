package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token audiences keep admin and pass tokens from being used for each other.
const (
	AudienceAdmin = "passbook-admin"
	AudiencePass  = "passbook-pass"
)

// Claims represents the admin JWT claims.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// PassClaims identify the pass a pass authentication token was issued for.
type PassClaims struct {
	PassTypeIdentifier string `json:"pass_type_identifier"`
	SerialNumber       string `json:"serial_number"`
	jwt.RegisteredClaims
}

// TokenExpiry is the admin token lifetime.
const TokenExpiry = 7 * 24 * time.Hour

// PassTokenExpiry is the pass token lifetime. Passes live on devices for a
// long time; reissuing a token revokes the previous one.
const PassTokenExpiry = 2 * 365 * 24 * time.Hour

// GenerateToken creates a new admin JWT with a unique JTI.
func GenerateToken(secret string, userID int64, username string) (string, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", fmt.Errorf("generating JTI: %w", err)
	}

	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Audience:  jwt.ClaimStrings{AudienceAdmin},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	return sign(secret, claims)
}

// ValidateToken parses and validates an admin JWT, returning the claims.
func ValidateToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if err := parse(secret, tokenStr, AudienceAdmin, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// GeneratePassToken creates the authentication token a wallet presents when
// fetching updates for the pass. The returned claims carry its JTI and expiry.
func GeneratePassToken(secret, passTypeIdentifier, serialNumber string) (string, *PassClaims, error) {
	jti, err := generateJTI()
	if err != nil {
		return "", nil, fmt.Errorf("generating JTI: %w", err)
	}

	now := time.Now()
	claims := &PassClaims{
		PassTypeIdentifier: passTypeIdentifier,
		SerialNumber:       serialNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Audience:  jwt.ClaimStrings{AudiencePass},
			ExpiresAt: jwt.NewNumericDate(now.Add(PassTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := sign(secret, claims)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ValidatePassToken validates a pass token and checks that it was issued for
// the given pass.
func ValidatePassToken(secret, tokenStr, passTypeIdentifier, serialNumber string) (*PassClaims, error) {
	claims := &PassClaims{}
	if err := parse(secret, tokenStr, AudiencePass, claims); err != nil {
		return nil, err
	}
	if claims.PassTypeIdentifier != passTypeIdentifier || claims.SerialNumber != serialNumber {
		return nil, errors.New("token was issued for another pass")
	}
	return claims, nil
}

// ParsePassToken returns the claims of a pass token without checking its
// expiry, so that an old token can still be revoked.
func ParsePassToken(secret, tokenStr string) (*PassClaims, error) {
	claims := &PassClaims{}
	if err := parse(secret, tokenStr, AudiencePass, claims, jwt.WithoutClaimsValidation()); err != nil {
		return nil, err
	}
	if !slices.Contains(claims.Audience, AudiencePass) {
		return nil, errors.New("not a pass token")
	}
	return claims, nil
}

func sign(secret string, claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

func parse(secret, tokenStr, audience string, claims jwt.Claims, opts ...jwt.ParserOption) error {
	opts = append(opts, jwt.WithAudience(audience), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

// generateJTI creates a random token ID.
func generateJTI() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
