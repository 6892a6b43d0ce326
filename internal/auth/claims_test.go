package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-at-least-32-chars!"

func newTestVerifier(t *testing.T, issuer, audience string) *Verifier {
	t.Helper()
	v, err := NewVerifier(testSecret, issuer, audience)
	if err != nil {
		t.Fatalf("NewVerifier() error = %v", err)
	}
	return v
}

func TestIssueAndParseToken(t *testing.T) {
	v := newTestVerifier(t, "graylogic", "botvac")

	token, err := v.IssueToken("controller-1", RoleOperator, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	claims, err := v.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Subject != "controller-1" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "controller-1")
	}
	if claims.Role != RoleOperator {
		t.Errorf("Role = %q, want %q", claims.Role, RoleOperator)
	}
	if claims.ID == "" {
		t.Error("JTI (ID) should not be empty")
	}
	if d := time.Until(claims.ExpiresAt.Time); d < 59*time.Minute || d > time.Hour {
		t.Errorf("expiry in %v, want ~1h", d)
	}
}

func TestIssueToken_DefaultTTL(t *testing.T) {
	v := newTestVerifier(t, "", "")

	token, err := v.IssueToken("controller-1", RoleViewer, 0)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	claims, err := v.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	diff := claims.ExpiresAt.Time.Sub(time.Now().Add(defaultTokenTTL))
	if diff < -time.Minute || diff > time.Minute {
		t.Errorf("default TTL off by %v", diff)
	}
}

func TestIssueToken_InvalidRole(t *testing.T) {
	v := newTestVerifier(t, "", "")
	if _, err := v.IssueToken("x", "owner", time.Minute); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("IssueToken() error = %v, want ErrInvalidRole", err)
	}
}

func TestNewVerifier_EmptySecret(t *testing.T) {
	if _, err := NewVerifier("", "", ""); !errors.Is(err, ErrNoSecret) {
		t.Errorf("NewVerifier() error = %v, want ErrNoSecret", err)
	}
}

func TestParseToken_Rejects(t *testing.T) {
	v := newTestVerifier(t, "graylogic", "botvac")

	sign := func(claims jwt.Claims, method jwt.SigningMethod, key any) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("signing: %v", err)
		}
		return s
	}
	valid := func() CustomClaims {
		return CustomClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "controller-1",
				Issuer:    "graylogic",
				Audience:  jwt.ClaimStrings{"botvac"},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Role: RoleAdmin,
		}
	}

	wrongSecret, _ := NewVerifier("another-secret-key-at-least-32-chars", "graylogic", "botvac")
	foreign, err := wrongSecret.IssueToken("controller-1", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	expired := valid()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noExpiry := valid()
	noExpiry.ExpiresAt = nil
	wrongIssuer := valid()
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := valid()
	wrongAudience.Audience = jwt.ClaimStrings{"other"}
	noSubject := valid()
	noSubject.Subject = ""
	badRole := valid()
	badRole.Role = "owner"

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-valid-jwt"},
		{"empty", ""},
		{"malformed", "abc.def"},
		{"wrong secret", foreign},
		{"expired", sign(expired, jwt.SigningMethodHS256, []byte(testSecret))},
		{"no expiry", sign(noExpiry, jwt.SigningMethodHS256, []byte(testSecret))},
		{"wrong issuer", sign(wrongIssuer, jwt.SigningMethodHS256, []byte(testSecret))},
		{"wrong audience", sign(wrongAudience, jwt.SigningMethodHS256, []byte(testSecret))},
		{"missing subject", sign(noSubject, jwt.SigningMethodHS256, []byte(testSecret))},
		{"unknown role", sign(badRole, jwt.SigningMethodHS256, []byte(testSecret))},
		{"HS512", sign(valid(), jwt.SigningMethodHS512, []byte(testSecret))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.ParseToken(tt.token); !errors.Is(err, ErrTokenInvalid) {
				t.Errorf("ParseToken() error = %v, want ErrTokenInvalid", err)
			}
		})
	}

	if _, err := v.ParseToken(sign(valid(), jwt.SigningMethodHS256, []byte(testSecret))); err != nil {
		t.Errorf("ParseToken(valid) error = %v", err)
	}
}
