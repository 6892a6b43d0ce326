package nucleo

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Sign returns the hex HMAC-SHA256 signature of a Nucleo request.
func Sign(secret, serial, date string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.ToLower(serial)))
	mac.Write([]byte("\n"))
	mac.Write([]byte(date))
	mac.Write([]byte("\n"))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// SecretStore provides the secret key of each robot.
type SecretStore interface {
	// Secret returns the secret for serial, or an error wrapping ErrNoSecret.
	Secret(ctx context.Context, serial string) (string, error)
}

// StaticSecrets is a SecretStore backed by a map of serial to secret.
type StaticSecrets map[string]string

// Secret implements SecretStore.
func (s StaticSecrets) Secret(_ context.Context, serial string) (string, error) {
	secret, ok := s[serial]
	if !ok || secret == "" {
		return "", fmt.Errorf("%w: %s", ErrNoSecret, serial)
	}
	return secret, nil
}
