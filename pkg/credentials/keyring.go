package credentials

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const serviceName = "chative-customer-service"

type KeyType string

const (
	KeyGitHubToken KeyType = "github_token"
)

func Set(key KeyType, value string) error {
	return keyring.Set(serviceName, string(key), value)
}

func Get(key KeyType) (string, error) {
	return keyring.Get(serviceName, string(key))
}

func Delete(key KeyType) error {
	err := keyring.Delete(serviceName, string(key))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// GetOrEnv prefers envValue and falls back to the OS keyring.
func GetOrEnv(key KeyType, envValue string) string {
	if v := strings.TrimSpace(envValue); v != "" {
		return v
	}
	val, err := Get(key)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(val)
}
