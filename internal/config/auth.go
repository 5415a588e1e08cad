package config

import (
	"fmt"
	"time"
)

type Auth struct {
	// SecretKey signs access tokens. The process refuses to boot without it.
	SecretKey string        `env:"AUTH_SECRET_KEY,required"`
	Algorithm SigningAlg    `env:"AUTH_ALGORITHM,required"`
	TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"30m"`
}

// SigningAlg is the HMAC signing algorithm used for access tokens.
type SigningAlg string

const (
	SigningAlgHS256 SigningAlg = "HS256"
	SigningAlgHS384 SigningAlg = "HS384"
	SigningAlgHS512 SigningAlg = "HS512"
)

// UnmarshalText implements [encoding.TextUnmarshaler].
func (a *SigningAlg) UnmarshalText(text []byte) error {
	switch SigningAlg(text) {
	case SigningAlgHS256, SigningAlgHS384, SigningAlgHS512:
		*a = SigningAlg(text)
	default:
		return fmt.Errorf("unknown signing algorithm: %s", text)
	}
	return nil
}

func (a SigningAlg) MarshalText() ([]byte, error) {
	return []byte(a), nil
}
