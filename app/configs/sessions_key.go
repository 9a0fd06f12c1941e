package configs

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/gorilla/securecookie"
)

type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
	CSRFKey []byte
}

func decodeKey(name, value string, validLens ...int) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%s environment variable not set", name)
	}
	key, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s from base64: %w", name, err)
	}
	if len(validLens) == 0 {
		return key, nil
	}
	for _, l := range validLens {
		if len(key) == l {
			return key, nil
		}
	}
	return nil, fmt.Errorf("%s has invalid length %d after decoding", name, len(key))
}

// LoadSessionKeys decodes the cookie and CSRF keys. Outside production,
// missing keys are replaced by random ones so sessions only live until restart.
func LoadSessionKeys(env ENV) (*SessionKeys, error) {
	keys := &SessionKeys{}
	var err error

	if env.AppAuthKey == "" && env.AppEncKey == "" && env.CSRFKey == "" && !env.IsProduction() {
		return &SessionKeys{
			AuthKey: securecookie.GenerateRandomKey(64),
			EncKey:  securecookie.GenerateRandomKey(32),
			CSRFKey: securecookie.GenerateRandomKey(32),
		}, nil
	}

	if keys.AuthKey, err = decodeKey("APP_AUTH_KEY", env.AppAuthKey); err != nil {
		return nil, err
	}
	if keys.EncKey, err = decodeKey("APP_ENC_KEY", env.AppEncKey, 16, 24, 32); err != nil {
		return nil, err
	}
	if keys.CSRFKey, err = decodeKey("CSRF_KEY", env.CSRFKey, 32); err != nil {
		return nil, err
	}
	return keys, nil
}

func GenerateSessionKeys(path string) (map[string]string, error) {
	generated := map[string]int{"APP_AUTH_KEY": 64, "APP_ENC_KEY": 32, "CSRF_KEY": 32, "JWT_SECRET": 64}
	order := []string{"APP_AUTH_KEY", "APP_ENC_KEY", "CSRF_KEY", "JWT_SECRET"}

	out := make(map[string]string, len(generated))
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	for _, name := range order {
		key := securecookie.GenerateRandomKey(generated[name])
		if key == nil {
			return nil, fmt.Errorf("could not generate %s", name)
		}
		out[name] = base64.URLEncoding.EncodeToString(key)
		if _, err := fmt.Fprintf(file, "%s=%s\n", name, out[name]); err != nil {
			return nil, fmt.Errorf("failed to write keys to %s: %w", path, err)
		}
	}
	return out, nil
}
