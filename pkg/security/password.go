package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"

	"github.com/homemade/pickleshop/pkg/config"
)

// PasswordEncoder turns a signup password into its stored form.
type PasswordEncoder interface {
	Encode(password string) (string, error)
	Scheme() string
}

// NewPasswordEncoder picks the encoder named by PICKLE_PASSWORD_STORAGE.
func NewPasswordEncoder(cfg config.PasswordConfig) PasswordEncoder {
	if cfg.Hashed() {
		return Argon2id{params: paramsFromConfig(cfg)}
	}
	return Plaintext{}
}

// Plaintext stores passwords exactly as submitted.
type Plaintext struct{}

func (Plaintext) Encode(password string) (string, error) { return password, nil }

func (Plaintext) Scheme() string { return config.PasswordStoragePlaintext }

// Argon2id stores a self-describing $argon2id$ hash.
type Argon2id struct {
	params ArgonParams
}

func (a Argon2id) Encode(password string) (string, error) {
	return hashWithParams(password, a.params)
}

func (Argon2id) Scheme() string { return config.PasswordStorageArgon2id }

// ArgonParams captures the Argon2id parameters we embed into each hash string.
type ArgonParams struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLen     uint32
	KeyLen      uint32
}

func hashWithParams(password string, params ArgonParams) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, params.Time, params.Memory, params.Parallelism, params.KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		params.Memory, params.Time, params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func paramsFromConfig(cfg config.PasswordConfig) ArgonParams {
	return ArgonParams{
		Memory:      clampUint32(cfg.ArgonMemoryKB, 8, 512*1024),
		Time:        clampUint32(cfg.ArgonTime, 1, 10),
		Parallelism: uint8(clampInt(cfg.ArgonParallelism, 1, 255)),
		SaltLen:     clampUint32(cfg.ArgonSaltLen, 8, 64),
		KeyLen:      clampUint32(cfg.ArgonKeyLen, 16, 64),
	}
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func clampUint32(value, min, max int) uint32 {
	return uint32(clampInt(value, min, max))
}
