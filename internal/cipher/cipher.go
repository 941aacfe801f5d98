// Package cipher implements the password-based encryption applied to
// sensitive fields in transit and at rest, plus the one-way hash used
// for credential verification. Keys are derived from a user passphrase
// and a deployment-wide salt, so client and server arrive at the same
// key material without a key exchange: the passphrase itself is the
// shared secret.
package cipher

import (
	aescipher "crypto/aes"
	stdcipher "crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/passsecure/passsecure/internal/protocol"
)

const (
	// ivSize is the nonce length prepended to every ciphertext.
	ivSize = 16
	// keySize selects AES-256.
	keySize = 32
	// iterations slows key derivation against offline guessing.
	iterations = 100_000
)

// DefaultSalt is the historical compatibility salt. Deployments should
// pass their own salt to New; this value exists so a vault written by an
// unconfigured deployment stays readable.
var DefaultSalt = []byte{0xc9, 0x36, 0x78, 0x99, 0x52, 0x3e, 0xea, 0xf2}

// Engine derives keys from passphrases using a fixed per-deployment
// salt. It is stateless and safe for concurrent use.
type Engine struct {
	salt []byte
}

// New constructs an Engine with the given salt. A nil or empty salt
// falls back to DefaultSalt.
func New(salt []byte) *Engine {
	if len(salt) == 0 {
		salt = DefaultSalt
	}
	return &Engine{salt: salt}
}

// aead builds the authenticated cipher for a passphrase.
func (e *Engine) aead(passphrase string) (stdcipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), e.salt, iterations, keySize, sha256.New)
	block, err := aescipher.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	return stdcipher.NewGCMWithNonceSize(block, ivSize)
}

// Encrypt encrypts plaintext under a key derived from passphrase. A
// fresh random IV is generated per call and prepended to the
// ciphertext; the result is base64-encoded for use as a protocol-safe
// string.
func (e *Engine) Encrypt(plaintext, passphrase string) (string, error) {
	aead, err := e.aead(passphrase)
	if err != nil {
		return "", fmt.Errorf("%w: %v", protocol.ErrCipher, err)
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("%w: %v", protocol.ErrCipher, err)
	}

	combined := aead.Seal(iv, iv, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(combined), nil
}

// Decrypt reverses Encrypt. A decoded blob shorter than the IV is an
// invalid argument; any cryptographic failure (wrong passphrase,
// corrupted ciphertext) is a cipher error.
func (e *Engine) Decrypt(blob, passphrase string) (string, error) {
	combined, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", protocol.ErrCipher, err)
	}
	if len(combined) < ivSize {
		return "", protocol.ErrInvalidArgument
	}

	aead, err := e.aead(passphrase)
	if err != nil {
		return "", fmt.Errorf("%w: %v", protocol.ErrCipher, err)
	}

	plaintext, err := aead.Open(nil, combined[:ivSize], combined[ivSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: decrypt failed", protocol.ErrCipher)
	}
	return string(plaintext), nil
}

// Hash returns a hex-encoded one-way digest of secret seeded with the
// engine salt. Used only to verify credentials, never reversed.
func (e *Engine) Hash(secret string) string {
	digest := sha512.New()
	digest.Write(e.salt)
	digest.Write([]byte(secret))
	return hex.EncodeToString(digest.Sum(nil))
}
