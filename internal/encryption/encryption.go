// Package encryption seals task stores for the remote with Fernet tokens.
// The key is derived from a user passphrase, so the same passphrase on two
// machines opens the same snapshots.
package encryption

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
)

// ErrDecrypt covers both a wrong passphrase and a corrupt token. Fernet
// authenticates before decrypting and cannot tell the two apart.
var ErrDecrypt = errors.New("invalid password or corrupt ciphertext")

// DeriveKey builds the Fernet key from a passphrase: the SHA-256 digest of
// the passphrase is the key material. ok is false when the passphrase is
// empty, which means encrypted sync is disabled, not broken.
func DeriveKey(passphrase string) (*fernet.Key, bool) {
	if passphrase == "" {
		return nil, false
	}
	sum := sha256.Sum256([]byte(passphrase))
	key := fernet.Key(sum)
	return &key, true
}

// Encrypt seals plaintext into a Fernet token
func Encrypt(plaintext []byte, key *fernet.Key) ([]byte, error) {
	token, err := fernet.EncryptAndSign(plaintext, key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt: %w", err)
	}
	return token, nil
}

// Decrypt opens a Fernet token, failing with ErrDecrypt when the token does
// not verify under the key.
func Decrypt(token []byte, key *fernet.Key) ([]byte, error) {
	plaintext := fernet.VerifyAndDecrypt(token, 0, []*fernet.Key{key})
	if plaintext == nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}
