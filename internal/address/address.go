package address

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Resolve derives the deterministic record address for a seed string.
// The same seed always yields the same address, so every collaborator can
// find the tracker without any lookup.
func Resolve(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// Keyring derives and checks capability tokens from the service secret.
// The token proves a caller may create or mutate the record at an address.
type Keyring struct {
	secret []byte
}

func NewKeyring(secret string) *Keyring {
	return &Keyring{secret: []byte(secret)}
}

// DeriveCapability produces the authority token accepted for the given
// address: HMAC-SHA256 of the address under the service secret.
func (k *Keyring) DeriveCapability(address string) string {
	mac := hmac.New(sha256.New, k.secret)
	mac.Write([]byte(address))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyDerived checks a presented token against the keyring's own derivation.
func (k *Keyring) VerifyDerived(address, token string) bool {
	expected := k.DeriveCapability(address)
	return hmac.Equal([]byte(expected), []byte(token))
}

// HashToken produces the at-rest owner credential stored on a freshly
// initialized record. (BCrypt, already salted, default cost.)
func (k *Keyring) HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyOwner checks a presented token against the credential stored on the
// record itself, so ownership survives a secret rotation in the config.
func (k *Keyring) VerifyOwner(ownerHash, token string) bool {
	return bcrypt.CompareHashAndPassword([]byte(ownerHash), []byte(token)) == nil
}
