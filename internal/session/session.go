// Package session holds the client-side cart session identity. The server
// never issues session ids; clients generate one and keep it in local storage.
package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

// StorageKey is the key the session id is stored under.
const StorageKey = "cart-session-id"

const (
	suffixLen = 9
	alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// ErrKeyNotFound is returned by Storage.Get when the key is absent.
var ErrKeyNotFound = errors.New("key not found")

// Storage is a small client-local key/value store.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// GetOrCreate returns the stored session id, generating and persisting a new
// one on first use.
func GetOrCreate(s Storage) (string, error) {
	id, err := s.Get(StorageKey)
	switch {
	case err == nil && id != "":
		return id, nil
	case err != nil && !errors.Is(err, ErrKeyNotFound):
		return "", fmt.Errorf("read session id: %w", err)
	}

	id, err = NewID(time.Now())
	if err != nil {
		return "", err
	}
	if err := s.Set(StorageKey, id); err != nil {
		return "", fmt.Errorf("store session id: %w", err)
	}
	return id, nil
}

// NewID builds "session-<unix millis>-<9 random base36 chars>".
func NewID(now time.Time) (string, error) {
	suffix := make([]byte, suffixLen)
	base := big.NewInt(int64(len(alphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", fmt.Errorf("generate session id: %w", err)
		}
		suffix[i] = alphabet[n.Int64()]
	}
	return "session-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + string(suffix), nil
}
