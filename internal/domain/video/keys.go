package video

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// keyEntropyBytes is 256 bits of randomness per generated storage key.
const keyEntropyBytes = 32

// Storage key formats are part of every stored URL. Changing them breaks
// compatibility with existing records.

// NewVideoKey returns "<orientation>/<64 hex chars>.mp4".
func NewVideoKey(orientation Orientation) (string, error) {
	token, err := randomBytes()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s.mp4", orientation, hex.EncodeToString(token)), nil
}

// NewThumbnailKey returns "<43 char base64url>.<ext>".
func NewThumbnailKey(ext string) (string, error) {
	token, err := randomBytes()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s", base64.RawURLEncoding.EncodeToString(token), ext), nil
}

func randomBytes() ([]byte, error) {
	buf := make([]byte, keyEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}
	return buf, nil
}
