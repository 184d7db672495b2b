package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// FeaturesKey hashes the canonical JSON of an analyzer feature map.
// encoding/json writes map keys in sorted order, so equal maps always
// produce the same key regardless of insertion order.
func FeaturesKey(features map[string]any) (string, error) {
	canonical, err := json.Marshal(features)
	if err != nil {
		return "", fmt.Errorf("encode features: %w", err)
	}
	h := sha1.Sum(append([]byte("analyze|"), canonical...))
	return hex.EncodeToString(h[:]), nil
}
