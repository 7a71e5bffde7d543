package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash fingerprints a serialized graph or layout as 64 hex characters of
// SHA-256. The API reports it as graph_hash, and cache keys embed it so
// identical inputs land on the same entry no matter who computed them.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey builds a cache key of the form "<kind>:<digest>". kind names
// the entry type ("layout", "artifact"); the digest covers every part
// that influences the cached bytes, such as content hashes and spacing or
// format options. Parts are hashed in order, so keyers must pass them in
// a stable order.
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, part := range parts {
		_ = enc.Encode(part)
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
