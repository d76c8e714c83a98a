package redis

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/linonon/aibookmarks/internal/domain"
)

const (
	// KeyPrefixDocument is the prefix for per-workspace store documents
	KeyPrefixDocument = "aibookmarks:store:"
)

// DocumentKey returns the Redis key holding the store of a workspace.
// Roots are normalized first so "/ws/app/" and "/ws/app" share a key.
func DocumentKey(workspaceRoot string) string {
	sum := sha256.Sum256([]byte(domain.NormalizePath("", workspaceRoot)))
	return KeyPrefixDocument + hex.EncodeToString(sum[:8])
}
