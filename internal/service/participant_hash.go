package service

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ParticipantHasher pseudonymizes participant identifiers before they are
// persisted. The hash is deterministic (same participant, same pseudonym)
// and salted so stored records cannot be joined against an external roster
// without the deployment salt.
type ParticipantHasher struct {
	salt []byte
}

func NewParticipantHasher(salt string) *ParticipantHasher {
	return &ParticipantHasher{salt: []byte(salt)}
}

// Hash returns the hex-encoded salted SHA3-256 of the trimmed identifier.
// Empty identifiers map to the empty string; callers validate before hashing.
func (h *ParticipantHasher) Hash(participantID string) string {
	id := strings.TrimSpace(participantID)
	if id == "" {
		return ""
	}
	sum := sha3.Sum256(append(append([]byte{}, h.salt...), id...))
	return hex.EncodeToString(sum[:])
}
