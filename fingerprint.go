package hwid

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// ComputeCompositeFingerprint hashes guid+cpu+disk+board+mac with SHA-256 and
// returns 64 lowercase hex characters. Inputs are concatenated without separators.
func ComputeCompositeFingerprint(guid, cpu, disk, board, mac string) string {
	h := sha256.New()
	for _, part := range []string{guid, cpu, disk, board, mac} {
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CompositeFingerprint reads the five components now and hashes them.
// Unreadable components contribute the Unavailable placeholder.
func (g *Gateway) CompositeFingerprint(ctx context.Context) string {
	set := &IdentifierSet{}
	g.readComponents(ctx, set)
	return set.composite()
}

func (s *IdentifierSet) composite() string {
	c := s.Components()
	return ComputeCompositeFingerprint(c[0], c[1], c[2], c[3], c[4])
}
