// Package auth holds the admin gate: a credential verifier that checks a
// submitted secret against a configured digest, and the Guest/Admin session
// it unlocks. The digest lives in deployment config, so this gates the UI
// rather than providing real secrecy; the comparison is constant-time anyway
// since the reference digest ships with the deployment.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/flokiorg/storehub/logger"
)

type Verifier struct {
	reference []byte
}

// NewVerifier parses the hex-encoded sha256 reference digest. A missing or
// malformed digest yields a verifier that admits nobody.
func NewVerifier(referenceDigestHex string) *Verifier {
	reference, err := hex.DecodeString(referenceDigestHex)
	if err != nil || len(reference) != sha256.Size {
		if referenceDigestHex != "" {
			logger.Logger.Warn().Msg("Invalid admin password hash configured, admin mode is disabled")
		}
		return &Verifier{}
	}
	return &Verifier{reference: reference}
}

// Verify reports whether secret matches the reference digest. Pure: no state,
// no errors, deterministic for any input.
func (v *Verifier) Verify(secret string) bool {
	if len(v.reference) != sha256.Size {
		return false
	}
	digest := sha256.Sum256([]byte(secret))
	return subtle.ConstantTimeCompare(digest[:], v.reference) == 1
}
