package crypto

import (
	"crypto/ecdsa"

	"github.com/pkg/errors"

	"GenesisTools/internal/entropy"
	"GenesisTools/internal/mnemonic"
)

// hdEntropyBytes sizes the HD root mnemonic (16 bytes = 12 words).
const hdEntropyBytes = 16

// ParticipantSecrets is the full key material of one genesis participant:
// the signing key that controls the plain address and issues the VSS
// certificate, the HD wallet root, and the VSS protocol key pair.
type ParticipantSecrets struct {
	Signing *ecdsa.PrivateKey
	HDRoot  *mnemonic.Root
	VSS     VSSKeyPair
}

// GenerateSecrets draws a fresh secret set from the stream, or returns the
// supplied one untouched without consuming any draws. Draw order is fixed:
// signing key, HD root entropy, VSS pair.
func GenerateSecrets(stream *entropy.Stream, existing *ParticipantSecrets) (*ParticipantSecrets, error) {
	if existing != nil {
		return existing, nil
	}
	signing := NewSigningKey(stream)
	// The HD root passphrase is empty during generation; operators re-protect
	// the mnemonic out of band.
	root, err := mnemonic.NewRoot(stream.Draw(hdEntropyBytes), "")
	if err != nil {
		return nil, errors.Wrap(err, "hd root generation")
	}
	return &ParticipantSecrets{
		Signing: signing,
		HDRoot:  root,
		VSS:     NewVSSKeyPair(stream),
	}, nil
}
