package crypto

import (
	"github.com/drand/kyber"
	"github.com/drand/kyber/group/edwards25519"

	"GenesisTools/internal/entropy"
)

// vssSuite is the group the randomness-protocol key pairs live in.
var vssSuite = edwards25519.NewBlakeSHA256Ed25519()

// VSSKeyPair is a participant's key pair for the verifiable-secret-sharing
// randomness protocol.
type VSSKeyPair struct {
	Secret kyber.Scalar
	Public kyber.Point
}

// NewVSSKeyPair picks a VSS key pair from the stream.
func NewVSSKeyPair(stream *entropy.Stream) VSSKeyPair {
	s := vssSuite.Scalar().Pick(stream)
	return VSSKeyPair{Secret: s, Public: vssSuite.Point().Mul(s, nil)}
}

// PublicBytes returns the canonical encoding of the VSS public key.
func (k VSSKeyPair) PublicBytes() []byte {
	b, err := k.Public.MarshalBinary()
	if err != nil {
		// Ed25519 points always marshal; anything else is a broken build.
		panic("crypto: vss public key marshal: " + err.Error())
	}
	return b
}
