package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"GenesisTools/internal/entropy"
)

func TestGenerateSecretsDeterminism(t *testing.T) {
	a, err := GenerateSecrets(entropy.NewStream([]byte("seed")), nil)
	require.NoError(t, err)
	b, err := GenerateSecrets(entropy.NewStream([]byte("seed")), nil)
	require.NoError(t, err)

	require.Equal(t, PrivToHex(a.Signing), PrivToHex(b.Signing))
	require.Equal(t, a.HDRoot.Mnemonic, b.HDRoot.Mnemonic)
	require.Equal(t, a.VSS.PublicBytes(), b.VSS.PublicBytes())
	require.True(t, a.VSS.Secret.Equal(b.VSS.Secret))
}

func TestGenerateSecretsSeedSensitivity(t *testing.T) {
	a, err := GenerateSecrets(entropy.NewStream([]byte("seed one")), nil)
	require.NoError(t, err)
	b, err := GenerateSecrets(entropy.NewStream([]byte("seed two")), nil)
	require.NoError(t, err)

	require.NotEqual(t, PrivToHex(a.Signing), PrivToHex(b.Signing))
	require.NotEqual(t, a.HDRoot.Mnemonic, b.HDRoot.Mnemonic)
	require.NotEqual(t, a.VSS.PublicBytes(), b.VSS.PublicBytes())
}

func TestGenerateSecretsExistingPassthrough(t *testing.T) {
	existing, err := GenerateSecrets(entropy.NewStream([]byte("donor")), nil)
	require.NoError(t, err)

	stream := entropy.NewStream([]byte("untouched"))
	got, err := GenerateSecrets(stream, existing)
	require.NoError(t, err)
	require.Same(t, existing, got)

	// No draws were consumed: the stream cursor still sits at the start.
	fresh := entropy.NewStream([]byte("untouched"))
	require.Equal(t, fresh.Draw(32), stream.Draw(32))
}

func TestVSSKeyPairConsistent(t *testing.T) {
	s, err := GenerateSecrets(entropy.NewStream([]byte("vss")), nil)
	require.NoError(t, err)

	pub := vssSuite.Point().Mul(s.VSS.Secret, nil)
	require.True(t, pub.Equal(s.VSS.Public))
	require.Len(t, s.VSS.PublicBytes(), 32)
}
