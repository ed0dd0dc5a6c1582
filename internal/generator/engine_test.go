package generator

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"GenesisTools/internal/crypto"
	"GenesisTools/internal/distribution"
	"GenesisTools/internal/participant"
)

func testnetOpts(seed string) Options {
	return Options{
		Mode:       ModeTestnet,
		MasterSeed: []byte(seed),
		Avvm:       AvvmOptions{Count: 4, Balance: big.NewInt(100000)},
		Balances: BalanceOptions{
			Richmen:        2,
			Poors:          3,
			TotalBalance:   big.NewInt(1000000),
			RichmenShare:   decimal.RequireFromString("0.6"),
			Threshold:      decimal.RequireFromString("0.1"),
			UseHDAddresses: true,
		},
		Distribution: RichmenDistribution{},
		Protocol:     participant.Config{MinTTL: 2, MaxTTL: 6},
	}
}

func TestGenerateTestnet(t *testing.T) {
	data, err := Generate(testnetOpts("master"))
	require.NoError(t, err)

	// 2 rich addresses + 3 poors with both key variants.
	require.Len(t, data.NonAvvmBalances, 8)
	require.Len(t, data.AvvmBalances, 4)
	require.Len(t, data.Stakeholders, 2)
	require.Len(t, data.VSSCertificates, 2)
	require.Len(t, data.Secrets, 5)
	require.Len(t, data.AvvmSeeds, 4)

	for _, b := range data.AvvmBalances {
		require.Equal(t, big.NewInt(100000), b)
	}
	for addr, w := range data.Stakeholders {
		require.Equal(t, uint64(1), w)
		cert, ok := data.VSSCertificates[addr]
		require.True(t, ok)
		require.Equal(t, addr, cert.Issuer)
		require.True(t, cert.Verify())
		// Committee members hold the rich balance.
		require.Equal(t, big.NewInt(300000), data.NonAvvmBalances[addr])
	}

	// The rest of the distribution is the poor key balances.
	var poorKeys int
	for _, b := range data.NonAvvmBalances {
		if b.Cmp(big.NewInt(66666)) == 0 {
			poorKeys++
		}
	}
	require.Equal(t, 6, poorKeys)
}

func TestGenerateTestnetDeterminism(t *testing.T) {
	a, err := Generate(testnetOpts("master"))
	require.NoError(t, err)
	b, err := Generate(testnetOpts("master"))
	require.NoError(t, err)

	require.Equal(t, a.NonAvvmBalances, b.NonAvvmBalances)
	require.Equal(t, a.AvvmBalances, b.AvvmBalances)
	require.Equal(t, a.Stakeholders, b.Stakeholders)
	require.Equal(t, a.VSSCertificates, b.VSSCertificates)
	require.Equal(t, a.AvvmSeeds, b.AvvmSeeds)
	require.Len(t, b.Secrets, len(a.Secrets))
	for i := range a.Secrets {
		require.Equal(t, crypto.PrivToHex(a.Secrets[i].Signing), crypto.PrivToHex(b.Secrets[i].Signing))
		require.Equal(t, a.Secrets[i].HDRoot.Mnemonic, b.Secrets[i].HDRoot.Mnemonic)
		require.Equal(t, a.Secrets[i].VSS.PublicBytes(), b.Secrets[i].VSS.PublicBytes())
	}
}

func TestGenerateTestnetSeedSensitivity(t *testing.T) {
	a, err := Generate(testnetOpts("master one"))
	require.NoError(t, err)
	b, err := Generate(testnetOpts("master two"))
	require.NoError(t, err)

	require.NotEqual(t, a.AvvmSeeds, b.AvvmSeeds)
	require.NotEqual(t, a.Stakeholders, b.Stakeholders)
}

func TestGenerateTestnetWithoutHDAddresses(t *testing.T) {
	opts := testnetOpts("master")
	opts.Balances.UseHDAddresses = false

	data, err := Generate(opts)
	require.NoError(t, err)
	// HD slots stay reserved: one address per poor instead of two.
	require.Len(t, data.NonAvvmBalances, 5)

	total := new(big.Int)
	for _, b := range data.NonAvvmBalances {
		total.Add(total, b)
	}
	require.LessOrEqual(t, total.Cmp(opts.Balances.TotalBalance), 0)
}

func TestGenerateTestnetRejectsBadPlan(t *testing.T) {
	opts := testnetOpts("master")
	opts.Balances.Threshold = decimal.RequireFromString("0.05") // poors clear it

	_, err := Generate(opts)
	require.Error(t, err)
	require.ErrorContains(t, err, "poor balance")
}

func TestGenerateTestnetCustomCommittee(t *testing.T) {
	issuer := common.HexToAddress("0x1a642f0e3c3af545e7acbd38b07251b3990914f1")
	stakeholders := map[common.Address]uint64{issuer: 3}
	certs := map[common.Address]*participant.VSSCertificate{
		issuer: {Issuer: issuer, VSSPublicKey: []byte{1, 2, 3}, ExpiryEpoch: 4, Signature: []byte{9}},
	}

	opts := testnetOpts("master")
	opts.Distribution = CustomDistribution{Stakeholders: stakeholders, Certificates: certs}

	data, err := Generate(opts)
	require.NoError(t, err)
	// Supplied committee data bypasses the richmen-derived computation.
	require.Equal(t, stakeholders, data.Stakeholders)
	require.Equal(t, certs, data.VSSCertificates)
	require.Len(t, data.NonAvvmBalances, 8)
}

func TestGenerateTestnetCustomBalanceListLength(t *testing.T) {
	opts := testnetOpts("master")
	opts.Distribution = CustomDistribution{
		Stakeholders: map[common.Address]uint64{},
		Balances:     distribution.CustomBalances{big.NewInt(1)},
	}

	_, err := Generate(opts)
	require.Error(t, err)
	require.ErrorContains(t, err, "custom balance list")
}

func TestGenerateTestnetCustomBalances(t *testing.T) {
	balances := make(distribution.CustomBalances, 8)
	for i := range balances {
		balances[i] = big.NewInt(int64(1000 + i))
	}
	opts := testnetOpts("master")
	opts.Distribution = CustomDistribution{
		Stakeholders: map[common.Address]uint64{},
		Balances:     balances,
	}

	data, err := Generate(opts)
	require.NoError(t, err)
	require.Len(t, data.NonAvvmBalances, 8)

	want := map[string]bool{}
	for _, b := range balances {
		want[b.String()] = true
	}
	for _, b := range data.NonAvvmBalances {
		require.True(t, want[b.String()], "unexpected balance %s", b)
	}
}

func TestGenerateMainnetPassthrough(t *testing.T) {
	issuer := common.HexToAddress("0x53b26d8b05a4f9ba8a2e75b93b54872e93f7c4e2")
	stakeholders := map[common.Address]uint64{issuer: 1}
	certs := map[common.Address]*participant.VSSCertificate{
		issuer: {Issuer: issuer, VSSPublicKey: []byte{7}, ExpiryEpoch: 2, Signature: []byte{8}},
	}

	data, err := Generate(Options{
		Mode:         ModeMainnet,
		Distribution: CustomDistribution{Stakeholders: stakeholders, Certificates: certs},
	})
	require.NoError(t, err)

	require.Empty(t, data.NonAvvmBalances)
	require.Empty(t, data.AvvmBalances)
	require.Equal(t, stakeholders, data.Stakeholders)
	require.Equal(t, certs, data.VSSCertificates)
	require.Nil(t, data.Secrets)
	require.Nil(t, data.AvvmSeeds)
}

func TestGenerateMainnetRequiresSuppliedCommittee(t *testing.T) {
	_, err := Generate(Options{Mode: ModeMainnet, Distribution: RichmenDistribution{}})
	require.ErrorIs(t, err, ErrUnsupportedDistribution)
}

type bogusDistribution struct{}

func (bogusDistribution) isDistribution() {}

func TestGenerateRejectsUnknownVariant(t *testing.T) {
	opts := testnetOpts("master")
	opts.Distribution = bogusDistribution{}

	_, err := Generate(opts)
	require.ErrorIs(t, err, ErrUnsupportedDistribution)
}

func TestGenerateRejectsUnknownMode(t *testing.T) {
	_, err := Generate(Options{Mode: Mode("staging")})
	require.Error(t, err)
	require.ErrorContains(t, err, "unknown generation mode")
}

func TestGenerateRejectsFullRichShare(t *testing.T) {
	// A full rich share rounds up past the total and would leave the poor
	// keys with negative balances.
	opts := testnetOpts("master")
	opts.Balances.Richmen = 3
	opts.Balances.RichmenShare = decimal.RequireFromString("1")

	data, err := Generate(opts)
	require.Error(t, err)
	require.ErrorContains(t, err, "negative poor pool")
	require.Nil(t, data)
}

func TestGenerateRejectsBadTTLBounds(t *testing.T) {
	opts := testnetOpts("master")
	opts.Protocol.MinTTL = 0

	_, err := Generate(opts)
	require.Error(t, err)
	require.ErrorContains(t, err, "ttl bounds")

	opts = testnetOpts("master")
	opts.Protocol.MaxTTL = 1

	_, err = Generate(opts)
	require.Error(t, err)
	require.ErrorContains(t, err, "ttl bounds")
}

func TestGenerateRequiresMasterSeed(t *testing.T) {
	opts := testnetOpts("master")
	opts.MasterSeed = nil

	_, err := Generate(opts)
	require.Error(t, err)
	require.ErrorContains(t, err, "master seed")
}
