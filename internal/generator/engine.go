package generator

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"GenesisTools/internal/avvm"
	"GenesisTools/internal/crypto"
	"GenesisTools/internal/distribution"
	"GenesisTools/internal/entropy"
	"GenesisTools/internal/participant"
)

// ErrUnsupportedDistribution reports a committee-selection variant the
// assembler does not implement.
var ErrUnsupportedDistribution = errors.New("unsupported distribution variant")

// GenesisData is the aggregate a run produces. It is assembled once and not
// mutated afterwards. Secrets and AvvmSeeds are populated only by testnet
// runs; mainnet runs never hold generated key material.
type GenesisData struct {
	NonAvvmBalances map[common.Address]*big.Int
	AvvmBalances    map[common.Address]*big.Int
	Stakeholders    map[common.Address]uint64
	VSSCertificates map[common.Address]*participant.VSSCertificate

	Secrets   []*crypto.ParticipantSecrets
	AvvmSeeds [][]byte
}

// AllBalances merges the generated and voucher address distributions.
func (g *GenesisData) AllBalances() map[common.Address]*big.Int {
	out := make(map[common.Address]*big.Int, len(g.NonAvvmBalances)+len(g.AvvmBalances))
	for a, b := range g.NonAvvmBalances {
		out[a] = new(big.Int).Set(b)
	}
	for a, b := range g.AvvmBalances {
		out[a] = new(big.Int).Set(b)
	}
	return out
}

// Generate runs the pipeline for the selected mode. It either completes
// fully or returns an error; there is no partial output.
func Generate(opts Options) (*GenesisData, error) {
	switch opts.Mode {
	case ModeTestnet:
		return generateTestnet(opts)
	case ModeMainnet:
		return generateMainnet(opts)
	default:
		return nil, errors.Errorf("unknown generation mode %q", opts.Mode)
	}
}

// generateMainnet passes the supplied committee data through unchanged. It
// consumes no randomness and generates no addresses; balances come from a
// separate process.
func generateMainnet(opts Options) (*GenesisData, error) {
	custom, ok := opts.Distribution.(CustomDistribution)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedDistribution,
			"mainnet mode requires supplied committee data, got %T", opts.Distribution)
	}
	return &GenesisData{
		NonAvvmBalances: map[common.Address]*big.Int{},
		AvvmBalances:    map[common.Address]*big.Int{},
		Stakeholders:    custom.Stakeholders,
		VSSCertificates: custom.Certificates,
	}, nil
}

func generateTestnet(opts Options) (*GenesisData, error) {
	if len(opts.MasterSeed) == 0 {
		return nil, errors.New("testnet mode requires a master seed")
	}
	if opts.Avvm.Count > 0 && (opts.Avvm.Balance == nil || opts.Avvm.Balance.Sign() < 0) {
		return nil, errors.New("avvm balance must be set and non-negative")
	}
	if opts.Protocol.MinTTL < 1 || opts.Protocol.MaxTTL < opts.Protocol.MinTTL {
		return nil, errors.Errorf("certificate ttl bounds [%d, %d] are invalid",
			opts.Protocol.MinTTL, opts.Protocol.MaxTTL)
	}

	// Balances are pure arithmetic over the options, so they are resolved
	// and validated before a single key is generated.
	balances, err := resolveBalances(opts)
	if err != nil {
		return nil, err
	}
	perKey := balances.PerKey()

	stream := entropy.NewStream(opts.MasterSeed)

	// Draw order is fixed: vouchers, then richmen, then poors. Changing it
	// would silently change every generated key of existing networks.
	avvmEntries, avvmSeeds, err := avvm.Generate(stream, opts.Avvm.Count, opts.Avvm.Balance)
	if err != nil {
		return nil, err
	}

	richmen, err := buildParticipants(stream, opts.Balances.Richmen, opts.Protocol)
	if err != nil {
		return nil, errors.Wrap(err, "richmen")
	}
	poors, err := buildParticipants(stream, opts.Balances.Poors, opts.Protocol)
	if err != nil {
		return nil, errors.Wrap(err, "poors")
	}

	stakeholders, certs, err := selectCommittee(opts.Distribution, richmen)
	if err != nil {
		return nil, err
	}

	nonAvvm, err := assignBalances(richmen, poors, perKey, opts)
	if err != nil {
		return nil, err
	}

	avvmBalances := make(map[common.Address]*big.Int, len(avvmEntries))
	for _, e := range avvmEntries {
		avvmBalances[e.Address] = e.Balance
	}

	secrets := make([]*crypto.ParticipantSecrets, 0, len(richmen)+len(poors))
	for _, p := range append(append([]*builtParticipant{}, richmen...), poors...) {
		secrets = append(secrets, p.secrets)
	}

	return &GenesisData{
		NonAvvmBalances: nonAvvm,
		AvvmBalances:    avvmBalances,
		Stakeholders:    stakeholders,
		VSSCertificates: certs,
		Secrets:         secrets,
		AvvmSeeds:       avvmSeeds,
	}, nil
}

type builtParticipant struct {
	secrets *crypto.ParticipantSecrets
	cert    *participant.VSSCertificate
	addr    participant.BootstrapAddress
}

func buildParticipants(stream *entropy.Stream, count int, cfg participant.Config) ([]*builtParticipant, error) {
	out := make([]*builtParticipant, 0, count)
	for i := 0; i < count; i++ {
		secrets, err := crypto.GenerateSecrets(stream, nil)
		if err != nil {
			return nil, errors.Wrapf(err, "participant %d secrets", i)
		}
		cert, addr, err := participant.Build(stream, secrets, cfg, false)
		if err != nil {
			return nil, errors.Wrapf(err, "participant %d", i)
		}
		out = append(out, &builtParticipant{secrets: secrets, cert: cert, addr: addr})
	}
	return out, nil
}

// resolveBalances turns the distribution selector into a concrete per-key
// balance assignment, running the planner unless explicit balances were
// supplied.
func resolveBalances(opts Options) (distribution.Balances, error) {
	params := distribution.Params{
		RichmenCount: opts.Balances.Richmen,
		PoorCount:    opts.Balances.Poors,
		TotalBalance: opts.Balances.TotalBalance,
		RichmenShare: opts.Balances.RichmenShare,
		Threshold:    opts.Balances.Threshold,
	}
	switch d := opts.Distribution.(type) {
	case RichmenDistribution:
		return distribution.Plan(params)
	case CustomDistribution:
		if d.Balances == nil {
			return distribution.Plan(params)
		}
		want := opts.Balances.Richmen + opts.Balances.Poors*2
		if len(d.Balances) != want {
			return nil, errors.Errorf(
				"custom balance list has %d entries, need %d (richmen + doubled poors)",
				len(d.Balances), want)
		}
		return d.Balances, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedDistribution, "%T", opts.Distribution)
	}
}

// selectCommittee resolves stakeholder weights and the certificate map,
// either derived from the generated richmen or supplied verbatim.
func selectCommittee(d Distribution, richmen []*builtParticipant) (map[common.Address]uint64, map[common.Address]*participant.VSSCertificate, error) {
	switch d := d.(type) {
	case RichmenDistribution:
		stakeholders := make(map[common.Address]uint64, len(richmen))
		certs := make(map[common.Address]*participant.VSSCertificate, len(richmen))
		for _, r := range richmen {
			stakeholders[r.cert.Issuer] = 1
			certs[r.cert.Issuer] = r.cert
		}
		return stakeholders, certs, nil
	case CustomDistribution:
		return d.Stakeholders, d.Certificates, nil
	default:
		return nil, nil, errors.Wrapf(ErrUnsupportedDistribution, "%T", d)
	}
}

// assignBalances tags every generated address with its balance. Key order is
// canonical: richmen first, then for each poor the plain key followed by the
// HD key. With UseHDAddresses off the HD slots stay unassigned, which
// reserves their part of the pool without creating addresses for it.
func assignBalances(richmen, poors []*builtParticipant, perKey []*big.Int, opts Options) (map[common.Address]*big.Int, error) {
	out := make(map[common.Address]*big.Int)
	k := 0
	for _, r := range richmen {
		out[r.addr.Addr] = perKey[k]
		k++
	}
	for i, p := range poors {
		out[p.addr.Addr] = perKey[k]
		k++
		if opts.Balances.UseHDAddresses {
			hd, err := participant.Address(p.secrets, opts.Protocol, true)
			if err != nil {
				return nil, errors.Wrapf(err, "poor %d hd address", i)
			}
			out[hd.Addr] = perKey[k]
		}
		k++
	}
	return out, nil
}
