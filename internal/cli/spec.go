package cli

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"GenesisTools/internal/distribution"
	"GenesisTools/internal/generator"
	"GenesisTools/internal/participant"
	"GenesisTools/pkg/config"
)

// testnetOptions turns a validated genesis spec into generation inputs.
func testnetOptions(spec *config.GenesisSpec, seed []byte) (generator.Options, error) {
	t := spec.Testnet

	total, ok := new(big.Int).SetString(t.TotalBalance, 10)
	if !ok {
		return generator.Options{}, fmt.Errorf("total_balance %q is not a decimal integer", t.TotalBalance)
	}
	share, err := decimal.NewFromString(t.RichmenShare)
	if err != nil {
		return generator.Options{}, fmt.Errorf("richmen_share: %w", err)
	}
	threshold, err := decimal.NewFromString(t.Threshold)
	if err != nil {
		return generator.Options{}, fmt.Errorf("threshold: %w", err)
	}

	avvmBalance := new(big.Int)
	if t.Avvm.Count > 0 {
		avvmBalance, ok = new(big.Int).SetString(t.Avvm.Balance, 10)
		if !ok {
			return generator.Options{}, fmt.Errorf("avvm.balance %q is not a decimal integer", t.Avvm.Balance)
		}
	}

	var distr generator.Distribution = generator.RichmenDistribution{}
	if t.Committee == config.CommitteeCustom {
		custom, err := customDistribution(t.Custom)
		if err != nil {
			return generator.Options{}, err
		}
		distr = custom
	}

	return generator.Options{
		Mode:       generator.ModeTestnet,
		MasterSeed: seed,
		Avvm: generator.AvvmOptions{
			Count:   t.Avvm.Count,
			Balance: avvmBalance,
		},
		Balances: generator.BalanceOptions{
			Richmen:        t.Richmen,
			Poors:          t.Poors,
			TotalBalance:   total,
			RichmenShare:   share,
			Threshold:      threshold,
			UseHDAddresses: t.UseHDAddresses,
		},
		Distribution: distr,
		Protocol: participant.Config{
			MinTTL:         spec.Protocol.MinTTL,
			MaxTTL:         spec.Protocol.MaxTTL,
			HDAccountIndex: spec.Protocol.HDAccountIndex,
			HDAddressIndex: spec.Protocol.HDAddressIndex,
		},
	}, nil
}

// customDistribution decodes an externally supplied committee section.
func customDistribution(o *config.Official) (generator.CustomDistribution, error) {
	out := generator.CustomDistribution{
		Stakeholders: make(map[common.Address]uint64, len(o.Stakeholders)),
		Certificates: make(map[common.Address]*participant.VSSCertificate, len(o.Certificates)),
	}
	for addr, weight := range o.Stakeholders {
		out.Stakeholders[common.HexToAddress(addr)] = weight
	}
	for i, c := range o.Certificates {
		vssPub, err := hex.DecodeString(c.VSSPublicKey)
		if err != nil {
			return generator.CustomDistribution{}, fmt.Errorf("certificates[%d].vss_public_key: %w", i, err)
		}
		sig, err := hex.DecodeString(c.Signature)
		if err != nil {
			return generator.CustomDistribution{}, fmt.Errorf("certificates[%d].signature: %w", i, err)
		}
		issuer := common.HexToAddress(c.Issuer)
		out.Certificates[issuer] = &participant.VSSCertificate{
			Issuer:       issuer,
			VSSPublicKey: vssPub,
			ExpiryEpoch:  c.ExpiryEpoch,
			Signature:    sig,
		}
	}
	if len(o.Balances) > 0 {
		out.Balances = make(distribution.CustomBalances, len(o.Balances))
		for i, b := range o.Balances {
			v, ok := new(big.Int).SetString(b, 10)
			if !ok {
				return generator.CustomDistribution{}, fmt.Errorf("balances[%d] %q is not a decimal integer", i, b)
			}
			out.Balances[i] = v
		}
	}
	return out, nil
}
