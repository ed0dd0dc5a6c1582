package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// GenesisSpec describes one testnet generation run.
type GenesisSpec struct {
	Testnet  TestnetSpec  `yaml:"testnet"`
	Protocol ProtocolSpec `yaml:"protocol"`
}

type TestnetSpec struct {
	Richmen        int       `yaml:"richmen"`
	Poors          int       `yaml:"poors"`
	TotalBalance   string    `yaml:"total_balance"`
	RichmenShare   string    `yaml:"richmen_share"` // fraction, e.g. "0.99"
	Threshold      string    `yaml:"threshold"`     // committee-eligibility fraction
	UseHDAddresses bool      `yaml:"use_hd_addresses"`
	Avvm           AvvmSpec  `yaml:"avvm"`
	Committee      string    `yaml:"committee"` // derived|custom
	Custom         *Official `yaml:"custom,omitempty"`
}

type AvvmSpec struct {
	Count   int    `yaml:"count"`
	Balance string `yaml:"balance"`
}

// ProtocolSpec carries the protocol-wide constants; they are configuration,
// not ambient state.
type ProtocolSpec struct {
	MinTTL         uint64 `yaml:"min_ttl"`
	MaxTTL         uint64 `yaml:"max_ttl"`
	HDAccountIndex uint32 `yaml:"hd_account_index"`
	HDAddressIndex uint32 `yaml:"hd_address_index"`
}

// Official is an externally supplied committee: stakeholder weights and VSS
// certificates, as produced by a key ceremony. It doubles as the custom
// committee section of a testnet spec and as the whole mainnet spec.
type Official struct {
	Stakeholders map[string]uint64 `yaml:"stakeholders"` // address -> weight
	Certificates []CertSpec        `yaml:"certificates"`
	Balances     []string          `yaml:"balances,omitempty"` // optional explicit per-key list
}

type CertSpec struct {
	Issuer       string `yaml:"issuer"`
	VSSPublicKey string `yaml:"vss_public_key"` // hex
	ExpiryEpoch  uint64 `yaml:"expiry_epoch"`
	Signature    string `yaml:"signature"` // hex
}

const (
	CommitteeDerived = "derived"
	CommitteeCustom  = "custom"
)

// Load reads and validates a testnet genesis spec.
func Load(path string) (*GenesisSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	var spec GenesisSpec
	if err := yaml.NewDecoder(f).Decode(&spec); err != nil {
		return nil, fmt.Errorf("decode yaml %q: %w", path, err)
	}
	if err := validate(&spec); err != nil {
		return nil, fmt.Errorf("config validation %q: %w", path, err)
	}
	return &spec, nil
}

// LoadOfficial reads an externally supplied committee file (mainnet input).
func LoadOfficial(path string) (*Official, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %q: %w", path, err)
	}
	defer f.Close()

	var o Official
	if err := yaml.NewDecoder(f).Decode(&o); err != nil {
		return nil, fmt.Errorf("decode yaml %q: %w", path, err)
	}
	if err := validateOfficial(&o); err != nil {
		return nil, fmt.Errorf("config validation %q: %w", path, err)
	}
	return &o, nil
}

func validate(spec *GenesisSpec) error {
	if spec == nil {
		return errors.New("nil config")
	}
	t := &spec.Testnet
	if t.Richmen < 1 {
		return errors.New("testnet.richmen must be >= 1")
	}
	if t.Poors < 0 {
		return errors.New("testnet.poors must be >= 0")
	}
	if _, ok := new(big.Int).SetString(t.TotalBalance, 10); !ok {
		return fmt.Errorf("testnet.total_balance %q is not a decimal integer", t.TotalBalance)
	}
	for name, v := range map[string]string{
		"testnet.richmen_share": t.RichmenShare,
		"testnet.threshold":     t.Threshold,
	} {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("%s %q is not a fraction: %w", name, v, err)
		}
		if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%s must lie in [0, 1]", name)
		}
	}
	if t.Avvm.Count < 0 {
		return errors.New("testnet.avvm.count must be >= 0")
	}
	if t.Avvm.Count > 0 {
		if _, ok := new(big.Int).SetString(t.Avvm.Balance, 10); !ok {
			return fmt.Errorf("testnet.avvm.balance %q is not a decimal integer", t.Avvm.Balance)
		}
	}
	switch t.Committee {
	case CommitteeDerived, "":
	case CommitteeCustom:
		if t.Custom == nil {
			return errors.New("testnet.committee is custom but no custom section given")
		}
		if err := validateOfficial(t.Custom); err != nil {
			return err
		}
	default:
		return fmt.Errorf("testnet.committee must be %q or %q", CommitteeDerived, CommitteeCustom)
	}
	p := spec.Protocol
	if p.MinTTL < 1 {
		return errors.New("protocol.min_ttl must be >= 1")
	}
	if p.MaxTTL < p.MinTTL {
		return errors.New("protocol.max_ttl must be >= protocol.min_ttl")
	}
	return nil
}

func validateOfficial(o *Official) error {
	if o == nil {
		return errors.New("nil committee config")
	}
	if len(o.Stakeholders) == 0 {
		return errors.New("stakeholders must not be empty")
	}
	for addr := range o.Stakeholders {
		if !isHexAddress(addr) {
			return fmt.Errorf("stakeholder address %q is not a 20-byte hex address", addr)
		}
	}
	for i, c := range o.Certificates {
		if !isHexAddress(c.Issuer) {
			return fmt.Errorf("certificates[%d].issuer %q is not a 20-byte hex address", i, c.Issuer)
		}
		if _, err := hex.DecodeString(c.VSSPublicKey); err != nil {
			return fmt.Errorf("certificates[%d].vss_public_key: %w", i, err)
		}
		if _, err := hex.DecodeString(c.Signature); err != nil {
			return fmt.Errorf("certificates[%d].signature: %w", i, err)
		}
	}
	for i, b := range o.Balances {
		if _, ok := new(big.Int).SetString(b, 10); !ok {
			return fmt.Errorf("balances[%d] %q is not a decimal integer", i, b)
		}
	}
	return nil
}

func isHexAddress(s string) bool {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	if len(s) != 40 {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
