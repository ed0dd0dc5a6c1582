package generator

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"GenesisTools/internal/distribution"
	"GenesisTools/internal/participant"
)

// Mode selects which of the two terminal outcomes a run produces.
type Mode string

const (
	// ModeTestnet derives everything deterministically from the master seed.
	ModeTestnet Mode = "testnet"
	// ModeMainnet passes externally supplied committee data through and
	// generates nothing.
	ModeMainnet Mode = "mainnet"
)

// Distribution selects where committee data (stakeholder weights and the
// VSS certificate map) comes from. The switch over its variants is
// exhaustive; an unknown implementation aborts the run.
type Distribution interface {
	isDistribution()
}

// RichmenDistribution derives the committee from the generated richmen:
// every richman becomes a bootstrap stakeholder and contributes its
// certificate.
type RichmenDistribution struct{}

func (RichmenDistribution) isDistribution() {}

// CustomDistribution takes stakeholder weights and certificates verbatim.
// Balances may optionally carry an explicit per-key balance list for the
// generated participants; when nil the planner runs as usual.
type CustomDistribution struct {
	Stakeholders map[common.Address]uint64
	Certificates map[common.Address]*participant.VSSCertificate
	Balances     distribution.CustomBalances
}

func (CustomDistribution) isDistribution() {}

// AvvmOptions controls the synthetic legacy-voucher set.
type AvvmOptions struct {
	Count   int
	Balance *big.Int // fixed one-time balance per voucher
}

// BalanceOptions are the planner inputs plus the poor HD-address switch.
type BalanceOptions struct {
	Richmen        int
	Poors          int
	TotalBalance   *big.Int
	RichmenShare   decimal.Decimal
	Threshold      decimal.Decimal
	UseHDAddresses bool // assign the poor HD key balances, not only reserve them
}

// Options is the full input of one generation run.
type Options struct {
	Mode       Mode
	MasterSeed []byte

	Avvm         AvvmOptions
	Balances     BalanceOptions
	Distribution Distribution
	Protocol     participant.Config
}
