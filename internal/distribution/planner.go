package distribution

import (
	"math/big"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Params is everything the planner needs to split a total balance across
// the rich and poor participant classes.
type Params struct {
	RichmenCount int
	PoorCount    int
	TotalBalance *big.Int
	RichmenShare decimal.Decimal // fraction of the total owned by richmen
	Threshold    decimal.Decimal // committee-eligibility stake fraction
}

// Plan computes the rich/poor split and validates its invariants. Every
// violated invariant is reported; a plan is returned only when all of them
// hold, so callers never see a partially valid split.
func Plan(p Params) (*RichPoorBalances, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	total := decimal.NewFromBigInt(p.TotalBalance, 0)
	richShareAmount := p.RichmenShare.Mul(total).Round(0).BigInt()
	thresholdBalance := p.Threshold.Mul(total).Round(0).BigInt()

	// Richmen get the exact quotient, bumped by one when it does not divide
	// evenly, so each of them individually clears its share.
	richmen := big.NewInt(int64(p.RichmenCount))
	perRich, rem := new(big.Int).QuoRem(richShareAmount, richmen, new(big.Int))
	if rem.Sign() > 0 {
		perRich.Add(perRich, big.NewInt(1))
	}
	realRichTotal := new(big.Int).Mul(perRich, richmen)

	poorsTotal := new(big.Int).Sub(p.TotalBalance, realRichTotal)

	// Each poor participant holds two keyed balances (plain and HD wallet),
	// so the pool is divided over twice the poor count. Richmen are not
	// doubled; the asymmetry is deliberate.
	effectivePoor := big.NewInt(int64(p.PoorCount) * 2)
	perPoor := new(big.Int)
	if effectivePoor.Sign() > 0 {
		perPoor.Quo(poorsTotal, effectivePoor)
	}

	var merr *multierror.Error
	if poorsTotal.Sign() < 0 {
		merr = multierror.Append(merr, errors.Errorf(
			"rich balance rounding leaves a negative poor pool %s", poorsTotal))
	}
	assigned := new(big.Int).Add(realRichTotal, new(big.Int).Mul(perPoor, effectivePoor))
	if assigned.Cmp(p.TotalBalance) > 0 {
		merr = multierror.Append(merr, errors.Errorf(
			"assigned balance %s exceeds requested total %s", assigned, p.TotalBalance))
	}
	if perRich.Cmp(thresholdBalance) < 0 {
		merr = multierror.Append(merr, errors.Errorf(
			"rich balance %s is below committee threshold %s", perRich, thresholdBalance))
	}
	if effectivePoor.Sign() > 0 && perPoor.Cmp(thresholdBalance) >= 0 {
		merr = multierror.Append(merr, errors.Errorf(
			"poor balance %s exceeds committee threshold %s", perPoor, thresholdBalance))
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, errors.Wrap(err, "balance distribution invariants violated")
	}

	return &RichPoorBalances{
		RichCount:   p.RichmenCount,
		RichBalance: perRich,
		PoorCount:   p.PoorCount,
		PoorBalance: perPoor,
	}, nil
}

func (p Params) validate() error {
	var merr *multierror.Error
	if p.RichmenCount < 1 {
		merr = multierror.Append(merr, errors.Errorf("richmen count %d must be at least 1", p.RichmenCount))
	}
	if p.PoorCount < 0 {
		merr = multierror.Append(merr, errors.Errorf("poor count %d must not be negative", p.PoorCount))
	}
	if p.TotalBalance == nil || p.TotalBalance.Sign() <= 0 {
		merr = multierror.Append(merr, errors.New("total balance must be positive"))
	}
	one := decimal.NewFromInt(1)
	if p.RichmenShare.IsNegative() || p.RichmenShare.GreaterThan(one) {
		merr = multierror.Append(merr, errors.Errorf("richmen share %s must lie in [0, 1]", p.RichmenShare))
	}
	if p.Threshold.IsNegative() || p.Threshold.GreaterThan(one) {
		merr = multierror.Append(merr, errors.Errorf("threshold fraction %s must lie in [0, 1]", p.Threshold))
	}
	if err := merr.ErrorOrNil(); err != nil {
		return errors.Wrap(err, "balance distribution parameters rejected")
	}
	return nil
}
