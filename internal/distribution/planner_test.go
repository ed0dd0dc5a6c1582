package distribution

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func params(richmen, poors int, total int64, share, threshold string) Params {
	return Params{
		RichmenCount: richmen,
		PoorCount:    poors,
		TotalBalance: big.NewInt(total),
		RichmenShare: decimal.RequireFromString(share),
		Threshold:    decimal.RequireFromString(threshold),
	}
}

func TestPlanValid(t *testing.T) {
	plan, err := Plan(params(2, 3, 1000, "0.6", "0.1"))
	require.NoError(t, err)

	require.Equal(t, 2, plan.RichCount)
	require.Equal(t, big.NewInt(300), plan.RichBalance)
	require.Equal(t, 3, plan.PoorCount)
	require.Equal(t, big.NewInt(66), plan.PoorBalance)
	require.Equal(t, 6, plan.EffectivePoorCount())
}

func TestPlanPoorBalanceAboveThreshold(t *testing.T) {
	// 600 to richmen, 400 over 6 poor keys = 66 each, threshold 50: the poor
	// class no longer falls below the committee threshold.
	_, err := Plan(params(2, 3, 1000, "0.6", "0.05"))
	require.Error(t, err)
	require.ErrorContains(t, err, "poor balance 66 exceeds committee threshold 50")
}

func TestPlanRichBalanceBelowThreshold(t *testing.T) {
	_, err := Plan(params(10, 0, 1000, "0.1", "0.5"))
	require.Error(t, err)
	require.ErrorContains(t, err, "rich balance 10 is below committee threshold 500")
}

func TestPlanCollectsAllViolations(t *testing.T) {
	// Share 0.05 over 2 richmen with threshold 0.1: richmen fall below the
	// threshold and poors clear it. Both violations must be reported at once.
	_, err := Plan(params(2, 3, 1000, "0.05", "0.1"))
	require.Error(t, err)
	require.ErrorContains(t, err, "rich balance")
	require.ErrorContains(t, err, "poor balance")
}

func TestPlanRejectsNegativePoorPool(t *testing.T) {
	// Full share over 3 richmen rounds up to 334 each, 1002 total: the poor
	// pool would go negative and per-poor balances with it.
	plan, err := Plan(params(3, 1, 1000, "1", "0.1"))
	require.Error(t, err)
	require.ErrorContains(t, err, "negative poor pool")
	require.Nil(t, plan)
}

func TestPlanPoorBalanceNeverNegative(t *testing.T) {
	for _, p := range []Params{
		params(3, 1, 1000, "1", "0.1"),
		params(7, 2, 100, "1", "0.1"),
		params(2, 3, 1000, "0.6", "0.1"),
	} {
		plan, err := Plan(p)
		if err != nil {
			continue
		}
		require.GreaterOrEqual(t, plan.PoorBalance.Sign(), 0)
		require.GreaterOrEqual(t, plan.RichBalance.Sign(), 0)
	}
}

func TestPlanCeilDivRoundsUp(t *testing.T) {
	// 500 over 3 richmen: 166r2 -> 167 each.
	plan, err := Plan(params(3, 4, 1000, "0.5", "0.1"))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(167), plan.RichBalance)
	// 1000 - 501 = 499 over 8 poor keys = 62 each.
	require.Equal(t, big.NewInt(62), plan.PoorBalance)
}

func TestPlanConservation(t *testing.T) {
	cases := []Params{
		params(2, 3, 1000, "0.6", "0.1"),
		params(3, 4, 1000, "0.5", "0.1"),
		params(1, 10, 999999937, "0.7", "0.3"),
	}
	for _, p := range cases {
		plan, err := Plan(p)
		require.NoError(t, err)

		assigned := plan.Total()
		require.LessOrEqual(t, assigned.Cmp(p.TotalBalance), 0, "assigned must not exceed total")

		slack := new(big.Int).Sub(p.TotalBalance, assigned)
		bound := big.NewInt(int64(p.RichmenCount + plan.EffectivePoorCount()))
		require.Negative(t, slack.Cmp(bound), "rounding slack must stay below participant count")
	}
}

func TestPlanDoublingRule(t *testing.T) {
	for _, poors := range []int{0, 1, 7, 100} {
		plan, err := Plan(params(2, poors, 1000000, "0.5", "0.2"))
		require.NoError(t, err)
		require.Equal(t, poors*2, plan.EffectivePoorCount())
	}
}

func TestPlanZeroPoors(t *testing.T) {
	plan, err := Plan(params(2, 0, 1000, "0.6", "0.1"))
	require.NoError(t, err)
	require.Zero(t, plan.PoorBalance.Sign())
	require.Empty(t, plan.PerKey()[2:])
}

func TestPlanParamsRejected(t *testing.T) {
	_, err := Plan(params(0, -1, 0, "1.5", "-0.1"))
	require.Error(t, err)
	require.ErrorContains(t, err, "richmen count")
	require.ErrorContains(t, err, "poor count")
	require.ErrorContains(t, err, "total balance")
	require.ErrorContains(t, err, "richmen share")
	require.ErrorContains(t, err, "threshold fraction")
}

func TestPerKeyOrder(t *testing.T) {
	plan := &RichPoorBalances{
		RichCount:   2,
		RichBalance: big.NewInt(300),
		PoorCount:   1,
		PoorBalance: big.NewInt(50),
	}
	perKey := plan.PerKey()
	require.Len(t, perKey, 4)
	require.Equal(t, big.NewInt(300), perKey[0])
	require.Equal(t, big.NewInt(300), perKey[1])
	require.Equal(t, big.NewInt(50), perKey[2])
	require.Equal(t, big.NewInt(50), perKey[3])
}

func TestCustomBalances(t *testing.T) {
	c := CustomBalances{big.NewInt(1), big.NewInt(2), big.NewInt(3)}
	require.Equal(t, big.NewInt(6), c.Total())

	perKey := c.PerKey()
	perKey[0].SetInt64(99) // callers get copies
	require.Equal(t, big.NewInt(1), c[0])
}
