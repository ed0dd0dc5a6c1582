package distribution

import "math/big"

// Balances is the per-key balance assignment a distribution resolves to.
// PerKey lists balances in the canonical order: rich keys first, then the
// poor key pairs (plain key followed by HD key for each participant).
type Balances interface {
	PerKey() []*big.Int
	Total() *big.Int
}

// RichPoorBalances is the planner's output: a uniform balance per rich key
// and a uniform balance per poor key, with the poor count doubled to cover
// both key variants.
type RichPoorBalances struct {
	RichCount   int
	RichBalance *big.Int
	PoorCount   int
	PoorBalance *big.Int
}

// EffectivePoorCount is the number of poor keyed balances, two per
// participant.
func (b *RichPoorBalances) EffectivePoorCount() int {
	return b.PoorCount * 2
}

func (b *RichPoorBalances) PerKey() []*big.Int {
	out := make([]*big.Int, 0, b.RichCount+b.EffectivePoorCount())
	for i := 0; i < b.RichCount; i++ {
		out = append(out, new(big.Int).Set(b.RichBalance))
	}
	for i := 0; i < b.EffectivePoorCount(); i++ {
		out = append(out, new(big.Int).Set(b.PoorBalance))
	}
	return out
}

func (b *RichPoorBalances) Total() *big.Int {
	rich := new(big.Int).Mul(b.RichBalance, big.NewInt(int64(b.RichCount)))
	poor := new(big.Int).Mul(b.PoorBalance, big.NewInt(int64(b.EffectivePoorCount())))
	return rich.Add(rich, poor)
}

// CustomBalances is an explicit per-key balance list supplied by the caller,
// in the same canonical key order.
type CustomBalances []*big.Int

func (c CustomBalances) PerKey() []*big.Int {
	out := make([]*big.Int, len(c))
	for i, b := range c {
		out[i] = new(big.Int).Set(b)
	}
	return out
}

func (c CustomBalances) Total() *big.Int {
	total := new(big.Int)
	for _, b := range c {
		total.Add(total, b)
	}
	return total
}
