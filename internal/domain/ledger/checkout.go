package ledger

import (
	"ledgerbook/internal/core/types"
)

// apportion splits an amount across lines pro-rata by weight, rounding each
// share to 2 decimal places. Each share is clamped to what is still
// unallocated, so no share ever goes negative; the last line with a positive
// weight absorbs the remainder and the shares always sum to the amount
// exactly. Zero-weight lines get nothing.
func apportion(amount types.Money, weights []types.Money) []types.Money {
	n := len(weights)
	shares := make([]types.Money, n)
	for i := range shares {
		shares[i] = types.Zero()
	}
	if n == 0 || amount.IsZero() {
		return shares
	}

	total := types.Sum(weights...)
	if total.IsZero() {
		shares[n-1] = amount
		return shares
	}

	last := n - 1
	for last > 0 && !weights[last].IsPositive() {
		last--
	}

	remaining := amount
	for i := 0; i < n; i++ {
		if i == last || !weights[i].IsPositive() {
			continue
		}
		share := types.RoundMoney(amount.Mul(weights[i]).Div(total))
		if share.GreaterThan(remaining) {
			share = remaining
		}
		shares[i] = share
		remaining = remaining.Sub(share)
	}
	shares[last] = remaining
	return shares
}

// rebalance shifts rounding excess between lines so that no line's combined
// channel shares exceed its line total. The caller guarantees the overall
// paid amount does not exceed the sum of totals, so a backward pass followed
// by a forward pass always lands every line within its cap. Channel sums are
// preserved exactly.
func rebalance(totals []types.Money, cash, bank, finance []types.Money) {
	n := len(totals)
	if n < 2 {
		return
	}

	shift := func(from, to int) {
		excess := cash[from].Add(bank[from]).Add(finance[from]).Sub(totals[from])
		if !excess.IsPositive() {
			return
		}
		for _, channel := range [][]types.Money{cash, bank, finance} {
			take := excess
			if channel[from].LessThan(take) {
				take = channel[from]
			}
			if take.IsPositive() {
				channel[from] = channel[from].Sub(take)
				channel[to] = channel[to].Add(take)
				excess = excess.Sub(take)
			}
			if !excess.IsPositive() {
				return
			}
		}
	}

	for i := n - 1; i > 0; i-- {
		shift(i, i-1)
	}
	for i := 0; i < n-1; i++ {
		shift(i, i+1)
	}
}
