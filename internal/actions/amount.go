package actions

import (
	"math/big"
	"regexp"

	clierr "github.com/hypeops/hypectl/internal/errors"
)

// HYPE uses 8 decimals for its native wei-like unit (1 HYPE = 100_000_000
// wei); perp USD amounts travel as integers with 6 decimals.
const (
	HypeDecimals = 8
	USDDecimals  = 6
)

var decimalPattern = regexp.MustCompile(`^([0-9]+(\.[0-9]*)?|\.[0-9]+)$`)

// shiftToBase converts a decimal amount string into base units by an exact
// decimal shift, rounding half away from zero. The conversion never goes
// through a float, so 5.5 HYPE is 550000000 wei, always.
func shiftToBase(amount string, decimals int) (uint64, error) {
	if !decimalPattern.MatchString(amount) {
		return 0, clierr.Newf(clierr.CodeInvalidAmount, "not a decimal number: %q", amount)
	}
	rat, ok := new(big.Rat).SetString(amount)
	if !ok || rat.Sign() < 0 {
		return 0, clierr.Newf(clierr.CodeInvalidAmount, "amount must not be negative, got %q", amount)
	}

	factor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	scaled := new(big.Rat).Mul(rat, new(big.Rat).SetInt(factor))

	quo := new(big.Int)
	rem := new(big.Int)
	quo.QuoRem(scaled.Num(), scaled.Denom(), rem)
	if rem.Lsh(rem, 1).Cmp(scaled.Denom()) >= 0 {
		quo.Add(quo, big.NewInt(1))
	}

	if quo.Sign() == 0 {
		return 0, clierr.Newf(clierr.CodeAmountTooSmall,
			"amount %s rounds to zero base units at %d decimals", amount, decimals)
	}
	if !quo.IsUint64() {
		return 0, clierr.Newf(clierr.CodeInvalidAmount, "amount %s overflows base units", amount)
	}
	return quo.Uint64(), nil
}

// HypeToWei converts a decimal HYPE amount ("1.23") into integer wei
// ("123000000").
func HypeToWei(amount string) (uint64, error) {
	return shiftToBase(amount, HypeDecimals)
}

// USDToInt converts a decimal USD amount into the exchange's 6-decimal
// integer representation ("1.5" -> 1500000).
func USDToInt(amount string) (uint64, error) {
	return shiftToBase(amount, USDDecimals)
}
