package chain

import (
	"math/big"
	"strings"
)

// Unit is a power-of-ten denomination of wei.
type Unit int

const (
	UnitWei   Unit = 0
	UnitGwei  Unit = 9
	UnitEther Unit = 18
)

// FromWei renders wei in the given unit as an exact decimal string without
// trailing zeros ("1.5", "0.000000001", "42").
func FromWei(wei *big.Int, unit Unit) string {
	if wei == nil {
		return "0"
	}
	if unit <= 0 {
		return wei.String()
	}

	abs := new(big.Int).Abs(wei)
	divisor := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(unit)), nil)
	whole, frac := new(big.Int).QuoRem(abs, divisor, new(big.Int))

	out := whole.String()
	if frac.Sign() != 0 {
		fs := frac.String()
		fs = strings.Repeat("0", int(unit)-len(fs)) + fs
		out += "." + strings.TrimRight(fs, "0")
	}
	if wei.Sign() < 0 {
		out = "-" + out
	}
	return out
}
