package diagnose

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

// FormatEther renders a wei amount in ether, keeping up to 18 decimals and
// trimming trailing zeros. Whole amounts keep one decimal ("1.0").
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}

	abs := new(big.Int).Abs(wei)
	whole, frac := new(big.Int).QuoRem(abs, big.NewInt(params.Ether), new(big.Int))

	decimals := strings.TrimRight(fmt.Sprintf("%018s", frac.String()), "0")
	if decimals == "" {
		decimals = "0"
	}

	sign := ""
	if wei.Sign() < 0 {
		sign = "-"
	}
	return sign + whole.String() + "." + decimals
}

// ShortAddress renders an address as 0x1234...abcd.
func ShortAddress(addr common.Address) string {
	return Shorten(addr.Hex())
}

// Shorten keeps the first six and last four characters of s.
func Shorten(s string) string {
	if len(s) <= 10 {
		return s
	}
	return s[:6] + "..." + s[len(s)-4:]
}
