package chain

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidAddress is returned for malformed account or contract addresses.
var ErrInvalidAddress = errors.New("chain: invalid address")

// DefaultShortLabelLength is the visible length of a shortened address label.
const DefaultShortLabelLength = 26

// ParseAddress validates a hex address. The 0x prefix is optional; mixed-case
// input must carry a valid EIP-55 checksum.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) {
		return common.Address{}, ErrInvalidAddress
	}

	addr := common.HexToAddress(s)
	body := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if body != strings.ToLower(body) && body != strings.ToUpper(body) {
		if addr.Hex()[2:] != body {
			return common.Address{}, ErrInvalidAddress
		}
	}
	return addr, nil
}

// ShortLabel keeps the first and last length/2 characters of label.
func ShortLabel(label string, length int) string {
	if length <= 0 || len(label) <= length {
		return label
	}
	half := length / 2
	return label[:half] + "..." + label[len(label)-half:]
}
