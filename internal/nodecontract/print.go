package nodecontract

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var banner = strings.Repeat("*", 32)

// Print writes the event report followed by the gas estimate and the
// confirmation line.
func Print(w io.Writer, r *Result) error {
	var b strings.Builder
	for _, ev := range r.Events {
		fmt.Fprintln(&b, banner)
		fmt.Fprintf(&b, "EVENT: %s\n", ev.Name)
		fmt.Fprintln(&b, banner)
		for _, arg := range ev.Args {
			fmt.Fprintf(&b, " - %s:  %s\n", arg.Name, FormatValue(arg.Value))
		}
	}
	fmt.Fprintln(&b, banner)
	fmt.Fprintf(&b, "Gas estimate: %d\n", r.GasEstimate)
	fmt.Fprintf(&b, "Node contract deposit reservation cancelled: %s\n", r.NodeContract)

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatValue renders a decoded ABI value. Integers print in decimal.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case *big.Int:
		if x == nil {
			return "0"
		}
		return x.String()
	case common.Address:
		return x.Hex()
	case common.Hash:
		return x.Hex()
	case [32]byte:
		return hexutil.Encode(x[:])
	case []byte:
		return hexutil.Encode(x)
	default:
		return fmt.Sprint(x)
	}
}
