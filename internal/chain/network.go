package chain

import (
	"fmt"
	"math/big"
)

// Network identifiers produced by Classify.
const (
	NetworkMainnet = "mainnet"
	NetworkMorden  = "morden"
	NetworkRopsten = "ropsten"
	NetworkUnknown = "unknown"
)

// Network is a classified network id.
type Network struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	// RawID is the numeric network id reported by the node.
	RawID string `json:"raw_id"`
}

var knownNetworks = map[int64]Network{
	1: {ID: NetworkMainnet, Label: "mainnet"},
	2: {ID: NetworkMorden, Label: "morden test network"},
	3: {ID: NetworkRopsten, Label: "ropsten test network"},
}

// Classify maps a network id onto a named network. A nil or zero id means no
// network and returns false.
func Classify(id *big.Int) (Network, bool) {
	if id == nil || id.Sign() == 0 {
		return Network{}, false
	}

	if id.IsInt64() {
		if n, ok := knownNetworks[id.Int64()]; ok {
			n.RawID = id.String()
			return n, true
		}
	}

	return Network{
		ID:    NetworkUnknown,
		Label: fmt.Sprintf("unknown/local network. ID - %s", id.String()),
		RawID: id.String(),
	}, true
}
