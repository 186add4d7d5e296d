package dashboard

import (
	"github.com/rocketpool/rocketpool-web/internal/chain"
	"github.com/rocketpool/rocketpool-web/internal/pubsub"
)

// ModuleName is the topic segment owned by this module.
const ModuleName = "Init"

// NetworkStatus is the payload of network publications.
type NetworkStatus struct {
	Network   chain.Network `json:"network"`
	Connected bool          `json:"connected"`
}

var (
	// NetworkChange announces the network settings the module starts with.
	NetworkChange = pubsub.NewEvent[NetworkStatus](
		"rocketPool/Init/network/change", ModuleName,
		"Initial network settings, published once during initialisation")

	// NetworkDetected carries the classification of the node's network id.
	NetworkDetected = pubsub.NewEvent[NetworkStatus](
		"rocketPool/Init/networkDetected", ModuleName,
		"The network the node is connected to has been identified")

	// AccountChanged carries the address the user selected.
	AccountChanged = pubsub.NewEvent[string](
		"rocketPool/Init/accountChanged", ModuleName,
		"A different account was selected")
)
