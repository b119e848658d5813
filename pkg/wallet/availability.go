package wallet

import "maps"

// Detection-only vendor tags. These can be reported available but are connected through KindWeb3.
const (
	VendorTrust    Kind = "trust"
	VendorCipher   Kind = "cipher"
	VendorStatus   Kind = "status"
	VendorImToken  Kind = "imtoken"
	VendorCoinbase Kind = "coinbase"
	VendorOpera    Kind = "opera"
	VendorEqual    Kind = "equal"
)

// AvailabilityMap reports which wallet kinds are usable in the current environment.
type AvailabilityMap map[Kind]bool

// Equal compares two maps by value. A missing key equals false.
func (m AvailabilityMap) Equal(other AvailabilityMap) bool {
	for k, v := range m {
		if other[k] != v {
			return false
		}
	}
	for k, v := range other {
		if m[k] != v {
			return false
		}
	}
	return true
}

func (m AvailabilityMap) Clone() AvailabilityMap {
	if m == nil {
		return AvailabilityMap{}
	}
	return maps.Clone(m)
}

// ConnectionState is the per-kind connection state.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateFailed       ConnectionState = "failed"
)
