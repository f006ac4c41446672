package utils

// NetworkType identifies the ledger network a manager instance operates
// against.
type NetworkType string

const (
	Mainnet NetworkType = "mainnet"
	Testnet NetworkType = "testnet"
	Unknown NetworkType = "unknown"
)

const (
	// DefaultLogLevel is the default log level applied to all subsystems
	// when no explicit level was configured.
	DefaultLogLevel = "info"
)

// ToNetworkType maps a raw network string to a known NetworkType.
func ToNetworkType(str string) NetworkType {
	switch str {
	case string(Mainnet):
		return Mainnet
	case string(Testnet):
		return Testnet
	default:
		return Unknown
	}
}

// Display returns the user-facing name of the network.
func (n NetworkType) Display() string {
	switch n {
	case Mainnet:
		return "Mainnet"
	case Testnet:
		return "Testnet"
	default:
		return "Unknown"
	}
}
