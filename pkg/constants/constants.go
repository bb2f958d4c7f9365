// Package constants provides shared constants used throughout votekit.
// This includes default paths of the hardhat project layout, network
// defaults for the local development node, timeouts and file permissions.
package constants

import "time"

// Timeout constants
const (
	// RPCTimeout bounds a single CLI command talking to the node.
	RPCTimeout = 30 * time.Second

	// DialTimeout is the timeout for establishing the RPC connection
	DialTimeout = 10 * time.Second

	// ReceiptPollInterval is how often a pending transaction receipt is polled
	ReceiptPollInterval = 250 * time.Millisecond

	// ShutdownTimeout is given to cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Network defaults match the hardhat localhost network.
const (
	// DefaultRPCURL is the JSON-RPC endpoint of the local development node
	DefaultRPCURL = "http://127.0.0.1:8545"

	// DefaultChainID is the hardhat chain ID
	DefaultChainID = 31337

	// DefaultNetwork is the network name recorded in deployment records
	DefaultNetwork = "localhost"

	// DefaultProbeAddress is hardhat's first development account
	DefaultProbeAddress = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"

	// MaxListedAccounts caps the accounts printed by the accounts command
	MaxListedAccounts = 10
)

// Path defaults are relative to the blockchain project root.
const (
	// DefaultContractName is the name of the voting contract
	DefaultContractName = "Voting"

	// DefaultArtifactPath is the hardhat build artifact of the contract
	DefaultArtifactPath = "artifacts/contracts/Voting.sol/Voting.json"

	// DefaultConsumerABIPath is the ABI copy embedded in the web client
	DefaultConsumerABIPath = "../client/src/abis/Voting.json"

	// DefaultDeploymentPath is where deploy writes its record
	DefaultDeploymentPath = "deployment.json"

	// DefaultClientContextPath is the client file holding CONTRACT_ADDRESS
	DefaultClientContextPath = "../client/src/contexts/Web3Context.jsx"

	// DefaultExtractDir is where extract writes .abi and .bin files
	DefaultExtractDir = "extracted"

	// ConfigFileName is the config file name searched in $HOME and the working directory
	ConfigFileName = ".votekit"
)

// DefaultCandidates are deployed when no --candidates flag is given.
var DefaultCandidates = []string{"Alice", "Bob", "Charlie"}

// Formatting constants
const (
	// JSONIndent matches JSON.stringify(value, null, 2)
	JSONIndent = "  "

	// SeparatorWidth is the width of section separators in console reports
	SeparatorWidth = 50
)
