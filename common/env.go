// Package common holds the names shared by the termseq CLI and RPC host.
package common

// Environment variable names for configuration.
const (
	// DebugEnv enables debug logging.
	DebugEnv = "TERMSEQ_DEBUG"

	// RPCSecretEnv is the bearer token required by the RPC host.
	RPCSecretEnv = "TERMSEQ_RPC_SECRET"

	// RPCAddrEnv overrides the RPC listen address.
	RPCAddrEnv = "TERMSEQ_RPC_ADDR"

	// NoColorEnv disables ANSI colours in terminal playback.
	NoColorEnv = "TERMSEQ_NO_COLOR"
)
