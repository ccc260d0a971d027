// Package plugins implements the fixed transaction envelope plugin chain:
// SDK-compat, Signer, Nonce, ChainCommitment, Payable, Fee, and the
// innermost application layer. Each plugin wraps exactly one inner Plugin
// and consumes a prefix of the serialized envelope before delegating the
// remainder inward.
package plugins
