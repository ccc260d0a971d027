package plugins

// Compose builds the fixed plugin chain — SDK-compat → Signer → Nonce →
// ChainCommitment → Payable → Fee → app — in the order §4.3 specifies,
// returning the outermost Plugin the dispatcher calls into. SDK-compat also
// holds a direct reference to Nonce, the plugin Signer itself wraps, so an
// Amino or Protobuf envelope it has already verified against its own
// SignDoc enters the chain past Signer rather than being reverified there
// against a repacked body it was never actually signed over.
func Compose(chainID string, app Plugin) Plugin {
	fee := NewFee(app)
	payable := NewPayable(fee)
	chain := NewChainCommitment(chainID, payable)
	nonce := NewNonce(chain)
	signer := NewSigner(nonce)
	return NewSDKCompat(chainID, signer, nonce)
}
