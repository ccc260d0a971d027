// Package errs defines the error kinds shared across the lattice core and
// the ABCI codes they map onto.
package errs

import "github.com/cockroachdb/errors"

// ABCI response codes. Zero always means success; every other value is a
// stable, documented failure kind so clients can branch on it without
// parsing log strings.
const (
	CodeOK uint32 = iota
	CodeFraming
	CodeStore
	CodeCall
	CodeSigner
	CodeNonce
	CodeChainID
	CodeFee
	CodeQuery
	CodeApplication
)

// Sentinel errors for each error kind named in the error handling design.
// Wrap these with errors.Wrap/errors.Wrapf to attach context; callers that
// need the ABCI code back out should use CodeOf.
var (
	ErrFraming     = errors.New("abci: malformed request")
	ErrStore       = errors.New("store: operation failed")
	ErrCall        = errors.New("call: validation failed")
	ErrSigner      = errors.New("signer: missing or invalid signature")
	ErrNonce       = errors.New("nonce: mismatch")
	ErrChainID     = errors.New("chain id: mismatch")
	ErrFee         = errors.New("fee: underpaid")
	ErrQuery       = errors.New("query: path not handled")
	ErrApplication = errors.New("application error")

	ErrEnvelopeTooLarge    = errors.WithSecondaryError(ErrFraming, errors.New("envelope exceeds 65535 bytes"))
	ErrInsufficientFunds   = errors.WithSecondaryError(ErrCall, errors.New("insufficient funds"))
	ErrTransfersDisabled   = errors.WithSecondaryError(ErrCall, errors.New("transfers are disabled"))
	ErrDuplicateTxHash     = errors.WithSecondaryError(ErrStore, errors.New("transaction hash already exists"))
	ErrReachedStopHeight   = errors.New("reached stop height")
	ErrInvalidStopHeight   = errors.New("invalid ORGA_STOP_HEIGHT")
)

// kinded associates an error kind with its ABCI code.
type kinded struct {
	kind error
	code uint32
}

var kinds = []kinded{
	{ErrFraming, CodeFraming},
	{ErrStore, CodeStore},
	{ErrCall, CodeCall},
	{ErrSigner, CodeSigner},
	{ErrNonce, CodeNonce},
	{ErrChainID, CodeChainID},
	{ErrFee, CodeFee},
	{ErrQuery, CodeQuery},
	{ErrApplication, CodeApplication},
}

// CodeOf maps an error produced anywhere in the plugin stack back onto its
// ABCI response code, falling back to CodeApplication for anything that
// wasn't constructed from one of the sentinels above.
func CodeOf(err error) uint32 {
	if err == nil {
		return CodeOK
	}
	for _, k := range kinds {
		if errors.Is(err, k.kind) {
			return k.code
		}
	}
	return CodeApplication
}
