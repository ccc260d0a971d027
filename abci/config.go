package abci

import (
	"fmt"
	"os"
	"strconv"

	"github.com/latticebft/lattice/errs"
)

// Config carries the dispatcher's construction-time parameters. Most of
// these are exposed as CLI flags/lattice.toml keys by the cmd package; the
// dispatcher itself only ever sees the parsed result.
type Config struct {
	// ChainID is compiled into the ChainCommitment plugin layer and
	// rejects any call bound for a different chain.
	ChainID string

	// StopHeight halts FinalizeBlock once req.Height reaches it, 0
	// disables the check. Mirrors the original ORGA_STOP_HEIGHT control.
	StopHeight int64
}

// stopHeightEnv is the environment variable name the original host runtime
// used for this control; its literal spelling is a functional contract, not
// a narrative reference, so it's preserved verbatim here.
const stopHeightEnv = "ORGA_STOP_HEIGHT"

// StopHeightFromEnv parses ORGA_STOP_HEIGHT if set. An empty environment
// leaves StopHeight disabled (0); a non-empty but unparsable value is a
// startup configuration error, never a panic reached mid-block.
func StopHeightFromEnv() (int64, error) {
	v := os.Getenv(stopHeightEnv)
	if v == "" {
		return 0, nil
	}
	h, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q: %v", errs.ErrInvalidStopHeight, stopHeightEnv, v, err)
	}
	if h < 0 {
		return 0, fmt.Errorf("%w: %s=%q: must not be negative", errs.ErrInvalidStopHeight, stopHeightEnv, v)
	}
	return h, nil
}
