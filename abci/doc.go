/*
Package abci implements the Lattice ABCI request dispatcher: a
single-threaded cooperative executor sitting between CometBFT's socket
connections and the layered buffered store, realizing the v0.34-shaped
staged block lifecycle (BeginBlock/DeliverTx/EndBlock) over CometBFT
v0.38's consolidated FinalizeBlock.

# Structures

  - [Dispatcher]: implements abci.Application, serializing every request
    through an unbuffered job channel drained by a single executor goroutine.
  - [Config]: dispatcher construction parameters (chain id, stop height).

# Examples

	cfg := abci.Config{ChainID: "lattice-1", StopHeight: 0}
	d := abci.NewDispatcher(cfg, merkleStore, app, logger)
*/
package abci
