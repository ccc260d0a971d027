/*
Lattice hosts a fixed chain of composable transaction-processing plugins
behind a single ABCI application, speaking CometBFT's ABCI socket protocol.

# Motivation

Lattice is a Go application built on [CometBFT]. It focuses on providing:

  - a layered, authenticated key/value store with write-through buffering ; and
  - a fixed plugin chain (SDK compat, signer recovery, nonce, chain
    commitment, payable context, fee) in front of whatever application
    logic is composed in ; and
  - a light-client query path that lets a remote caller verify a proof over
    a range of the committed state without trusting the serving node.

Lattice is built using the [cobra] command-line utility library.

By default, the main function runs rootCmd from `cmd/root.go`, which starts
a lattice node and asks for the password protecting its node identity.

# Examples

	lattice --home=/tmp/.lattice-home --socket=unix://lattice.sock
	lattice version
	lattice info --home=/tmp/.lattice-home
	lattice send --home /tmp/.lattice-home --to DEADBEEF... --amount 10 --commit
	lattice query --home /tmp/.lattice-home --address DEADBEEF...

# Commands

  - `lattice`: Default node startup (ABCI application server).
  - `lattice send`: Sign, and optionally broadcast, a coins transfer.
  - `lattice version`: Print the version number of this lattice node.
  - `lattice info`: Print the current node's ABCI information.
  - `lattice query`: Query a running node for an account balance.

[cobra]: https://github.com/spf13/cobra
[CometBFT]: https://github.com/cometbft/cometbft
*/
package main
