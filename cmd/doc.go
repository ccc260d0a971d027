/*
Package cmd implements the lattice command-line interface.

This module defines commands to manage a lattice ABCI application server and
to send (broadcast) transactions to the chain or query its application state.

# Commands

  - `lattice`: Default node startup (ABCI application server).
  - `lattice send`: Sign, and optionally broadcast, a coins transfer.
  - `lattice version`: Print the version number of this lattice node.
  - `lattice info`: Print the current node's ABCI information.
  - `lattice query`: Query a running node for an account balance.

# Examples

	lattice --home=/tmp/.lattice-home --socket=unix://lattice.sock
	lattice version
	lattice info --home=/tmp/.lattice-home
	lattice send --home /tmp/.lattice-home --to DEADBEEF... --amount 10 --commit
	lattice query --home /tmp/.lattice-home --address DEADBEEF...
*/
package cmd
