// Package lightclient implements the proof-verifying read path for a
// lattice node: a client queries the dispatcher's reserved storeQueryPath
// for a prefix range, checks every returned entry's ics23 membership proof
// against the embedded root, and (in production mode) checks that root
// against a trusted CometBFT light-client header before exposing the
// proven range as a read-only store.Reader.
package lightclient
