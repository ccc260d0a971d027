package lightclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	cmtlight "github.com/cometbft/cometbft/light"
	rpc "github.com/cometbft/cometbft/rpc/client/http"
	ics23 "github.com/cosmos/ics23/go"

	"github.com/latticebft/lattice/store"
)

// storeQueryPath mirrors the dispatcher's reserved path (abci.storeQueryPath
// is unexported, so the two copies must be kept in sync by hand; it names a
// stable wire-level contract, not an implementation detail either package
// owns).
const storeQueryPath = "/store"

// rootHashSize is the length of the root hash prefix every proof response
// carries ahead of its proof bytes.
const rootHashSize = 32

// TrustedRootSource supplies the AppHash a proof's embedded root must match
// in production mode. A *cmtlight.Client, wrapped by NewTrustedRootSource,
// satisfies this against a chain of trusted headers.
type TrustedRootSource interface {
	TrustedAppHash(ctx context.Context, height int64) ([]byte, error)
}

// lightHeaderSource adapts a CometBFT light client into a TrustedRootSource.
type lightHeaderSource struct {
	client *cmtlight.Client
}

// NewTrustedRootSource wraps client as a TrustedRootSource, verifying the
// requested height against the light client's trusted header chain.
func NewTrustedRootSource(client *cmtlight.Client) TrustedRootSource {
	return &lightHeaderSource{client: client}
}

func (l *lightHeaderSource) TrustedAppHash(ctx context.Context, height int64) ([]byte, error) {
	block, err := l.client.VerifyLightBlockAtHeight(ctx, height, time.Now())
	if err != nil {
		return nil, fmt.Errorf("lightclient: could not verify light block at height %d: %w", height, err)
	}
	return block.AppHash, nil
}

// Client queries a lattice node's light-client query path and verifies the
// returned proof before exposing the proven range as a read-only
// store.Reader. trusted is nil in development mode, where the embedded root
// hash is trusted as-is.
type Client struct {
	rpc     *rpc.HTTP
	trusted TrustedRootSource
}

// New constructs a Client against remote, CometBFT's RPC address. Pass a
// nil trusted source for development-mode use against the embedded root
// hash alone; pass NewTrustedRootSource(lightClient) in production.
func New(remote string, trusted TrustedRootSource) (*Client, error) {
	cli, err := rpc.New(remote, "/websocket")
	if err != nil {
		return nil, fmt.Errorf("lightclient: could not connect to %s: %w", remote, err)
	}
	return &Client{rpc: cli, trusted: trusted}, nil
}

// Prove queries the proof for every key under prefix, verifies it against
// its own embedded root (and, in production mode, against a trusted
// header), and returns a read-only store.Reader over the proven range. Any
// key outside prefix's proven set then reads as not-found.
func (c *Client) Prove(ctx context.Context, prefix []byte) (store.Reader, error) {
	resp, err := c.rpc.ABCIQuery(ctx, storeQueryPath, prefix)
	if err != nil {
		return nil, fmt.Errorf("lightclient: query failed: %w", err)
	}
	if resp.Response.Code != 0 {
		return nil, fmt.Errorf("lightclient: query rejected: (%d) %s", resp.Response.Code, resp.Response.Log)
	}

	root, entries, err := decodeAndVerifyProof(resp.Response.Value)
	if err != nil {
		return nil, err
	}

	if c.trusted != nil {
		trustedHash, err := c.trusted.TrustedAppHash(ctx, resp.Response.Height)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(trustedHash, root) {
			return nil, fmt.Errorf("lightclient: proof root does not match the trusted header's app hash")
		}
	}

	kvs := make([]store.KV, len(entries))
	for i, e := range entries {
		kvs[i] = store.KV{Key: e.Key, Value: e.Value}
	}
	return newProvenStore(kvs), nil
}

// decodeAndVerifyProof splits a proof response into its root hash and proof
// entry list, then independently verifies every entry's ics23 membership
// proof against that root — not merely that the entries rehash to a value
// the server itself also supplied, but that each one is actually committed
// in the IAVL tree whose root this is.
func decodeAndVerifyProof(value []byte) ([]byte, []store.ProofEntry, error) {
	if len(value) < rootHashSize {
		return nil, nil, fmt.Errorf("lightclient: proof response too short")
	}

	root := value[:rootHashSize]
	proofBytes := value[rootHashSize:]

	var entries []store.ProofEntry
	if err := json.Unmarshal(proofBytes, &entries); err != nil {
		return nil, nil, fmt.Errorf("lightclient: could not decode proof entries: %w", err)
	}

	for _, e := range entries {
		proof := new(ics23.CommitmentProof)
		if err := proof.Unmarshal(e.Proof); err != nil {
			return nil, nil, fmt.Errorf("lightclient: could not decode membership proof for key %x: %w", e.Key, err)
		}
		if !ics23.VerifyMembership(ics23.IavlSpec, root, proof, e.Key, e.Value) {
			return nil, nil, fmt.Errorf("lightclient: membership proof for key %x does not verify against root", e.Key)
		}
	}

	return root, entries, nil
}
