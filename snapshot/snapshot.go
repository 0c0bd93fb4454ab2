// Package snapshot serializes a DealResult to and from MessagePack, as a
// golden-fixture format. msgpack gives a compact, schema-stable binary
// fixture format without hand-rolling a diff-friendly text encoding. No
// engine or aggregate test reads or writes fixtures through it; its own
// test checks the encode/decode round trip.
package snapshot

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/meenmo/hybridlattice/aggregate"
)

// Encode serializes a DealResult to MessagePack bytes.
func Encode(r aggregate.DealResult) ([]byte, error) {
	b, err := msgpack.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("snapshot: Encode: %w", err)
	}
	return b, nil
}

// Decode deserializes MessagePack bytes back into a DealResult.
func Decode(b []byte) (aggregate.DealResult, error) {
	var r aggregate.DealResult
	if err := msgpack.Unmarshal(b, &r); err != nil {
		return aggregate.DealResult{}, fmt.Errorf("snapshot: Decode: %w", err)
	}
	return r, nil
}
