// Package midcodecs provides the leaf MID codecs registered against the
// mid.Default registry. Each mid*.go file in this package registers one MID
// or MID pair from an init() function, following the same self-registration shape the
// image/png-style blank-import pattern uses: importing this package for
// its side effects (usually via `import _ "…/midcodecs"`) is enough to
// populate the registry.
//
// The MIDs implemented here are illustrative: this package intentionally
// leaves the full MID catalog out of scope and only pins MID 0001/0002's
// wire layout (via its own worked example). The remaining codecs below
// exist to exercise every field-reader helper and registry convention
// (plain fixed-width fields, Data Fields, Resolution Fields, Trace
// Samples, the ack rewrite, and the subscribe/unsubscribe rewrite) with a
// concrete, round-trippable payload shape.
package midcodecs

import "github.com/diwakrZha/node-open-protocol-v2/mid"

// register is a small helper so each leaf's init() reads as one line.
func register(id uint16, codec mid.Codec) { mid.Register(id, codec) }
