// Package mid implements the MID codec registry: a per-MID, per-revision
// parser/serializer dispatch over the ASCII fixed-width fields and
// repeating record groups (Data Fields, Resolution Fields, Trace Samples)
// carried in an Open Protocol message payload.
//
// A leaf codec registers itself against one or more MIDs with Register,
// normally from an init() function in the midcodecs package. The registry
// itself holds no payload-layout knowledge; it only routes.
package mid
