// Package protocol implements the binary wire format between an Arbor
// server and its thin client.
//
// A finished render pass is a flat frame sequence (see pkg/rendertree);
// this package encodes that sequence compactly for transport. Handler
// and opaque attribute values never travel: they are reduced to kind
// markers on the wire and stay resident on the server.
//
// # Wire Layout
//
// Traffic is a stream of packets, each a 4-byte header (type, flags,
// big-endian payload length) followed by the payload. Payloads are
// built with Encoder and consumed with Decoder: varint integers,
// length-prefixed strings, single-byte tags.
//
// # Safety
//
// Decoder enforces allocation and collection limits so a malicious
// peer cannot force large allocations with small inputs.
package protocol
