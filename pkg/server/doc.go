// Package server exposes registered render roots over HTTP and
// WebSocket.
//
// A render root is a named RenderFunc that drives a rendertree.Builder.
// The server owns the builders: each WebSocket connection gets its own
// instance, reused across passes with Clear, so concurrent connections
// never share builder state. Render functions receive the builder
// explicitly on every invocation.
//
// Routes:
//
//	GET /healthz          liveness probe
//	GET /metrics          Prometheus metrics
//	GET /frames/{root}    plain-text dump of one render pass
//	GET /live/{root}      WebSocket stream of encoded frame sequences
//
// A connected client receives the initial render immediately and a
// fresh pass on every Refresh control message.
package server
