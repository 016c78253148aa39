// Package api serves the question answering HTTP API with gin.
//
// Routes:
//
//	GET  /          banner
//	POST /ask       {"query", "top_k"?} -> {"answer"}
//	POST /retrieve  {"query", "top_k"?} -> {"chunks": [...]}
//	GET  /healthz   200 once the artifacts load
//	GET  /metrics   Prometheus exposition
//
// Failures map to a status and a fixed message; error detail is logged,
// never returned to the client.
package api
