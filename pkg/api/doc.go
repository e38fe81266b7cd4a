// Package api serves the node forest over HTTP.
//
// # Routes
//
//	GET   /nodes?flat=<bool>   flat node list (default) or nested forest
//	PATCH /nodes/move          batch reparenting
//	GET   /healthz             liveness
//	GET   /metrics             Prometheus exposition, when configured
//
// flat is false only for "false" (any case) or "0". A nested response with
// exactly one root is that root object rather than a one-element array.
//
// # Moves
//
// The move body is
//
//	{"node_ids": [3], "target_parent_id": 2}
//
// with target_parent_id null for the root level. Success answers
// 200 {"success": true, "moved": [3]}. Validation failures answer 400 with
// the machine-readable code and, when one node is at fault, its id:
//
//	{"success": false, "error": "Cannot move node under its own descendant",
//	 "code": "DESCENDANT_CYCLE", "node_id": 2}
//
// Storage failures answer 500 with code STORAGE.
//
// # Middleware
//
// Every request gets an X-Request-ID (taken from the request or generated)
// that is echoed in the response and in the access log line. Responses are
// reported to the observability HTTP hooks under their chi route pattern.
package api
