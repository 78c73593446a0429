// Package api implements the HTTP admin API that mutates the proxy
// configuration document.
//
// # Routing
//
// Requests below the /api prefix are resolved by a Dispatcher against an
// ordered table of anchored regular expressions; the first matching
// pattern wins and its parenthesized groups become the handler's
// positional arguments. A path no pattern matches is a 404 before any
// handler is involved; a matched path whose handler does not implement
// the request's verb is a 405.
//
//	GET  PUT          /api/config
//	POST              /api/config/pack
//	GET  DELETE       /api/config/pack/{name}
//	GET  POST         /api/config/layer
//	GET  PUT  DELETE  /api/config/layer/{name}
//	GET  POST         /api/config/cache
//	GET  PUT  DELETE  /api/config/cache/{name}
//	GET  POST         /api/config/source
//	GET  PUT  DELETE  /api/config/source/{name}
//
// # Mutation protocol
//
// Every write follows the same shape: deep-copy the live document, apply
// the change to the copy, run the candidate check (field validation, then
// a full topology build), and persist only when the check passed. A
// rejected candidate leaves both the in-memory document and the file on
// disk untouched.
//
// # Response format
//
// Successful responses carry the affected resource as plain JSON. Errors
// use an envelope:
//
//	{
//	  "error": {
//	    "code": "invalid_request",
//	    "message": "Missing 'layer' value."
//	  }
//	}
//
// # Server
//
// NewRouter wires the dispatcher into a chi router together with the
// middleware chain (panic recovery, request logging, metrics, optional
// private-subnet filtering, CORS, content-type enforcement) and the
// /health and /metrics endpoints. Server wraps it in an http.Server with
// sane timeouts and graceful shutdown.
package api
