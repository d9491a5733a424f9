// Package api holds the request and response types of the viewd HTTP
// API.
//
//	PUT  /views/{name}        compose and store a view; body is a description
//	GET  /views/{name}        read a stored view
//	GET  /views/{name}/watch  websocket stream of ViewEvents
//	POST /validate            check a description
//
// Descriptions may be sent as JSON or YAML, selected by Content-Type.
// Responses are JSON.  Failed requests respond with an Error.
package api
