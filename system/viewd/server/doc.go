// Package server implements the viewd HTTP server.
//
// A Server composes views on request with a view.Composer and tells the
// watchers of a view about each new composition through a WatchHub.
// See package api for the endpoints.
package server
