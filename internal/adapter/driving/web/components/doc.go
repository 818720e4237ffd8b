// Package components holds the templ components of the browser surface.
// Edit the .templ sources and run `go tool templ generate`.
package components
