// Package application composes the configuration record once at startup and
// wires storage, handlers, routers and the HTTP server that publishes it,
// keeping the main package focused on CLI parsing and orchestration.
package application
