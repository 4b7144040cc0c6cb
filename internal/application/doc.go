// Package application provides dependency wiring. It builds the diagnostic
// logger and the metrics client from a resolved configuration and keeps both
// subscribed to prefix changes, leaving the main package focused on CLI
// parsing and orchestration.
package application
