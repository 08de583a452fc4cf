// Package connectors holds the plumbing shared by adapters that talk to
// third-party APIs. The google subpackage wraps authentication, rate
// limiting and error mapping for the Google Sheets adapter.
package connectors
