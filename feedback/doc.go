// Package feedback implements the eligibility-and-submission core of an
// in-app feedback toolkit: deciding when a host application may prompt its
// user for feedback, and delivering a structured feedback record to a
// remote collector over HTTP.
//
// The package has no UI. Hosts construct a Config once, ask an Engine
// whether prompting is allowed right now, collect a message through their
// own presentation layer, assemble a Record with NewRecord, and hand it to
// a Pipeline for delivery. All external collaborators (HTTP client, flag
// store, install-date source, environment facts) are injected interfaces
// with working defaults.
package feedback
