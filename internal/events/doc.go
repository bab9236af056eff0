// Package events provides types and interfaces for worker-to-UI notification.
//
// The background queue worker publishes lifecycle events (entry processed,
// entry cancelled, queue updated) without knowing which consumers observe
// them. Consumers register handlers on an emitter; the HTTP layer keeps a
// bounded ring of recent events so a detached front-end can poll for them.
package events
