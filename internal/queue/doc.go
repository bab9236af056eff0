// Package queue implements the durable work queue that decouples slow
// record insertion (media trimming, speech synthesis, database writes)
// from the interactive front-end.
//
// The queue is a JSON file holding an ordered list of work items; every
// mutation rewrites the whole file atomically so a crash at any point
// leaves a consistent, reloadable state. A single background worker
// claims one pending item at a time, drives it through the
// pending → processing → completed/error lifecycle, and reports outcomes
// through the events package. Cancellations are tracked in an in-memory
// registry keyed by the item's enqueue timestamp and honored by the
// worker at its next check boundary. A separate periodic monitor fails
// items stuck in processing and prunes old completed entries.
package queue
