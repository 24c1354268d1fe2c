// Package notifications pushes import run lifecycle events to an ntfy
// topic. Without a configured topic every notification is a no-op, so
// callers never need to guard their calls.
package notifications
