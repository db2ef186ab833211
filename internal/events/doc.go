// Package events provides a minimal in-process publish/subscribe mechanism
// for domain events. The engine emits achievement-unlocked events; the
// notification layer (out of scope here) subscribes to them.
package events
