// Package events provides a lightweight in-process publish/subscribe
// mechanism. Services emit events without knowing who consumes them;
// handlers subscribe at startup.
package events
