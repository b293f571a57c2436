// Package task provides in-process background task execution. Work that
// must not block or fail a request, such as statistics recomputation, is
// submitted here and drained by a small worker pool.
package task
