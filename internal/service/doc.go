// Package service provides application-level services for managing users,
// reviews, and statistics.
package service
