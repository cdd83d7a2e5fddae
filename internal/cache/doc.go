// Package cache provides a process-local, lock-striped TTL map.
//
// It backs the login credential cache and the authenticated-principal cache.
// Entries live only in this process: when the service runs as several
// instances, each keeps its own copy and the staleness bound after an
// out-of-band change becomes one TTL plus cross-instance skew.
package cache
