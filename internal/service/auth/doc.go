// Package auth implements credential verification: password hashing, the
// in-process login cache, token issuing, and background upgrades of weak
// password hashes.
package auth
