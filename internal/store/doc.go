// Package store defines interfaces for user, task and notification
// persistence. The login path, the notification dispatcher and the HTTP
// handlers depend only on these interfaces, never on a database driver.
package store
