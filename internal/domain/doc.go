// Package domain contains the core business entities of the task manager:
// users, tasks and notifications. It is independent of any specific
// infrastructure or delivery mechanism.
package domain
