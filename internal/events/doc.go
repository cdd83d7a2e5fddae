// Package events provides in-process publish/subscribe between services.
//
// Services emit events without knowing who handles them. The user service
// emits TypePasswordChanged and TypeRoleChanged; the handlers registered at
// startup clear the login and principal caches for that account.
package events
