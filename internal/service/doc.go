// Package service contains the application use cases. Services coordinate
// domain objects, the stores defined in internal/store, the credential
// components in internal/service/auth, and the notification dispatcher.
//
// Services receive their dependencies through constructors and never depend
// on a concrete infrastructure implementation.
package service
