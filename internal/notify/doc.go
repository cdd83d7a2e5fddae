// Package notify records task notifications and delivers them out of band.
//
// Notify writes the notification record before returning, so it is listed
// immediately. E-mail delivery runs later on the background worker pool and
// is attempted at most once: a full queue, a slow transport, or a transport
// error is logged and the notification stays recorded.
package notify
