// Package mail delivers notification e-mail over SMTP.
package mail
