// Package mail defines the contracts for sending email messages.
//
// The main purpose is to keep the rest of the application independent from a
// specific email endpoint. Handlers and use cases work with the Mail interface
// and Message payload; the concrete delivery target is resolved at runtime
// from a transport DSN and owned by a single sender instance.
package mail
