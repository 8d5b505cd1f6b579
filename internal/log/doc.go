// Package log provides a slog.Handler wrapper that redacts credentials.
//
// Every source request carries a Basic credential and every target request a
// token credential, and both regularly appear in request/response debugging
// attributes. The handler masks attribute values by key name and by value
// pattern before they reach the underlying handler, so verbose logging can
// stay on without leaking secrets into terminals or log files.
package log
