// Package notifications pushes audit alerts through ntfy.
//
// When no topic is configured a noop implementation is returned so callers
// never need to branch on whether alerting is enabled.
package notifications
