// Package history persists completed audits to a SQLite database so past
// verdicts can be listed, inspected, and cleared from the CLI.
package history
