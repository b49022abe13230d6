// Command scrutiny is the CLI for the compliance audit pipeline: it audits
// call recordings and chat logs against the configured policy, and manages
// the policy index and audit history.
package main
