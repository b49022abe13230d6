// Package report renders audit verdicts as markdown documents for the
// reports directory.
package report
