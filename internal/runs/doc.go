// Package runs persists pipeline run history in SQLite so past simulator
// invocations, their exit codes, and failure messages can be inspected.
package runs
