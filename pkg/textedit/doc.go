// Package textedit implements the line-oriented, idempotent text edits that
// provisioning relies on: ensure a line exists, replace a managed block,
// set KEY=value assignments in place.
//
// The pure functions operate on strings and never touch the filesystem.
// Editor wraps them with read-modify-write semantics over a filesystem.FS,
// skipping the write entirely when the content would not change.
package textedit
