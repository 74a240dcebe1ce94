// Package filesystem provides the FS abstraction used by every component that
// reads or edits files.
//
// Production code runs against the OS filesystem; tests use an in-memory
// afero filesystem so that edits to rc files, desktop configs and system
// files never touch the machine running the tests.
package filesystem
