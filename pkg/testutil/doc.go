// Package testutil provides shared fixtures for omarchy-setup tests.
//
// Key components:
//   - FakeRunner: scripted runner.Runner that records every command
//   - Environment: in-memory filesystem, isolated Paths and default Config
//
// Tests should not touch the host filesystem or run real commands. Use
// NewEnvironment and assert against env.FS and env.Runner.
package testutil
