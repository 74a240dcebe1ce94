// Package registry provides a generic, ordered registry used to look up
// provisioning sections by name while keeping the order they were
// registered in.
package registry
