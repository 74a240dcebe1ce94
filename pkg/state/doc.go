// Package state keeps the small amount of state omarchy-setup records
// between runs: named values such as the active GPU mode, and the lock that
// keeps two runs from editing the same files at once.
package state
