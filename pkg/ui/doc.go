// Package ui renders command output: change reports, tables, messages and
// errors. Styles come from an embedded styles.yaml and are dropped when
// output is not a color-capable terminal.
package ui
