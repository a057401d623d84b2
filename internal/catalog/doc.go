// Package catalog maps the module identifiers used in module-list files to
// the Go constructors that build them.
//
// Modules are compiled into the binary and announce themselves through the
// Plugin interface, so resolving an identifier is a table lookup rather than
// a runtime type search. Instantiate is a pure factory: it never touches the
// registry or the settings store, which lets the bootstrap isolate and log
// failures per identifier.
package catalog
