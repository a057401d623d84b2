// Package module defines the capability contract shared by every pluggable
// module that the bootstrap can load.
//
// A module is any value implementing Module. The bootstrap never inspects a
// module beyond this contract: it asks for the parameter-set type, builds a
// zero value of it, applies defaults and hands the result to the settings
// store. Everything else a module does is its own business.
package module
