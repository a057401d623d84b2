// Package bootstrap drives module loading at process start.
//
// A Bootstrapper walks a fixed sequence of states:
//
//	ReadingDescriptors -> Loading -> ConfiguringApp -> Done
//	        |
//	        +-> FatalAbort
//
// Only an unreadable module list is fatal. Every other problem (an unknown
// identifier, a module whose constructor fails, a parameter set the settings
// store refuses, a broken settings file) is logged with the offending
// identifier, recorded in the Report and skipped. Descriptors are processed
// one at a time in file order.
package bootstrap
