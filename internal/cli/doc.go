// Package cli is responsible for parsing command-line arguments, layering
// them over environment variables and an optional config file, and handling
// process-level concerns like exit codes. It translates all of that into the
// application's internal configuration.
package cli
