// Package registry provides the process-wide store of live module instances.
//
// The Registry maps a module's dynamic Go type to the single instance that
// was loaded for it. It is populated by the bootstrap and then queried by the
// rest of the application for the lifetime of the process. All methods are
// safe for concurrent use; the bootstrap may insert while other goroutines
// look modules up.
//
// The Registry is the only authoritative collection of loaded modules. Other
// components receive it by reference instead of keeping their own lists.
package registry
