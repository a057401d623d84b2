package bootstrap

import (
	"errors"
	"fmt"
	"slices"
)

// Step names the part of loading a descriptor that failed.
type Step string

const (
	StepInstantiate Step = "instantiate"
	StepBind        Step = "bind"
)

// Failure is a recoverable error for a single descriptor.
type Failure struct {
	Identifier string
	Step       Step
	Err        error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %q: %v", f.Step, f.Identifier, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Report summarizes a bootstrap run.
type Report struct {
	// Descriptors is the module list as read from the source.
	Descriptors []string
	// Loaded lists the identifiers that ended up in the registry, in load
	// order. Duplicates appear once per load.
	Loaded []string
	// Failures holds per-descriptor errors in the order they happened.
	Failures []Failure
	// ConfigErr is the settings load error, if any.
	ConfigErr error

	unbound []string
}

// Err joins all recoverable errors of the run, or returns nil.
func (r *Report) Err() error {
	errs := make([]error, 0, len(r.Failures)+1)
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	if r.ConfigErr != nil {
		errs = append(errs, r.ConfigErr)
	}
	return errors.Join(errs...)
}

// Unbound returns the identifiers of the modules that are registered but
// whose type holds no parameter set once loading is over. A type loaded more
// than once is listed once, under the identifier that loaded it last.
func (r *Report) Unbound() []string {
	return slices.Clone(r.unbound)
}
