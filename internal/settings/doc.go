// Package settings implements the configuration store that owns every
// module's parameter set.
//
// The bootstrap binds one default-constructed parameter set per module type
// and then asks the store to overlay persisted values from an HCL settings
// file:
//
//	module "github.com/specialistvlad/modboot/modules/print.Module" {
//	  prefix = ">>"
//	}
//
// Block labels are produced by TypeName. Parameter-set fields are mapped with
// the usual `hcl:"..."` struct tags, so the same struct definition drives
// both loading (gohcl.DecodeBody) and saving (gohcl.EncodeIntoBody).
//
// Once LoadConfiguration has run the store is finalized and refuses further
// bindings with ErrStoreRejected.
package settings
