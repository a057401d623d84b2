// Package descriptor reads the ordered list of module identifiers that the
// bootstrap loads.
//
// The list lives in a module-list file. Three layouts are understood and
// picked by file extension in Open:
//
//	# modules.hcl
//	module "print" {}
//	module "socketio" { enabled = false }
//
//	# modules.yaml
//	modules:
//	  - print
//	  - socketio
//
//	<!-- modules.xml -->
//	<modules>
//	  <module>print</module>
//	</modules>
//
// Any read or parse failure is reported as ErrSourceUnreadable: without its
// module list the application cannot start.
package descriptor
