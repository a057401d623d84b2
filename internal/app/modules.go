package app

import (
	"github.com/specialistvlad/modboot/internal/catalog"
	"github.com/specialistvlad/modboot/modules/env_vars"
	"github.com/specialistvlad/modboot/modules/http_client"
	"github.com/specialistvlad/modboot/modules/print"
	"github.com/specialistvlad/modboot/modules/s3"
	"github.com/specialistvlad/modboot/modules/socketio"
)

// corePlugins is the definitive list of all modules that are compiled into
// the modboot binary.
var corePlugins = []catalog.Plugin{
	env_vars.Plugin{},
	http_client.Plugin{},
	print.Plugin{},
	s3.Plugin{},
	socketio.Plugin{},
}

// NewCatalog returns a catalog of the given plugins, or of the built-in
// modules when none are given.
func NewCatalog(plugins ...catalog.Plugin) *catalog.Catalog {
	if len(plugins) == 0 {
		plugins = corePlugins
	}
	return catalog.New(plugins...)
}
