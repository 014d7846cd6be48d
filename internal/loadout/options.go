package loadout

import (
	"github.com/charmbracelet/log"

	"github.com/CommanderRoot/ed-forge/internal/catalog"
)

// Catalog is the reference data a loadout consults. *catalog.Catalog
// implements it.
type Catalog interface {
	ModuleProperty(item, property string) (float64, bool)
	ItemFitsSlot(item, shipType, slot string) bool
	Class(item string) (int, bool)
	Rating(item string) (string, bool)
	SlotSize(shipType, slot string) (int, bool)
}

// Option configures a Module or Ship at construction
type Option func(*options)

type options struct {
	ship    *Ship
	catalog Catalog
	logger  *log.Logger
}

// WithShip attaches the owning ship to a new module. It counts as the
// module's one SetShip call. Ships ignore it.
func WithShip(ship *Ship) Option {
	return func(o *options) {
		o.ship = ship
	}
}

// WithCatalog replaces the embedded reference data
func WithCatalog(c Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.catalog == nil {
		o.catalog = catalog.Default()
	}
	if o.logger == nil {
		o.logger = log.Default().WithPrefix("loadout")
	}
	return o
}
