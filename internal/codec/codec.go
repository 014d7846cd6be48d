package codec

import (
	"io"

	"github.com/CommanderRoot/ed-forge/internal/domain"
)

// Importer interface for reading a build from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.ShipObject, error)
	Format() string
}

// Exporter interface for writing a build to various formats
type Exporter interface {
	Export(ship *domain.ShipObject, w io.Writer) error
	Format() string
}
