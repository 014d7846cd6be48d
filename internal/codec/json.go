package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/CommanderRoot/ed-forge/internal/domain"
	"github.com/CommanderRoot/ed-forge/internal/schema"
)

// JSONCodec handles JSON build files
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse reads a build from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.ShipObject, error) {
	var doc json.RawMessage
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return decodeShip(doc)
}

// decodeShip validates a raw ship document and decodes it. Validation runs
// on the raw bytes so that nothing the typed decode would drop or coerce
// slips through.
func decodeShip(doc []byte) (*domain.ShipObject, error) {
	if err := schema.ValidateShip(doc); err != nil {
		return nil, err
	}

	var ship domain.ShipObject
	if err := json.Unmarshal(doc, &ship); err != nil {
		return nil, fmt.Errorf("failed to decode build: %w", err)
	}
	return &ship, nil
}

// Export writes a build as indented JSON
func (c *JSONCodec) Export(ship *domain.ShipObject, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(ship); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
