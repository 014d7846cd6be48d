package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/CommanderRoot/ed-forge/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML build files
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlShip represents the YAML structure of a build
type yamlShip struct {
	Ship      string         `yaml:"Ship"`
	ShipName  string         `yaml:"ShipName,omitempty"`
	ShipIdent string         `yaml:"ShipIdent,omitempty"`
	Modules   []yamlModule   `yaml:"Modules"`
	Extra     map[string]any `yaml:",inline"`
}

type yamlModule struct {
	Slot        string         `yaml:"Slot"`
	On          bool           `yaml:"On"`
	Item        string         `yaml:"Item"`
	Priority    int            `yaml:"Priority"`
	Engineering map[string]any `yaml:"Engineering,omitempty"`
	Extra       map[string]any `yaml:",inline"`
}

// Parse reads a build from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.ShipObject, error) {
	var ys yamlShip
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&ys); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	extra, err := normalizeExtra(ys.Extra)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ship := &domain.ShipObject{
		Ship:      ys.Ship,
		ShipName:  ys.ShipName,
		ShipIdent: ys.ShipIdent,
		Modules:   make([]domain.ModuleObject, 0, len(ys.Modules)),
		Extra:     extra,
	}

	// Convert modules
	for i, ym := range ys.Modules {
		extra, err := normalizeExtra(ym.Extra)
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML: module %d: %w", i, err)
		}
		bp, err := blueprintFromYAML(ym.Engineering)
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML: module %d: %w", i, err)
		}
		ship.Modules = append(ship.Modules, domain.ModuleObject{
			Slot:        ym.Slot,
			On:          ym.On,
			Item:        ym.Item,
			Priority:    ym.Priority,
			Engineering: bp,
			Extra:       extra,
		})
	}

	return ship, nil
}

// Export writes a build as YAML
func (c *YAMLCodec) Export(ship *domain.ShipObject, w io.Writer) error {
	ys := yamlShip{
		Ship:      ship.Ship,
		ShipName:  ship.ShipName,
		ShipIdent: ship.ShipIdent,
		Modules:   make([]yamlModule, 0, len(ship.Modules)),
		Extra:     yamlMap(ship.Extra),
	}

	for i, m := range ship.Modules {
		bp, err := blueprintToYAML(m.Engineering)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: module %d: %w", i, err)
		}
		ys.Modules = append(ys.Modules, yamlModule{
			Slot:        m.Slot,
			On:          m.On,
			Item:        m.Item,
			Priority:    m.Priority,
			Engineering: yamlMap(bp),
			Extra:       yamlMap(m.Extra),
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&ys); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// normalizeExtra gives unknown YAML members the shapes a JSON decode
// would produce, so a build reads the same whichever format it came from.
func normalizeExtra(extra map[string]any) (map[string]any, error) {
	if len(extra) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return nil, err
	}
	v, err := domain.DecodeValue(data)
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}

// yamlMap copies a JSON-shaped map for the YAML encoder, which would
// otherwise quote json.Number values as strings
func yamlMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = yamlValue(v)
	}
	return out
}

// yamlValue turns json.Number into a plain scalar node that keeps the
// number's exact text
func yamlValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(val.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: val.String()}
	case map[string]any:
		return yamlMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = yamlValue(item)
		}
		return out
	default:
		return v
	}
}

// blueprintFromYAML decodes engineering through its JSON form so that
// optional and unknown members are handled the same way for every format
func blueprintFromYAML(doc map[string]any) (*domain.Blueprint, error) {
	if doc == nil {
		return nil, nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var bp domain.Blueprint
	if err := json.Unmarshal(data, &bp); err != nil {
		return nil, err
	}
	return &bp, nil
}

func blueprintToYAML(bp *domain.Blueprint) (map[string]any, error) {
	if bp == nil {
		return nil, nil
	}
	data, err := json.Marshal(bp)
	if err != nil {
		return nil, err
	}
	v, err := domain.DecodeValue(data)
	if err != nil {
		return nil, err
	}
	return v.(map[string]any), nil
}
