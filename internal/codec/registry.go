package codec

import (
	"fmt"
	"sort"
)

// Registry looks codecs up by format name
type Registry struct {
	importers map[string]Importer
	exporters map[string]Exporter
}

// NewRegistry creates a registry holding every built-in codec
func NewRegistry() *Registry {
	r := &Registry{
		importers: make(map[string]Importer),
		exporters: make(map[string]Exporter),
	}

	jsonCodec := NewJSONCodec()
	yamlCodec := NewYAMLCodec()
	compactCodec := NewCompactCodec()
	journalCodec := NewJournalCodec()

	r.RegisterImporter(jsonCodec)
	r.RegisterImporter(yamlCodec)
	r.RegisterImporter(compactCodec)
	r.RegisterImporter(journalCodec)

	r.RegisterExporter(jsonCodec)
	r.RegisterExporter(yamlCodec)
	r.RegisterExporter(compactCodec)
	r.RegisterExporter(journalCodec)

	return r
}

// RegisterImporter adds or replaces an importer
func (r *Registry) RegisterImporter(imp Importer) {
	r.importers[imp.Format()] = imp
}

// RegisterExporter adds or replaces an exporter
func (r *Registry) RegisterExporter(exp Exporter) {
	r.exporters[exp.Format()] = exp
}

// Importer returns the importer for a format
func (r *Registry) Importer(format string) (Importer, error) {
	imp, ok := r.importers[format]
	if !ok {
		return nil, fmt.Errorf("unknown import format %q (supported: %v)", format, keys(r.importers))
	}
	return imp, nil
}

// Exporter returns the exporter for a format
func (r *Registry) Exporter(format string) (Exporter, error) {
	exp, ok := r.exporters[format]
	if !ok {
		return nil, fmt.Errorf("unknown export format %q (supported: %v)", format, keys(r.exporters))
	}
	return exp, nil
}

// Formats lists every format that can be both read and written
func (r *Registry) Formats() []string {
	var out []string
	for name := range r.importers {
		if _, ok := r.exporters[name]; ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
