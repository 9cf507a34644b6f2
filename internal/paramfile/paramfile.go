// Package paramfile loads fire-model parameters from YAML, layering a user
// file over the embedded defaults.
package paramfile

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/spitfire-etl/internal/domain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// File is the on-disk parameter layout.
type File struct {
	Fire      domain.Coefficients     `yaml:"fire"`
	FuelTypes []domain.FuelTypeRecord `yaml:"fuel_types"`
}

// Set is a validated parameter file ready for the model.
type Set struct {
	Params    *domain.FireParameters
	FuelTypes []domain.FuelType
	file      File
}

// override mirrors File but keeps raw nodes so partial entries merge onto
// the defaults instead of replacing them. Fire is a value: yaml.v3 leaves a
// *yaml.Node field empty instead of capturing the mapping.
type override struct {
	Fire      yaml.Node   `yaml:"fire"`
	FuelTypes []yaml.Node `yaml:"fuel_types"`
}

// Default returns the embedded parameter set.
func Default() (*Set, error) {
	return Load("")
}

// Load reads the embedded defaults and, when path is non-empty, overlays the
// file at path. Fuel-type entries are matched to defaults by category; only
// the fields present in the file change.
func Load(path string) (*Set, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameter file: %w", err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Parse validates parameters from YAML bytes layered over the defaults.
func Parse(data []byte) (*Set, error) {
	var f File
	if err := yaml.Unmarshal(defaultsYAML, &f); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := apply(&f, data); err != nil {
		return nil, fmt.Errorf("parsing parameters: %w", err)
	}
	return build(f)
}

func apply(f *File, data []byte) error {
	var o override
	if err := yaml.Unmarshal(data, &o); err != nil {
		return err
	}
	if o.Fire.Kind != 0 && o.Fire.ShortTag() != "!!null" {
		if err := o.Fire.Decode(&f.Fire); err != nil {
			return fmt.Errorf("fire: %w", err)
		}
	}
	for i := range o.FuelTypes {
		node := &o.FuelTypes[i]
		var key struct {
			Category *domain.FuelCategory `yaml:"category"`
		}
		if err := node.Decode(&key); err != nil {
			return fmt.Errorf("fuel_types[%d]: %w", i, err)
		}
		if key.Category == nil {
			return fmt.Errorf("fuel_types[%d]: category is required", i)
		}
		idx := indexOf(f.FuelTypes, *key.Category)
		if idx < 0 {
			f.FuelTypes = append(f.FuelTypes, domain.FuelTypeRecord{})
			idx = len(f.FuelTypes) - 1
		}
		if err := node.Decode(&f.FuelTypes[idx]); err != nil {
			return fmt.Errorf("fuel_types[%d]: %w", i, err)
		}
	}
	return nil
}

func indexOf(recs []domain.FuelTypeRecord, cat domain.FuelCategory) int {
	for i, r := range recs {
		if r.Category == cat {
			return i
		}
	}
	return -1
}

// build validates everything and joins all failures so one pass fixes them.
func build(f File) (*Set, error) {
	var errs []error
	params, err := domain.NewFireParameters(f.Fire)
	if err != nil {
		errs = append(errs, err)
	}
	types := make([]domain.FuelType, 0, len(f.FuelTypes))
	for _, rec := range f.FuelTypes {
		ft, err := domain.NewFuelType(rec)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		types = append(types, ft)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &Set{Params: params, FuelTypes: types, file: f}, nil
}

// File returns the merged parameter layout.
func (s *Set) File() File {
	f := s.file
	f.FuelTypes = append([]domain.FuelTypeRecord(nil), s.file.FuelTypes...)
	return f
}

// Encode writes the merged parameters as YAML.
func (s *Set) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.File()); err != nil {
		return fmt.Errorf("marshaling parameters: %w", err)
	}
	return enc.Close()
}

// WriteYAML writes the merged parameters to path.
func (s *Set) WriteYAML(path string) error {
	var buf bytes.Buffer
	if err := s.Encode(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing parameter file: %w", err)
	}
	return nil
}
