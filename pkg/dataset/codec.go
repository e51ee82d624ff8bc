package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meteo-transit/meteo/pkg/errors"
	"github.com/meteo-transit/meteo/pkg/transit"
)

// Format is a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath returns the format implied by a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Read decodes a dataset in the given format.
func Read(r io.Reader, format Format) (*transit.Dataset, error) {
	switch format {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset format %q", format)
	}
}

// ReadJSON decodes a JSON dataset. ReadJSON does not close r.
// Decode failures are DATASET_UNAVAILABLE wrapping MALFORMED_DATASET.
func ReadJSON(r io.Reader) (*transit.Dataset, error) {
	var ds transit.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatasetUnavailable, malformed(err), "decode json")
	}
	return &ds, nil
}

// ReadYAML decodes a YAML dataset. ReadYAML does not close r.
func ReadYAML(r io.Reader) (*transit.Dataset, error) {
	var ds transit.Dataset
	if err := yaml.NewDecoder(r).Decode(&ds); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatasetUnavailable, malformed(err), "decode yaml")
	}
	return &ds, nil
}

func malformed(err error) error {
	return errors.Wrap(errors.ErrCodeMalformedDataset, err, "unparsable dataset")
}

// Write encodes ds in the given format.
func Write(ds *transit.Dataset, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return WriteJSON(ds, w)
	case FormatYAML:
		return WriteYAML(ds, w)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset format %q", format)
	}
}

// WriteJSON encodes ds as indented JSON.
func WriteJSON(ds *transit.Dataset, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes ds as YAML.
func WriteYAML(ds *transit.Dataset, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// Import reads the dataset file at path.
func Import(path string) (*transit.Dataset, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDatasetUnavailable, err, "open %s", path)
	}
	defer f.Close()

	ds, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Export writes ds to path in the format implied by its extension.
func Export(ds *transit.Dataset, path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(ds, f, format)
}
