package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/matzehuels/orthonet/pkg/errors"
)

// Input formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var validate = validator.New()

// FormatFromPath infers the input format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format of %q (want .json, .yaml or .yml)", path)
}

// ReadFigure decodes a figure from r and checks the graph contract.
func ReadFigure(r io.Reader, format string) (*Figure, error) {
	var f Figure
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
		if err := validate.Struct(f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid figure")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r, yaml.Validator(validate), yaml.DisallowUnknownField())
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ReadFigureFile reads a JSON or YAML figure from path.
func ReadFigureFile(path string) (*Figure, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	f, err := ReadFigure(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// WriteLayout encodes l as indented JSON.
func WriteLayout(w io.Writer, l *Layout) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}

// WriteLayoutYAML encodes l as YAML.
func WriteLayoutYAML(w io.Writer, l *Layout) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteLayoutFile writes l to path, as YAML for .yaml/.yml and JSON
// otherwise.
func WriteLayoutFile(path string, l *Layout) error {
	var buf bytes.Buffer
	var err error
	if format, _ := FormatFromPath(path); format == FormatYAML {
		err = WriteLayoutYAML(&buf, l)
	} else {
		err = WriteLayout(&buf, l)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadLayout decodes a JSON layout.
func ReadLayout(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return &l, nil
}
