// Package codec converts the arena collection to and from its structured
// text forms. JSON goes through sonnet, YAML through yaml.v3.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okian/arena/internal/domain/model"
	"github.com/sugawarayuuta/sonnet"
	"gopkg.in/yaml.v3"
)

// Format names a text form.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. Empty input means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Encode renders the collection in the given format.
func Encode(f Format, c model.Collection) ([]byte, error) {
	return encode(f, FromCollection(c))
}

// Decode parses a collection. It does not prune or replay.
func Decode(f Format, data []byte) (model.Collection, error) {
	var doc Document
	if err := decode(f, data, &doc); err != nil {
		return model.Collection{}, err
	}
	return doc.Collection()
}

// EncodeArena renders one arena as compact JSON.
func EncodeArena(a model.Arena) ([]byte, error) {
	b, err := sonnet.Marshal(FromArena(a))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return b, nil
}

// DecodeArena parses one arena from JSON.
func DecodeArena(data []byte) (model.Arena, error) {
	var ad ArenaDocument
	if err := sonnet.Unmarshal(data, &ad); err != nil {
		return model.Arena{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return ad.Arena()
}

func encode(f Format, v any) ([]byte, error) {
	switch f {
	case FormatJSON:
		raw, err := sonnet.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	case FormatYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrEncode, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

func decode(f Format, data []byte, v any) error {
	var err error
	switch f {
	case FormatJSON:
		err = sonnet.Unmarshal(data, v)
	case FormatYAML:
		err = yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
