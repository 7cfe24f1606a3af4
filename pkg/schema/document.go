package schema

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Document wraps the raw schema payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// JSON returns the payload as JSON, converting YAML documents on the way.
func (d Document) JSON() ([]byte, error) {
	if isYAMLPath(d.Location()) {
		return yamlToJSON(d.raw)
	}
	return ToJSON(d.raw)
}

// Schema decodes the document strictly: it must pass the authoring validator.
func (d Document) Schema() (*model.Schema, error) {
	data, err := d.JSON()
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", d.Location(), err)
	}
	parsed, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", d.Location(), err)
	}
	return parsed, nil
}

// Load reads a document from disk (file sources) or from fsys (fs sources).
func Load(ctx context.Context, src Source, fsys fs.FS) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if fsys == nil {
			return Document{}, errors.New("schema: fs source requires a filesystem")
		}
		data, err = fs.ReadFile(fsys, src.Location())
	default:
		return Document{}, fmt.Errorf("schema: cannot load %s source %q", src.Kind(), src.Location())
	}
	if err != nil {
		return Document{}, fmt.Errorf("schema: read %s: %w", src.Location(), err)
	}
	return NewDocument(src, data)
}
