package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/matst80/magic-search/pkg/common/jsoncompat"
	"github.com/matst80/magic-search/pkg/types"
)

// FileStorage keeps the facet document in a single YAML or JSON file.
type FileStorage struct {
	Path   string
	Format Format
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{
		Path:   path,
		Format: FormatFromName(path),
	}
}

// ParseDocument decodes a facet document. JSON input may contain comments
// and trailing commas.
func ParseDocument(data []byte, format Format) (*types.FacetDocument, error) {
	doc := &types.FacetDocument{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, doc)
	default:
		err = jsoncompat.Unmarshal(jsonc.ToJSON(data), doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode facet document: %w", err)
	}
	if err = doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func EncodeDocument(doc *types.FacetDocument, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(doc)
	default:
		return jsoncompat.MarshalIndent(doc, "", "  ")
	}
}

func (f *FileStorage) LoadFacets(ctx context.Context) (*types.FacetDocument, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoFacets
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path, err)
	}
	return ParseDocument(data, f.Format)
}

// SaveFacets writes the document to a temporary file and renames it over the
// target.
func (f *FileStorage) SaveFacets(ctx context.Context, doc *types.FacetDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	data, err := EncodeDocument(doc, f.Format)
	if err != nil {
		return fmt.Errorf("encode facet document: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	tmp := tmpFileName(f.Path)
	if err = os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}
