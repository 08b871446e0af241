package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/types"
	"github.com/spf13/afero"
)

// FileSource reads <dir>/<stage>.json ex ./catalog/code.json
type FileSource struct {
	fs  afero.Fs
	dir string
}

func NewFileSource(fs afero.Fs, dir string) *FileSource {
	return &FileSource{fs: fs, dir: dir}
}

// Path returns the file read for stage
func (s *FileSource) Path(stage types.Stage) string {
	return filepath.Join(s.dir, strings.ToLower(stage.String())+".json")
}

func (s *FileSource) Fetch(_ context.Context, stage types.Stage) ([]byte, error) {
	path := s.Path(stage)
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, emptyCatalogError(stage, path)
		}
		return nil, ierr.WithError(err).
			WithHintf("Failed to read catalog file %s", path).
			Mark(ierr.ErrFetch)
	}
	if len(data) == 0 {
		return nil, emptyCatalogError(stage, path)
	}
	return data, nil
}
