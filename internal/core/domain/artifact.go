package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// TempArtifactName is the file an in-memory model is serialized to before upload.
const TempArtifactName = "temp_model.h5"

// Saver is an in-memory trained model that can serialize itself to a file.
type Saver interface {
	Save(path string) error
}

// Artifact is the model input of a registration: a local file, or a Saver that
// produces one.
type Artifact struct {
	Path  string
	Saver Saver
}

func ArtifactFromPath(path string) Artifact {
	return Artifact{Path: path}
}

func ArtifactFromSaver(s Saver) Artifact {
	return Artifact{Saver: s}
}

// Resolve returns the local file to upload. A path naming an existing regular file
// is returned as-is. Otherwise the Saver writes tempDir/TempArtifactName, replacing
// any stale file there, and serialized is true.
func (a Artifact) Resolve(tempDir string) (path string, serialized bool, err error) {
	if a.Path != "" {
		if info, statErr := os.Stat(a.Path); statErr == nil && info.Mode().IsRegular() {
			return a.Path, false, nil
		}
	}

	if a.Saver == nil {
		if a.Path == "" {
			return "", false, ErrInvalidArtifact
		}
		return "", false, fmt.Errorf("%w: %q", ErrInvalidArtifact, a.Path)
	}

	target := filepath.Join(tempDir, TempArtifactName)
	if err := os.Remove(target); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", false, fmt.Errorf("remove stale temp artifact: %w", err)
	}
	if err := a.Saver.Save(target); err != nil {
		return "", false, fmt.Errorf("save model artifact: %w", err)
	}
	return target, true, nil
}
