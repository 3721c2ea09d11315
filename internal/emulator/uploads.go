package emulator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/core/domain"
	ports "model-platform-sdk/internal/core/ports/output"
)

const (
	uploadDir      = "uploads"
	uploadFileType = "model"
)

// SaveUpload writes an uploaded model file under the storage dir and records it.
// Stored names are prefixed with a UUID so repeated uploads never collide.
func (r *Registry) SaveUpload(ctx context.Context, fileName string, src io.Reader) (*api.UploadedFile, error) {
	base := filepath.Base(fileName)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return nil, domain.ErrInvalidUpload
	}

	dir := filepath.Join(r.opts.StorageDir, uploadDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	id := uuid.New().String()
	path, err := filepath.Abs(filepath.Join(dir, id+"_"+base))
	if err != nil {
		return nil, fmt.Errorf("resolve upload path: %w", err)
	}

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return nil, fmt.Errorf("write upload file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("close upload file: %w", err)
	}

	f := &api.UploadedFile{
		FileName: base,
		Path:     path,
		FileType: uploadFileType,
	}
	if err := r.store.Insert(ctx, ports.KindUpload, id, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *Registry) ListUploads(ctx context.Context) ([]api.UploadedFile, error) {
	out := []api.UploadedFile{}
	err := r.store.List(ctx, ports.KindUpload, func(raw []byte) error {
		var f api.UploadedFile
		if err := decode(raw, &f); err != nil {
			return err
		}
		out = append(out, f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decode(raw []byte, v any) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}
