package platformapi

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"model-platform-sdk/internal/api"
)

const (
	uploadPath      = "/api/upload/model"
	uploadFormField = "file"
)

// Upload streams the file as a multipart form and returns the URI the platform
// stored it under.
func (c *Client) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	defer pr.Close()
	writer := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeMultipart(writer, filepath.Base(localPath), f))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, pr)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp api.UploadResponse
	if err := c.send(req, &resp); err != nil {
		return "", err
	}
	if len(resp.FileUploadResponseList) == 0 {
		return "", fmt.Errorf("upload %s: platform returned no files", filepath.Base(localPath))
	}

	return fileURI(resp.FileUploadResponseList[0].Path), nil
}

func writeMultipart(writer *multipart.Writer, fileName string, src io.Reader) error {
	fw, err := writer.CreateFormFile(uploadFormField, fileName)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, src); err != nil {
		return fmt.Errorf("copy artifact: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}
	return nil
}

func fileURI(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return "file://" + path
}
