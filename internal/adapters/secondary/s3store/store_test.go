package s3store

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	s3manageriface.UploaderAPI
	bucket string
	key    string
	body   string
	err    error
}

func (f *fakeUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.bucket = aws.StringValue(in.Bucket)
	f.key = aws.StringValue(in.Key)
	f.body = string(data)
	return &s3manager.UploadOutput{Location: "https://" + f.bucket + ".s3.amazonaws.com/" + f.key}, nil
}

func writeFile(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "mnist.h5")
	require.NoError(t, os.WriteFile(p, []byte("weights"), 0o644))
	return p
}

func TestStore_Upload(t *testing.T) {
	up := &fakeUploader{}
	s := NewStoreWithUploader(up, "models-bucket", "/team/models/")

	uri, err := s.Upload(context.Background(), writeFile(t))
	require.NoError(t, err)

	assert.Equal(t, "models-bucket", up.bucket)
	assert.Equal(t, "weights", up.body)
	assert.True(t, strings.HasPrefix(up.key, "team/models/"))
	assert.True(t, strings.HasSuffix(up.key, "/mnist.h5"))
	assert.Equal(t, "s3://models-bucket/"+up.key, uri)
}

func TestStore_UploadErrors(t *testing.T) {
	s := NewStoreWithUploader(&fakeUploader{err: errors.New("access denied")}, "b", "")

	_, err := s.Upload(context.Background(), writeFile(t))
	assert.ErrorContains(t, err, "access denied")

	_, err = s.Upload(context.Background(), "/no/such/file.h5")
	assert.ErrorContains(t, err, "open artifact")
}

func TestObjectKey(t *testing.T) {
	s := &store{prefix: ""}
	assert.Equal(t, "abc/m.h5", s.objectKey("abc", "m.h5"))

	s.prefix = "models"
	assert.Equal(t, "models/abc/m.h5", s.objectKey("abc", "m.h5"))
	assert.Equal(t, "s3://b/models/abc/m.h5", objectURI("b", "models/abc/m.h5"))
}
