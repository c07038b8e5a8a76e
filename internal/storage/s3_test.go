package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPutter struct {
	mock.Mock
}

func (m *mockPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestArchiveMirror_Put(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads under archive prefix", func(t *testing.T) {
		putter := new(mockPutter)
		mirror := NewArchiveMirror(putter, "course-bucket", "f26")

		putter.On("PutObject", ctx, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			body, _ := io.ReadAll(in.Body)
			return aws.ToString(in.Bucket) == "course-bucket" &&
				aws.ToString(in.Key) == "f26/archive/hw01/jdoe-hw01.ipynb" &&
				string(body) == "{}"
		})).Return(&s3.PutObjectOutput{}, nil)

		require.NoError(t, mirror.Put(ctx, "hw01", "jdoe-hw01.ipynb", []byte("{}")))
		putter.AssertExpectations(t)
	})

	t.Run("upload error", func(t *testing.T) {
		putter := new(mockPutter)
		mirror := NewArchiveMirror(putter, "b", "")
		putter.On("PutObject", ctx, mock.Anything).Return(nil, errors.New("denied"))

		err := mirror.Put(ctx, "hw01", "x.ipynb", nil)
		assert.ErrorContains(t, err, "archive/hw01/x.ipynb")
	})
}
