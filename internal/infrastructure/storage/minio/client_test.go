package minio

import (
	"context"
	stderrors "errors"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

type mockMinIOAPI struct {
	mock.Mock
}

func (m *mockMinIOAPI) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).([]minio.BucketInfo), args.Error(1)
}

func (m *mockMinIOAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *mockMinIOAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucketName, opts).Error(0)
}

func (m *mockMinIOAPI) SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error {
	return m.Called(ctx, bucketName, config).Error(0)
}

func (m *mockMinIOAPI) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, _ := io.ReadAll(reader)
	args := m.Called(ctx, bucketName, objectName, data, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *mockMinIOAPI) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *mockMinIOAPI) PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error) {
	args := m.Called(ctx, bucketName, objectName, expiry, reqParams)
	u, _ := args.Get(0).(*url.URL)
	return u, args.Error(1)
}

func TestApplyDefaults(t *testing.T) {
	cfg := &MinIOConfig{}
	applyDefaults(cfg)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, time.Hour, cfg.PresignExpiry)
	assert.Equal(t, "agrimat-exports", cfg.Bucket)
}

func TestNewWithAPI_CreatesMissingBucket(t *testing.T) {
	api := new(mockMinIOAPI)
	api.On("BucketExists", mock.Anything, "agrimat-exports").Return(false, nil)
	api.On("MakeBucket", mock.Anything, "agrimat-exports", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)
	api.On("SetBucketLifecycle", mock.Anything, "agrimat-exports", mock.AnythingOfType("*lifecycle.Configuration")).Return(nil)

	c, err := newWithAPI(context.Background(), api, &MinIOConfig{RetentionDays: 30}, nil)
	require.NoError(t, err)
	assert.Equal(t, "agrimat-exports", c.Bucket())
	assert.Equal(t, "minio", c.Name())
	api.AssertExpectations(t)
}

func TestNewWithAPI_ExistingBucketSkipsLifecycleWithoutRetention(t *testing.T) {
	api := new(mockMinIOAPI)
	api.On("BucketExists", mock.Anything, "b").Return(true, nil)

	_, err := newWithAPI(context.Background(), api, &MinIOConfig{Bucket: "b"}, nil)
	require.NoError(t, err)
	api.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	api.AssertNotCalled(t, "SetBucketLifecycle", mock.Anything, mock.Anything, mock.Anything)
}

func TestNewWithAPI_BucketCheckFails(t *testing.T) {
	api := new(mockMinIOAPI)
	api.On("BucketExists", mock.Anything, "b").Return(false, stderrors.New("dial tcp: refused"))

	_, err := newWithAPI(context.Background(), api, &MinIOConfig{Bucket: "b"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestClient_Check(t *testing.T) {
	api := new(mockMinIOAPI)
	c := &MinIOClient{client: api, config: &MinIOConfig{Bucket: "b"}}

	api.On("BucketExists", mock.Anything, "b").Return(false, nil).Once()
	assert.Error(t, c.Check(context.Background()))

	api.On("BucketExists", mock.Anything, "b").Return(true, nil).Once()
	assert.NoError(t, c.Check(context.Background()))
}
