package s3

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"rnacolumns/internal/cookie/core"
	"rnacolumns/internal/cookie/cookietest"
)

func TestS3StoreContract(t *testing.T) {
	s := NewMockForTests()
	require.Equal(t, core.DriverS3, s.Driver())
	require.Equal(t, "mock-bucket", s.Bucket())
	cookietest.Run(t, s)
}

func TestS3StoreObjectPerJar(t *testing.T) {
	s, rt := newMock()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "ws/web.rna.columns", "Columns.Default", "A,|0"))
	require.NoError(t, s.Put(ctx, "ws/web.rna.columns", "Columns.Other", "B,|1"))
	require.Len(t, rt.objects, 1)
	require.Equal(t, "Columns.Default\tA,|0\nColumns.Other\tB,|1\n", string(rt.objects["cookies/ws/web.rna.columns.cookie"]))

	for _, k := range []string{"Columns.Default", "Columns.Other"} {
		_, err := s.Delete(ctx, "ws/web.rna.columns", k)
		require.NoError(t, err)
	}
	require.Empty(t, rt.objects, "empty jar object must be removed")
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("RNACOLUMNS_COOKIE_S3_BUCKET", "")
	_, err := ConfigFromEnv()
	require.Error(t, err)

	t.Setenv("RNACOLUMNS_COOKIE_S3_BUCKET", "b")
	t.Setenv("RNACOLUMNS_COOKIE_S3_REGION", "eu-west-1")
	t.Setenv("RNACOLUMNS_COOKIE_S3_PREFIX", "p/")
	t.Setenv("RNACOLUMNS_COOKIE_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("RNACOLUMNS_COOKIE_S3_PATH_STYLE", "TRUE")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	require.Equal(t, Config{Bucket: "b", Region: "eu-west-1", Prefix: "p/", Endpoint: "http://localhost:9000", PathStyle: true}, cfg)
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
}

func TestNewWithEndpoint(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")
	s, err := New(context.Background(), Config{Bucket: "b", Endpoint: "http://localhost:9000", PathStyle: true})
	require.NoError(t, err)
	require.Equal(t, "b", s.Bucket())
	require.True(t, s.client.Options().UsePathStyle)
}

func TestDecodeChunked(t *testing.T) {
	body, ok := decodeChunked([]byte("5\r\nhello\r\n0\r\n\r\n"))
	require.True(t, ok)
	require.Equal(t, "hello", string(body))
	_, ok = decodeChunked([]byte("plain body"))
	require.False(t, ok)
}
