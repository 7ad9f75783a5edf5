package archive

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-backend/internal/config"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = body
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestStoreOrder(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	a := New(client, "docs", "orders")

	err := a.StoreOrder(context.Background(), 42,
		Document{Filename: "order.pdf", ContentType: "application/pdf", Content: []byte("%PDF")},
		Document{Filename: "order.xlsx", Content: []byte("PK")},
	)
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF"), client.objects["docs/orders/42/order.pdf"])
	assert.Equal(t, "application/pdf", client.types["docs/orders/42/order.pdf"])
	assert.Equal(t, []byte("PK"), client.objects["docs/orders/42/order.xlsx"])
}

func TestStoreOrderError(t *testing.T) {
	a := New(&fakeS3{err: errors.New("denied")}, "docs", "orders")
	err := a.StoreOrder(context.Background(), 1, Document{Filename: "order.pdf"})
	assert.ErrorContains(t, err, "orders/1/order.pdf")
}

func TestNewS3Disabled(t *testing.T) {
	a, err := NewS3(context.Background(), config.ArchiveConfig{})
	require.NoError(t, err)
	assert.Nil(t, a)

	_, err = NewS3(context.Background(), config.ArchiveConfig{Enabled: true})
	assert.Error(t, err)
}
