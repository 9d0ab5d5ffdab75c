package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    string
	deleted *s3.DeleteObjectInput
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	if in.Body != nil {
		b, _ := io.ReadAll(in.Body)
		f.body = string(b)
	}
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = in
	return &s3.DeleteObjectOutput{}, f.err
}

func TestPublicBaseURL(t *testing.T) {
	if got := PublicBaseURL("fotos", "sa-east-1", ""); got != "https://fotos.s3.sa-east-1.amazonaws.com" {
		t.Fatalf("unexpected aws url %q", got)
	}
	if got := PublicBaseURL("fotos", "us-east-1", "http://localstack:4566/"); got != "http://localstack:4566/fotos" {
		t.Fatalf("unexpected local url %q", got)
	}
}

func TestS3Store_Put(t *testing.T) {
	t.Run("success returns public url", func(t *testing.T) {
		client := &fakeS3{}
		store := NewS3Store(client, Options{Bucket: "fotos", Region: "sa-east-1"})

		got, err := store.Put(context.Background(), "os/1/abc-a.png", strings.NewReader("png"), "image/png")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "https://fotos.s3.sa-east-1.amazonaws.com/os/1/abc-a.png" {
			t.Fatalf("unexpected url %q", got)
		}
		if aws.ToString(client.put.Bucket) != "fotos" || aws.ToString(client.put.ContentType) != "image/png" || client.body != "png" {
			t.Fatalf("unexpected put input: %+v", client.put)
		}
	})

	t.Run("client error is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		store := NewS3Store(&fakeS3{err: boom}, Options{Bucket: "fotos", Region: "sa-east-1"})
		if _, err := store.Put(context.Background(), "k", strings.NewReader(""), "image/png"); !errors.Is(err, boom) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
	})
}

func TestS3Store_Delete(t *testing.T) {
	client := &fakeS3{}
	store := NewS3Store(client, Options{Bucket: "fotos", Region: "sa-east-1"})
	if err := store.Delete(context.Background(), "os/1/x.png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if aws.ToString(client.deleted.Key) != "os/1/x.png" {
		t.Fatalf("unexpected key %q", aws.ToString(client.deleted.Key))
	}
}

func TestS3Store_KeyFromURL(t *testing.T) {
	store := NewS3Store(&fakeS3{}, Options{Bucket: "fotos", Region: "sa-east-1"})

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "own prefix", url: "https://fotos.s3.sa-east-1.amazonaws.com/os/1/a.png", want: "os/1/a.png"},
		{name: "path style", url: "http://localhost:4566/fotos/os/2/b.jpg", want: "os/2/b.jpg"},
		{name: "other host", url: "https://cdn.example.com/os/3/c.png", want: "os/3/c.png"},
		{name: "empty key", url: "https://cdn.example.com/", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.KeyFromURL(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got key %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewPhotoKey(t *testing.T) {
	key := NewPhotoKey(7, "../minha foto.png")
	if !strings.HasPrefix(key, "os/7/") || !strings.HasSuffix(key, "-minha_foto.png") {
		t.Fatalf("unexpected key %q", key)
	}
	if NewPhotoKey(7, "a.png") == NewPhotoKey(7, "a.png") {
		t.Fatalf("expected unique keys")
	}
}
