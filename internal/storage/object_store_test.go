package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"alumniconnect/internal/config"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{
			name: "public url wins",
			cfg:  config.StorageConfig{PublicURL: "https://cdn.example.com/", Endpoint: "minio:9000", BucketAvatars: "avatars"},
			want: "https://cdn.example.com/avatars/u1/a.png",
		},
		{
			name: "bare endpoint without ssl",
			cfg:  config.StorageConfig{Endpoint: "minio:9000", BucketAvatars: "avatars"},
			want: "http://minio:9000/avatars/u1/a.png",
		},
		{
			name: "bare endpoint with ssl",
			cfg:  config.StorageConfig{Endpoint: "s3.example.com", UseSSL: true, BucketAvatars: "avatars"},
			want: "https://s3.example.com/avatars/u1/a.png",
		},
		{
			name: "endpoint with scheme",
			cfg:  config.StorageConfig{Endpoint: "http://localhost:9000", BucketAvatars: "avatars"},
			want: "http://localhost:9000/avatars/u1/a.png",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicURL(tt.cfg, "u1/a.png"))
		})
	}
}
