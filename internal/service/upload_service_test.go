package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumniconnect/internal/apperrors"
	"alumniconnect/internal/models"
)

type fakePutter struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func (p *fakePutter) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if p.objects == nil {
		p.objects = make(map[string][]byte)
		p.types = make(map[string]string)
	}
	p.objects[key] = data
	p.types[key] = contentType
	return "https://cdn.example.com/avatars/" + key, nil
}

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestUploadAvatarStoresAndLinks(t *testing.T) {
	f := newFixture()
	user := f.user(t, "pictured", "MIT", models.UserRoleAlumni)
	putter := &fakePutter{}
	svc := NewUploadService(f.stores.Users, putter, 1024, zerolog.Nop())

	updated, err := svc.UploadAvatar(context.Background(), AvatarUploadInput{UserID: user.ID, File: bytes.NewReader(pngHeader), DeclaredType: "image/png"})
	require.NoError(t, err)
	require.NotNil(t, updated.Avatar)
	assert.True(t, strings.HasPrefix(*updated.Avatar, "https://cdn.example.com/avatars/"+user.ID+"/"))
	assert.True(t, strings.HasSuffix(*updated.Avatar, ".png"))
	require.Len(t, putter.objects, 1)
	for key := range putter.objects {
		assert.Equal(t, "image/png", putter.types[key])
	}
}

func TestUploadAvatarRejects(t *testing.T) {
	f := newFixture()
	user := f.user(t, "rejected", "MIT", models.UserRoleAlumni)
	ctx := context.Background()

	unconfigured := NewUploadService(f.stores.Users, nil, 1024, zerolog.Nop())
	_, err := unconfigured.UploadAvatar(ctx, AvatarUploadInput{UserID: user.ID, File: bytes.NewReader(pngHeader)})
	require.Error(t, err)
	assert.Equal(t, "Avatar uploads are not configured", err.Error())

	svc := NewUploadService(f.stores.Users, &fakePutter{}, 8, zerolog.Nop())
	_, err = svc.UploadAvatar(ctx, AvatarUploadInput{UserID: user.ID, File: bytes.NewReader(pngHeader)})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	svc = NewUploadService(f.stores.Users, &fakePutter{}, 1024, zerolog.Nop())
	_, err = svc.UploadAvatar(ctx, AvatarUploadInput{UserID: user.ID, File: strings.NewReader("plain text")})
	require.Error(t, err)
	assert.Equal(t, "Unsupported image type", err.Error())

	_, err = svc.UploadAvatar(ctx, AvatarUploadInput{UserID: user.ID, File: bytes.NewReader(pngHeader), DeclaredType: "image/jpeg"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.UploadAvatar(ctx, AvatarUploadInput{UserID: "missing", File: bytes.NewReader(pngHeader)})
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	failing := NewUploadService(f.stores.Users, &fakePutter{err: errors.New("bucket offline")}, 1024, zerolog.Nop())
	_, err = failing.UploadAvatar(ctx, AvatarUploadInput{UserID: user.ID, File: bytes.NewReader(pngHeader)})
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}

func TestUploadAvatarSanitizesSVG(t *testing.T) {
	f := newFixture()
	user := f.user(t, "vector", "MIT", models.UserRoleAlumni)
	putter := &fakePutter{}
	svc := NewUploadService(f.stores.Users, putter, 4096, zerolog.Nop())

	svg := `<svg xmlns="http://www.w3.org/2000/svg" onload="alert(1)"><script>alert(2)</script><rect/></svg>`
	_, err := svc.UploadAvatar(context.Background(), AvatarUploadInput{UserID: user.ID, File: strings.NewReader(svg)})
	require.NoError(t, err)

	require.Len(t, putter.objects, 1)
	for _, data := range putter.objects {
		assert.NotContains(t, string(data), "<script")
		assert.NotContains(t, string(data), "onload")
		assert.Contains(t, string(data), "<rect/>")
	}
}
