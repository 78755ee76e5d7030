// Package sniffer identifies image uploads from their leading bytes.
package sniffer

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strings"
)

// HeadSize is the number of leading bytes Detect needs.
const HeadSize = 512

type MediaType string

const (
	TypeJPEG MediaType = "jpeg"
	TypePNG  MediaType = "png"
	TypeGIF  MediaType = "gif"
	TypeWEBP MediaType = "webp"
	TypeAVIF MediaType = "avif"
	TypeSVG  MediaType = "svg"
)

var ErrUnknownType = errors.New("unsupported image type")

var mimeTypes = map[MediaType]string{
	TypeJPEG: "image/jpeg",
	TypePNG:  "image/png",
	TypeGIF:  "image/gif",
	TypeWEBP: "image/webp",
	TypeAVIF: "image/avif",
	TypeSVG:  "image/svg+xml",
}

func (t MediaType) MIME() string {
	return mimeTypes[t]
}

func (t MediaType) Ext() string {
	if t == TypeJPEG {
		return "jpg"
	}
	return string(t)
}

// Detect checks the signatures in order; SVG is the textual fallback.
func Detect(head []byte) (MediaType, error) {
	if len(head) > HeadSize {
		head = head[:HeadSize]
	}
	switch {
	case len(head) == 0:
		return "", ErrUnknownType
	case isJPEG(head):
		return TypeJPEG, nil
	case isPNG(head):
		return TypePNG, nil
	case isGIF(head):
		return TypeGIF, nil
	case isWEBP(head):
		return TypeWEBP, nil
	case isAVIF(head):
		return TypeAVIF, nil
	case isSVG(head):
		return TypeSVG, nil
	}
	return "", ErrUnknownType
}

func isJPEG(head []byte) bool {
	return len(head) > 3 && head[0] == 0xff && head[1] == 0xd8 && head[2] == 0xff
}

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func isPNG(head []byte) bool {
	return bytes.HasPrefix(head, pngMagic)
}

func isGIF(head []byte) bool {
	return bytes.HasPrefix(head, []byte("GIF87a")) || bytes.HasPrefix(head, []byte("GIF89a"))
}

func isWEBP(head []byte) bool {
	return len(head) >= 12 && bytes.Equal(head[:4], []byte("RIFF")) && bytes.Equal(head[8:12], []byte("WEBP"))
}

func isAVIF(head []byte) bool {
	if len(head) < 12 || string(head[4:8]) != "ftyp" {
		return false
	}
	return bytes.Contains(head[8:], []byte("avif")) || bytes.Contains(head[8:], []byte("avis"))
}

func isSVG(head []byte) bool {
	trimmed := strings.ToLower(strings.TrimSpace(string(bytes.TrimPrefix(head, []byte("\xef\xbb\xbf")))))
	if strings.HasPrefix(trimmed, "<svg") {
		return true
	}
	return strings.HasPrefix(trimmed, "<?xml") && strings.Contains(trimmed, "<svg")
}

// DeclaredMIME returns the media type of the part's Content-Type header,
// or "" when it is absent or generic.
func DeclaredMIME(header http.Header) string {
	mediaType, _, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil || mediaType == "application/octet-stream" {
		return ""
	}
	return mediaType
}
