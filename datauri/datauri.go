// Package datauri turns uploaded images into self-contained RFC 2397 strings
// that can be stored in a record blob and used directly as an image source.
package datauri

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // decoder registration
	_ "image/jpeg" // decoder registration
	_ "image/png"  // decoder registration
	"io"
	"mime"
	"net/http"
	"os"
	"strings"

	"github.com/vincent-petithory/dataurl"
	_ "golang.org/x/image/bmp"  // decoder registration
	_ "golang.org/x/image/webp" // decoder registration
)

const Prefix = "data:"

var ErrNotDataURI = errors.New("datauri: not a data URI")

// Encode reads r to the end and returns a base64 data URI with a sniffed MIME type.
// Read errors are returned as they are.
func Encode(ctx context.Context, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if err = ctx.Err(); err != nil {
		return "", err
	}
	return EncodeBytes(data, "")
}

func EncodeFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return Encode(ctx, f)
}

// EncodeBytes encodes data with the given MIME type. Empty mediaType = sniff it.
func EncodeBytes(data []byte, mediaType string) (string, error) {
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	mt, params, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return "", fmt.Errorf("datauri: media type %q: %w", mediaType, err)
	}
	if strings.Count(mt, "/") != 1 {
		return "", fmt.Errorf("datauri: media type %q has no subtype", mt)
	}
	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, k, v)
	}
	return dataurl.New(data, mt, pairs...).String(), nil
}

// Decode returns the MIME type (without parameters) and payload of s
func Decode(s string) (string, []byte, error) {
	if !IsDataURI(s) {
		return "", nil, ErrNotDataURI
	}
	du, err := dataurl.DecodeString(s)
	if err != nil {
		return "", nil, fmt.Errorf("datauri: %w", err)
	}
	return du.MediaType.ContentType(), du.Data, nil
}

func IsDataURI(s string) bool {
	return len(s) > len(Prefix) && strings.EqualFold(s[:len(Prefix)], Prefix)
}

// DecodeImage decodes PNG, JPEG, GIF, WebP and BMP payloads
func DecodeImage(s string) (image.Image, error) {
	_, data, err := Decode(s)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("datauri: decode image: %w", err)
	}
	return img, nil
}
