// Package imagedecode turns the data URLs posted by the capture page into
// validated images.
package imagedecode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	// Registered decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	// ErrDecode is the parent of every decoding failure
	ErrDecode = errors.New("image decode failed")

	ErrMalformedDataURL = fmt.Errorf("%w: malformed data url", ErrDecode)
	ErrEmptyPayload     = fmt.Errorf("%w: empty payload", ErrDecode)
	ErrInvalidBase64    = fmt.Errorf("%w: invalid base64 payload", ErrDecode)
	ErrUnsupportedImage = fmt.Errorf("%w: not a supported image encoding", ErrDecode)
)

// Image is a decoded capture
type Image struct {
	// Data holds the encoded bytes exactly as sent by the client
	Data   []byte
	Format string
	Bounds image.Rectangle
	Pixels image.Image
}

// Width returns the pixel width
func (i *Image) Width() int {
	return i.Bounds.Dx()
}

// Height returns the pixel height
func (i *Image) Height() int {
	return i.Bounds.Dy()
}

// Decode parses "<prefix>,<base64-payload>" and decodes the payload as an image.
// The prefix is not inspected; the format is sniffed from the bytes.
func Decode(dataURL string) (*Image, error) {
	_, payload, found := strings.Cut(dataURL, ",")
	if !found {
		return nil, ErrMalformedDataURL
	}

	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, ErrEmptyPayload
	}

	raw, err := decodeBase64(payload)
	if err != nil {
		return nil, err
	}

	pixels, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	return &Image{
		Data:   raw,
		Format: format,
		Bounds: pixels.Bounds(),
		Pixels: pixels,
	}, nil
}

// decodeBase64 accepts padded and unpadded standard base64
func decodeBase64(payload string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return raw, nil
	}

	raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
	if rawErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBase64, err)
	}
	return raw, nil
}
