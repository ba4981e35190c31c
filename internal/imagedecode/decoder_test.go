package imagedecode

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage(w, h)))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func encodeGIF(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, testImage(w, h), nil))
	return buf.Bytes()
}

func TestDecode_Formats(t *testing.T) {
	tests := []struct {
		name       string
		mimeType   string
		data       []byte
		wantFormat string
	}{
		{"png", "image/png", encodePNG(t, 32, 24), "png"},
		{"jpeg", "image/jpeg", encodeJPEG(t, 40, 30), "jpeg"},
		{"gif", "image/gif", encodeGIF(t, 16, 16), "gif"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(dataURL(tt.mimeType, tt.data))
			require.NoError(t, err)

			assert.Equal(t, tt.wantFormat, img.Format)
			assert.Equal(t, tt.data, img.Data)
			assert.NotNil(t, img.Pixels)
		})
	}
}

func TestDecode_Dimensions(t *testing.T) {
	img, err := Decode(dataURL("image/png", encodePNG(t, 64, 48)))
	require.NoError(t, err)

	assert.Equal(t, 64, img.Width())
	assert.Equal(t, 48, img.Height())
}

func TestDecode_PrefixIsIgnored(t *testing.T) {
	// The MIME type in the prefix is informational only
	img, err := Decode(dataURL("image/jpeg", encodePNG(t, 8, 8)))
	require.NoError(t, err)
	assert.Equal(t, "png", img.Format)
}

func TestDecode_SplitsOnFirstComma(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(encodePNG(t, 8, 8))

	_, err := Decode("data:image/png;base64," + payload + ",trailing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecode_UnpaddedBase64(t *testing.T) {
	raw := base64.RawStdEncoding.EncodeToString(encodePNG(t, 10, 10))

	img, err := Decode("data:image/png;base64," + raw)
	require.NoError(t, err)
	assert.Equal(t, "png", img.Format)
}

func TestDecode_SurroundingWhitespace(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(encodePNG(t, 10, 10))

	_, err := Decode("data:image/png;base64,\n" + payload + "  \n")
	require.NoError(t, err)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty string", "", ErrMalformedDataURL},
		{"no comma", base64.StdEncoding.EncodeToString([]byte("abc")), ErrMalformedDataURL},
		{"prefix only", "data:image/png;base64,", ErrEmptyPayload},
		{"blank payload", "data:image/png;base64,   ", ErrEmptyPayload},
		{"invalid base64", "data:image/png;base64,!!!not-base64!!!", ErrInvalidBase64},
		{"not an image", dataURL("image/png", []byte(strings.Repeat("hello", 50))), ErrUnsupportedImage},
		{"truncated png", dataURL("image/png", encodePNG(t, 32, 32)[:40]), ErrUnsupportedImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(tt.input)

			require.Error(t, err)
			assert.Nil(t, img)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func dataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
