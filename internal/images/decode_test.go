package images

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func testImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

func TestDecode(t *testing.T) {
	var pngBuf, jpegBuf bytes.Buffer
	if err := png.Encode(&pngBuf, testImage(40, 20)); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	if err := jpeg.Encode(&jpegBuf, testImage(40, 20), nil); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}

	tests := []struct {
		name   string
		data   []byte
		format string
	}{
		{name: "png", data: pngBuf.Bytes(), format: "png"},
		{name: "jpeg", data: jpegBuf.Bytes(), format: "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Decode(tt.data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if d.Format != tt.format {
				t.Errorf("Expected format %s, got %s", tt.format, d.Format)
			}
			if d.Width != 40 || d.Height != 20 {
				t.Errorf("Unexpected dimensions %dx%d", d.Width, d.Height)
			}
		})
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode([]byte("definitely not an image")); err == nil {
		t.Error("Expected error for garbage bytes")
	}
	if _, err := Decode(nil); err == nil {
		t.Error("Expected error for empty payload")
	}
}

func TestDecodeRejectsGIF(t *testing.T) {
	var buf bytes.Buffer
	pal := image.NewPaletted(image.Rect(0, 0, 4, 4), color.Palette{color.Black, color.White})
	if err := gif.Encode(&buf, pal, nil); err != nil {
		t.Fatalf("failed to encode gif: %v", err)
	}

	_, err := Decode(buf.Bytes())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

// resizedPNG encodes a 1x1 PNG and rewrites its IHDR to declare width x height.
func resizedPNG(t *testing.T, width, height uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(1, 1)); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	data := buf.Bytes()
	// signature(8) length(4) "IHDR"(4) width(4) height(4) ... crc at 29
	binary.BigEndian.PutUint32(data[16:20], width)
	binary.BigEndian.PutUint32(data[20:24], height)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func TestDecodeRejectsOversizedHeader(t *testing.T) {
	tests := []struct {
		name          string
		width, height uint32
	}{
		{name: "huge square", width: 60000, height: 60000},
		{name: "long strip", width: MaxPixels + 1, height: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := resizedPNG(t, tt.width, tt.height)
			cfg, err := png.DecodeConfig(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("Expected a readable header, got %v", err)
			}
			if uint32(cfg.Width) != tt.width || uint32(cfg.Height) != tt.height {
				t.Fatalf("Header not rewritten: %dx%d", cfg.Width, cfg.Height)
			}

			_, err = Decode(data)
			if !errors.Is(err, ErrTooManyPixels) {
				t.Errorf("Expected ErrTooManyPixels, got %v", err)
			}
		})
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(testImage(8, 8))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	d, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode of encoded png failed: %v", err)
	}
	if d.Width != 8 || d.Height != 8 {
		t.Errorf("Unexpected dimensions %dx%d", d.Width, d.Height)
	}
}
