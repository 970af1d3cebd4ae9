// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package upload

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"regexp"
	"strings"
	"testing"
	"time"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

var now = time.Date(2026, time.March, 9, 12, 0, 0, 0, time.UTC)

func TestInspect_PNG(t *testing.T) {
	f, err := Inspect(pngBytes(t, 800, 600), "photos/House Front.png", now)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}

	if f.MimeType != "image/png" {
		t.Errorf("MimeType = %q", f.MimeType)
	}
	if f.OriginalName != "House Front.png" {
		t.Errorf("OriginalName = %q", f.OriginalName)
	}
	if f.Width == nil || *f.Width != 800 || f.Height == nil || *f.Height != 600 {
		t.Errorf("dimensions = %v x %v", f.Width, f.Height)
	}

	keyRe := regexp.MustCompile(`^media/2026/03/[0-9a-f-]{36}\.png$`)
	if !keyRe.MatchString(f.Key) {
		t.Errorf("Key = %q", f.Key)
	}
	if !strings.HasSuffix(f.Key, f.Filename) {
		t.Errorf("Filename %q is not the key's base name %q", f.Filename, f.Key)
	}
	if want := strings.TrimSuffix(f.Key, ".png") + "_thumb.jpg"; f.ThumbKey != want {
		t.Errorf("ThumbKey = %q, want %q", f.ThumbKey, want)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(f.Thumb))
	if err != nil {
		t.Fatalf("decode thumb: %v", err)
	}
	if format != "jpeg" || cfg.Width != ThumbMaxWidth || cfg.Height != 300 {
		t.Errorf("thumb = %s %dx%d, want jpeg 400x300", format, cfg.Width, cfg.Height)
	}
}

func TestInspect_KeysAreUnique(t *testing.T) {
	data := pngBytes(t, 10, 10)
	a, _ := Inspect(data, "a.png", now)
	b, _ := Inspect(data, "a.png", now)
	if a.Key == b.Key {
		t.Errorf("two uploads share key %q", a.Key)
	}
}

func TestInspect_SmallImageThumbKeepsSize(t *testing.T) {
	f, err := Inspect(pngBytes(t, 120, 80), "small.png", now)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(f.Thumb))
	if err != nil {
		t.Fatalf("decode thumb: %v", err)
	}
	if cfg.Width != 120 || cfg.Height != 80 {
		t.Errorf("thumb = %dx%d, want 120x80", cfg.Width, cfg.Height)
	}
}

func TestInspect_GIFHasNoThumbnail(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 500, 20), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode gif: %v", err)
	}

	f, err := Inspect(buf.Bytes(), "anim.gif", now)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if f.MimeType != "image/gif" || f.Thumb != nil || f.ThumbKey != "" {
		t.Errorf("gif = %q thumb=%d key=%q", f.MimeType, len(f.Thumb), f.ThumbKey)
	}
	if f.Width == nil || *f.Width != 500 {
		t.Errorf("Width = %v", f.Width)
	}
}

func TestInspect_SVGAndPDF(t *testing.T) {
	svg := []byte(`<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"></svg>`)
	f, err := Inspect(svg, "logo.SVG", now)
	if err != nil {
		t.Fatalf("Inspect svg: %v", err)
	}
	if f.MimeType != "image/svg+xml" || f.Width != nil || f.Thumb != nil {
		t.Errorf("svg = %q width=%v thumb=%d", f.MimeType, f.Width, len(f.Thumb))
	}
	if !strings.HasSuffix(f.Key, ".svg") {
		t.Errorf("Key = %q", f.Key)
	}

	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	f, err = Inspect(pdf, "brochure.pdf", now)
	if err != nil {
		t.Fatalf("Inspect pdf: %v", err)
	}
	if f.MimeType != "application/pdf" || f.Width != nil {
		t.Errorf("pdf = %q width=%v", f.MimeType, f.Width)
	}
}

func TestInspect_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		file string
		want error
	}{
		{"empty", nil, "a.png", ErrEmpty},
		{"text", []byte("hello world"), "notes.txt", ErrUnsupportedType},
		{"html", []byte("<html><body>x</body></html>"), "page.html", ErrUnsupportedType},
		{"truncated png", pngBytes(t, 10, 10)[:20], "broken.png", ErrUnsupportedType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Inspect(tt.data, tt.file, now)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRead_TooLarge(t *testing.T) {
	big := bytes.Repeat([]byte{0}, MaxSize+10)
	if _, err := Read(bytes.NewReader(big), "big.bin", now); !errors.Is(err, ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
}

func TestRead_OK(t *testing.T) {
	f, err := Read(bytes.NewReader(pngBytes(t, 5, 5)), "tiny.png", now)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.Size() == 0 {
		t.Error("Size = 0")
	}
}
