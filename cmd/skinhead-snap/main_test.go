package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/webp"
)

func writeSkin(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 220, G: 40, B: 40, A: 255})
		}
	}
	path := filepath.Join(dir, "skin.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseOptions(t *testing.T) {
	var stderr bytes.Buffer
	if _, err := parseOptions(nil, &stderr); err == nil {
		t.Error("expected error without -skin")
	}
	if _, err := parseOptions([]string{"-skin", "a.png", "-size", "0"}, &stderr); err == nil {
		t.Error("expected error for zero size")
	}

	o, err := parseOptions([]string{"-skin", "a.png", "-size", "100"}, &stderr)
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	if o.width != 200 || o.height != 200 {
		t.Errorf("viewport = %dx%d, want 200x200", o.width, o.height)
	}
	if o.out != "avatar.png" || o.frames != 60 {
		t.Errorf("unexpected defaults: %+v", o)
	}
}

func TestRunWritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	skin := writeSkin(t, dir)

	tests := []struct {
		name   string
		out    string
		decode func(*os.File) (image.Image, error)
	}{
		{"png", filepath.Join(dir, "out.png"), func(f *os.File) (image.Image, error) { return png.Decode(f) }},
		{"webp", filepath.Join(dir, "out.webp"), func(f *os.File) (image.Image, error) { return webp.Decode(f) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			args := []string{"-skin", skin, "-size", "64", "-frames", "3", "-out", tt.out}
			if err := run(args, &stderr); err != nil {
				t.Fatalf("run: %v (%s)", err, stderr.String())
			}

			f, err := os.Open(tt.out)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			img, err := tt.decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
				t.Fatalf("snapshot is %v, want 64x64", b)
			}

			face := color.NRGBAModel.Convert(img.At(31, 28)).(color.NRGBA)
			if face.A != 255 || face.R != 220 {
				t.Errorf("head pixel = %v, want the skin colour", face)
			}
			corner := color.NRGBAModel.Convert(img.At(0, 63)).(color.NRGBA)
			if corner.A != 0 {
				t.Errorf("corner pixel = %v, want transparent", corner)
			}
		})
	}
}

func TestRunFailsOnMissingOutputDir(t *testing.T) {
	dir := t.TempDir()
	skin := writeSkin(t, dir)
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer
	out := filepath.Join(blocker, "out.png")
	if err := run([]string{"-skin", skin, "-size", "32", "-frames", "1", "-out", out}, &stderr); err == nil {
		t.Error("expected error writing under a regular file")
	}
}
