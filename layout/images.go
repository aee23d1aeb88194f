package layout

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ImageExtensions are the photo file types picked up from the images directory.
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tiff"}

// Image is a decoded photo re-encoded as JPEG for embedding.
type Image struct {
	Name   string
	Data   []byte
	Width  int
	Height int
}

// ImageLoader decodes photos and downsizes them so no side exceeds MaxPixels.
type ImageLoader struct {
	MaxPixels int
	Quality   int
}

// NewImageLoader returns a loader with the given pixel bound.
func NewImageLoader(maxPixels int) *ImageLoader {
	if maxPixels <= 0 {
		maxPixels = 480
	}
	return &ImageLoader{MaxPixels: maxPixels, Quality: 85}
}

// Load decodes the file at path. Any read or decode error is returned and the caller renders a placeholder.
func (l *ImageLoader) Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filepath.Base(path), err)
	}

	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("image %s has no pixels", filepath.Base(path))
	}
	w, h := fitWithin(b.Dx(), b.Dy(), l.MaxPixels)

	// JPEG has no alpha, so transparent areas are flattened onto white.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: l.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image %s: %w", filepath.Base(path), err)
	}
	return &Image{Name: path, Data: buf.Bytes(), Width: w, Height: h}, nil
}

func fitWithin(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}

// ListImages returns the photo files in dir sorted by file name. A missing directory yields no images.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !hasImageExtension(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

func hasImageExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range ImageExtensions {
		if ext == want {
			return true
		}
	}
	return false
}
