package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Screenshotter writes framebuffer captures as PNG files named by
// prefix, timestamp and simulation frame.
type Screenshotter struct {
	Dir    string
	Prefix string

	now func() time.Time
}

// NewScreenshotter creates a screenshotter writing into dir.
func NewScreenshotter(dir, prefix string) *Screenshotter {
	return &Screenshotter{Dir: dir, Prefix: prefix, now: time.Now}
}

// Filename returns the path a capture of frame would be written to.
func (s *Screenshotter) Filename(frame uint64) string {
	name := fmt.Sprintf("%s_%s_f%06d.png", s.Prefix, s.now().Format("2006-01-02_15-04-05"), frame)
	if s.Dir == "" {
		return name
	}
	return filepath.Join(s.Dir, name)
}

// Capture writes bottom-up RGBA pixels, as read back from GL, to a new
// PNG and returns its path.
func (s *Screenshotter) Capture(pixels []byte, width, height int, frame uint64) (string, error) {
	img, err := FlipRGBA(pixels, width, height)
	if err != nil {
		return "", err
	}

	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	path := s.Filename(frame)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return path, nil
}

// FlipRGBA converts bottom-up RGBA rows into a top-down image.
func FlipRGBA(pixels []byte, width, height int) (*image.RGBA, error) {
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}
	return img, nil
}
