package qr

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/skip2/go-qrcode"
)

// FileGenerator renders ticket QR codes as PNG files under Dir and returns
// the file name as the stable reference stored on the ticket record.
type FileGenerator struct {
	Dir  string
	Size int
}

func NewFileGenerator(dir string) *FileGenerator {
	return &FileGenerator{Dir: dir, Size: 256}
}

func (g *FileGenerator) Generate(code, eventID string) (string, error) {
	if err := os.MkdirAll(g.Dir, os.ModePerm); err != nil {
		return "", err
	}

	payload := fmt.Sprintf("Text: %s\nEvent ID: %s", code, eventID)
	name := fmt.Sprintf("ticket_%s.png", code)

	if err := qrcode.WriteFile(payload, qrcode.Medium, g.Size, filepath.Join(g.Dir, name)); err != nil {
		return "", fmt.Errorf("failed to generate QR code: %w", err)
	}
	return name, nil
}

// Remove deletes previously generated images, used to clean up after a
// failed issuance. Missing files are ignored.
func (g *FileGenerator) Remove(refs ...string) {
	for _, ref := range refs {
		os.Remove(filepath.Join(g.Dir, ref))
	}
}

// Path resolves a stored reference back to the image location on disk.
func (g *FileGenerator) Path(ref string) string {
	return filepath.Join(g.Dir, ref)
}
