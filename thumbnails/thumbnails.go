// Package thumbnails derives the fixed-size product image variants from an
// uploaded original.
package thumbnails

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

const jpegQuality = 90

var ErrDefaultImage = errors.New("default placeholder image has no variants")

// SizeClass is a named bounding box.
type SizeClass struct {
	Name   string
	Width  int
	Height int
}

var (
	Small  = SizeClass{Name: "small", Width: 150, Height: 150}
	Medium = SizeClass{Name: "medium", Width: 300, Height: 300}
	Large  = SizeClass{Name: "large", Width: 800, Height: 800}
)

// SizeClasses lists every variant in generation order.
var SizeClasses = []SizeClass{Small, Medium, Large}

// Variants holds media-relative paths of the derived images.
type Variants struct {
	Small  string
	Medium string
	Large  string
}

func (v *Variants) set(class SizeClass, p string) {
	switch class.Name {
	case Small.Name:
		v.Small = p
	case Medium.Name:
		v.Medium = p
	case Large.Name:
		v.Large = p
	}
}

type Deriver struct {
	mediaRoot    string
	defaultImage string
	log          *zap.Logger
}

func NewDeriver(mediaRoot, defaultImage string, log *zap.Logger) *Deriver {
	return &Deriver{
		mediaRoot:    mediaRoot,
		defaultImage: defaultImage,
		log:          log,
	}
}

// VariantPath returns the media-relative path for a size class of original,
// e.g. products/original/apple.png -> products/small/apple_small.jpg.
func VariantPath(original string, class SizeClass) string {
	base := path.Base(filepath.ToSlash(original))
	base = strings.TrimSuffix(base, path.Ext(base))
	return path.Join("products", class.Name, base+"_"+class.Name+".jpg")
}

// Derive writes every size class of the original under the media root.
func (d *Deriver) Derive(original string) (Variants, error) {
	var out Variants
	if original == "" || original == d.defaultImage {
		return out, ErrDefaultImage
	}

	src, err := imaging.Open(d.abs(original))
	if err != nil {
		return out, fmt.Errorf("open original %s: %w", original, err)
	}
	src = flatten(src)

	for _, class := range SizeClasses {
		rel := VariantPath(original, class)
		if err := d.write(src, class, rel); err != nil {
			return Variants{}, err
		}
		out.set(class, rel)
	}

	d.log.Debug("Generated product thumbnails",
		zap.String("original", original),
		zap.String("small", out.Small),
		zap.String("medium", out.Medium),
		zap.String("large", out.Large),
	)
	return out, nil
}

func (d *Deriver) write(src image.Image, class SizeClass, rel string) error {
	dst := Shrink(src, class)

	target := d.abs(rel)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create %s directory: %w", class.Name, err)
	}
	if err := imaging.Save(dst, target, imaging.JPEGQuality(jpegQuality)); err != nil {
		return fmt.Errorf("save %s variant: %w", class.Name, err)
	}
	return nil
}

func (d *Deriver) abs(rel string) string {
	return filepath.Join(d.mediaRoot, filepath.FromSlash(rel))
}

// Shrink fits src into the class box keeping the aspect ratio. Images that
// already fit are returned unscaled.
func Shrink(src image.Image, class SizeClass) image.Image {
	b := src.Bounds()
	if b.Dx() <= class.Width && b.Dy() <= class.Height {
		return src
	}
	return imaging.Fit(src, class.Width, class.Height, imaging.Lanczos)
}

// flatten drops the alpha channel, keeping the colour channels as stored.
func flatten(src image.Image) image.Image {
	nrgba := image.NewNRGBA(src.Bounds())
	draw.Draw(nrgba, nrgba.Bounds(), src, src.Bounds().Min, draw.Src)
	for i := 3; i < len(nrgba.Pix); i += 4 {
		nrgba.Pix[i] = 0xff
	}
	return nrgba
}
