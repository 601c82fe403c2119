package thumbnails

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const defaultImage = "products/default.jpg"

func writeOriginal(t *testing.T, root, rel string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 128})
		}
	}
	target := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0755))
	require.NoError(t, imaging.Save(img, target))
}

func TestVariantPath(t *testing.T) {
	testCases := []struct {
		original string
		class    SizeClass
		expected string
	}{
		{"products/original/apple.png", Small, "products/small/apple_small.jpg"},
		{"products/original/apple.png", Medium, "products/medium/apple_medium.jpg"},
		{"products/original/green.apple.jpeg", Large, "products/large/green.apple_large.jpg"},
		{"banana.jpg", Small, "products/small/banana_small.jpg"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, VariantPath(tc.original, tc.class))
		})
	}
}

func TestDerive(t *testing.T) {
	root := t.TempDir()
	writeOriginal(t, root, "products/original/apple.png", 1000, 500)
	d := NewDeriver(root, defaultImage, zap.NewNop())

	variants, err := d.Derive("products/original/apple.png")
	require.NoError(t, err)

	assert.Equal(t, Variants{
		Small:  "products/small/apple_small.jpg",
		Medium: "products/medium/apple_medium.jpg",
		Large:  "products/large/apple_large.jpg",
	}, variants)

	expected := map[string]image.Point{
		variants.Small:  {X: 150, Y: 75},
		variants.Medium: {X: 300, Y: 150},
		variants.Large:  {X: 800, Y: 400},
	}
	for rel, size := range expected {
		img, err := imaging.Open(filepath.Join(root, rel))
		require.NoError(t, err, rel)
		assert.Equal(t, size, img.Bounds().Size(), rel)
	}
}

func TestDeriveDoesNotUpscale(t *testing.T) {
	root := t.TempDir()
	writeOriginal(t, root, "products/original/cherry.png", 120, 90)
	d := NewDeriver(root, defaultImage, zap.NewNop())

	variants, err := d.Derive("products/original/cherry.png")
	require.NoError(t, err)

	for _, rel := range []string{variants.Small, variants.Medium, variants.Large} {
		img, err := imaging.Open(filepath.Join(root, rel))
		require.NoError(t, err, rel)
		assert.Equal(t, image.Pt(120, 90), img.Bounds().Size(), rel)
	}
}

func TestDeriveSkipsDefaultImage(t *testing.T) {
	d := NewDeriver(t.TempDir(), defaultImage, zap.NewNop())

	_, err := d.Derive(defaultImage)
	assert.ErrorIs(t, err, ErrDefaultImage)

	_, err = d.Derive("")
	assert.ErrorIs(t, err, ErrDefaultImage)
}

func TestDeriveMissingOriginal(t *testing.T) {
	d := NewDeriver(t.TempDir(), defaultImage, zap.NewNop())

	_, err := d.Derive("products/original/ghost.png")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDefaultImage)
}

func TestShrinkKeepsAspectRatio(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 400, 1600))
	dst := Shrink(src, Medium)
	assert.Equal(t, image.Pt(75, 300), dst.Bounds().Size())
}

func TestFlattenDropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.Set(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 0})

	out := flatten(src).(*image.NRGBA)
	for i := 3; i < len(out.Pix); i += 4 {
		assert.Equal(t, uint8(0xff), out.Pix[i])
	}
}
