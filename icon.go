package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/xor-gate/goexif2/exif"
	"github.com/xor-gate/goexif2/tiff"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	// fastScaler is used to scale small icons.
	fastScaler xdraw.Scaler = xdraw.BiLinear
	// bestScaler is used to scale large images.
	bestScaler xdraw.Scaler = xdraw.CatmullRom
)

// Fitter computes the version of an image a view draws.
type Fitter func(image.Image) *image.RGBA

// Icon is an image for viewing.
type Icon struct {
	path   string // path of the image file
	marked bool   // true if marked by the user
}

// IconImage holds the contents of an icon, fitted for one view.
type IconImage struct {
	*Icon                // the origin of the image
	data     []byte      // the image contents from file
	fitted   *image.RGBA // the image scaled for the view
	fit      Fitter      // function to compute fitted
	exifInfo string      // a summary of the EXIF data if present
	bounds   image.Point // size of the original image
}

var (
	errNotSupportedFormat = errors.New("not supported format")
)

// NewIcon returns a new Icon for path.
func NewIcon(path string) *Icon {
	return &Icon{path: path}
}

// NewIconImage returns a new instance for the contents of icons.
func (i *Icon) NewIconImage(fit Fitter) *IconImage {
	return &IconImage{Icon: i, fit: fit}
}

// ToggleMarked marks/unmarks the icon
func (i *Icon) ToggleMarked() {
	i.marked = !i.marked
}

// Marked reports whether the user marked the icon.
func (i *Icon) Marked() bool {
	return i.marked
}

// Fitted loads the image if needed and returns the version to draw.
func (i *IconImage) Fitted() (*image.RGBA, error) {
	if err := i.Load(); err != nil {
		return nil, err
	}
	return i.fitted, nil
}

// Load loads the image from the file.
func (i *IconImage) Load() error {
	if i.data == nil {
		data, err := os.ReadFile(i.path)
		if err != nil {
			return fmt.Errorf("load: %w", err)
		}

		kind, _ := filetype.Match(data)
		switch kind.MIME.Value {
		case "image/gif", "image/jpeg", "image/png", "image/webp":
			// supported format
		default:
			return fmt.Errorf("load: cannot handle %s: %w", kind.Extension, errNotSupportedFormat)
		}
		i.data = data
	}

	if i.fitted == nil {
		img, _, err := image.Decode(bytes.NewReader(i.data))
		if err != nil {
			return fmt.Errorf("load: decode image: %w", err)
		}
		info, orientation := readExif(bytes.NewReader(i.data))
		img = orient(img, orientation)
		i.exifInfo = info
		i.bounds = img.Bounds().Size()
		i.fitted = i.fit(img)
	}

	return nil
}

// Unload frees the image data. To use it again, call Load first.
func (i *IconImage) Unload() {
	i.data = nil
	i.fitted = nil
}

// FitFast returns a Fitter that scales into r with a fast algorithm
// and an acceptable result.
func FitFast(r image.Rectangle) Fitter {
	return func(img image.Image) *image.RGBA {
		return fitWith(fastScaler, img, r)
	}
}

// FitBest returns a Fitter that scales into r with the best result but it is slow.
func FitBest(r image.Rectangle) Fitter {
	return func(img image.Image) *image.RGBA {
		return fitWith(bestScaler, img, r)
	}
}

func fitWith(s xdraw.Scaler, img image.Image, r image.Rectangle) *image.RGBA {
	dr := bestFit(r, img.Bounds())
	dr = dr.Sub(dr.Min)
	dimg := image.NewRGBA(dr)
	s.Scale(dimg, dr, img, img.Bounds(), xdraw.Src, nil)
	return dimg
}

// orient applies the EXIF orientation so that the image is displayed upright.
func orient(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.Transpose(img)
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.Transverse(img)
	case 8:
		return imaging.Rotate90(img)
	}
	return img
}

// readExif returns an one line human readable string of the exif data
// and the orientation of the image, 1 if unknown.
func readExif(r tiff.ReadAtReaderSeeker) (string, int) {
	ex, err := exif.Decode(r)
	if err != nil {
		return "", 1
	}

	orientation := 1
	if tag, err := ex.Get(exif.Orientation); err == nil {
		if o, err := tag.Int(0); err == nil && 1 <= o && o <= 8 {
			orientation = o
		}
	}

	asString := func(t *tiff.Tag) string {
		return t.String()
	}

	asRatFloat := func(t *tiff.Tag) string {
		f, _ := t.Rat(0)
		return f.FloatString(2)
	}

	labels := []struct {
		pat     string
		name    exif.FieldName
		printer func(*tiff.Tag) string
	}{
		{"Date: %s", exif.DateTimeOriginal, asString},
		{"Model: %s", exif.Model, asString},
		{"f/%s", exif.FNumber, asRatFloat},
		{"Exp: %s", exif.ExposureTime, asRatFloat},
		{"ISO: %s", exif.ISOSpeedRatings, asString},
		{"Shutter: %s", exif.ShutterSpeedValue, asRatFloat},
	}

	var fields []string
	for _, label := range labels {
		if tag, err := ex.Get(label.name); err == nil {
			fields = append(fields, fmt.Sprintf(label.pat, label.printer(tag)))
		}
	}
	if len(fields) == 0 {
		return "", orientation
	}
	return "Exif: " + strings.Join(fields, " "), orientation
}

// NewIconImages is the slice version of Icon.NewIconImage.
func NewIconImages(icons []*Icon, fit Fitter) []*IconImage {
	images := make([]*IconImage, 0, len(icons))
	for _, icon := range icons {
		images = append(images, icon.NewIconImage(fit))
	}
	return images
}
