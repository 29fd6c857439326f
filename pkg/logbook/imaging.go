package logbook

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/tendant/catfeed/pkg/domain"
)

// MaxPhotoDimension bounds both edges of a stored photo.
const MaxPhotoDimension = 800

const jpegQuality = 85

// processImage reads the camera metadata, applies the EXIF orientation and
// shrinks the picture to fit MaxPhotoDimension. data comes back untouched
// when neither step changes anything. GIFs are kept as uploaded so
// animations survive.
func processImage(data []byte, contentType string) ([]byte, domain.PhotoExif, error) {
	meta, orientation := readExif(data)
	if contentType == "image/gif" {
		return data, meta, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, meta, fmt.Errorf("decode image: %w", err)
	}

	img, rotated := orient(img, orientation)
	b := img.Bounds()
	if !rotated && b.Dx() <= MaxPhotoDimension && b.Dy() <= MaxPhotoDimension {
		return data, meta, nil
	}

	out := imaging.Fit(img, MaxPhotoDimension, MaxPhotoDimension, imaging.Lanczos)

	format := imaging.PNG
	if contentType == "image/jpeg" {
		format = imaging.JPEG
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, format, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, meta, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), meta, nil
}

// orient turns img upright for EXIF orientations 3, 6 and 8. Mirrored
// orientations are left alone.
func orient(img image.Image, orientation int) (image.Image, bool) {
	switch orientation {
	case 3:
		return imaging.Rotate180(img), true
	case 6:
		return imaging.Rotate270(img), true
	case 8:
		return imaging.Rotate90(img), true
	}
	return img, false
}

// readExif returns whatever metadata data carries. Files without EXIF
// yield a zero value and orientation 0.
func readExif(data []byte) (meta domain.PhotoExif, orientation int) {
	defer func() {
		// goexif can panic on truncated segments.
		if recover() != nil {
			meta, orientation = domain.PhotoExif{}, 0
		}
	}()

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return meta, 0
	}

	if t, err := x.DateTime(); err == nil {
		meta.DateTaken = &t
	}
	meta.CameraMake = exifString(x, exif.Make)
	meta.CameraModel = exifString(x, exif.Model)

	if num, den, ok := exifRat(x, exif.ExposureTime); ok {
		if num%den == 0 {
			meta.ExposureTime = fmt.Sprintf("%d", num/den)
		} else {
			meta.ExposureTime = fmt.Sprintf("%d/%d", num, den)
		}
	}
	if num, den, ok := exifRat(x, exif.FNumber); ok {
		f := float64(num) / float64(den)
		meta.FNumber = &f
	}
	if num, den, ok := exifRat(x, exif.FocalLength); ok {
		f := float64(num) / float64(den)
		meta.FocalLength = &f
	}
	if iso, ok := exifInt(x, exif.ISOSpeedRatings); ok {
		meta.ISOSpeed = &iso
	}
	if o, ok := exifInt(x, exif.Orientation); ok {
		orientation = o
	}
	return meta, orientation
}

func exifString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

func exifInt(x *exif.Exif, name exif.FieldName) (int, bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, false
	}
	v, err := tag.Int(0)
	return v, err == nil
}

func exifRat(x *exif.Exif, name exif.FieldName) (num, den int64, ok bool) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, 0, false
	}
	num, den, err = tag.Rat2(0)
	if err != nil || den == 0 {
		return 0, 0, false
	}
	return num, den, true
}
