package docproc

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// GPSData is the geolocation payload extracted from a photo's EXIF tags.
type GPSData struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Date        string  `json:"date,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
	CameraMake  string  `json:"camera_make,omitempty"`
	CameraModel string  `json:"camera_model,omitempty"`
}

// FileHash returns the hex sha256 digest of the raw bytes, recorded on every
// document for integrity verification.
func FileHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// ExtractGPS reads EXIF orientation tags from an image and converts the
// degrees/minutes/seconds coordinates to decimal degrees, negating for the
// southern and western hemispheres. Files without EXIF data or without GPS
// tags yield nil rather than an error.
func ExtractGPS(content []byte) *GPSData {
	x, err := exif.Decode(bytes.NewReader(content))
	if err != nil {
		return nil
	}

	latTag, latErr := x.Get(exif.GPSLatitude)
	lonTag, lonErr := x.Get(exif.GPSLongitude)
	if latErr != nil || lonErr != nil {
		return nil
	}

	lat, err := toDegrees(latTag)
	if err != nil {
		return nil
	}
	lon, err := toDegrees(lonTag)
	if err != nil {
		return nil
	}

	if ref := tagString(x, exif.GPSLatitudeRef); ref == "S" {
		lat = -lat
	}
	if ref := tagString(x, exif.GPSLongitudeRef); ref == "W" {
		lon = -lon
	}

	return &GPSData{
		Latitude:    lat,
		Longitude:   lon,
		Date:        tagString(x, exif.GPSDateStamp),
		Timestamp:   tagString(x, exif.DateTimeOriginal),
		CameraMake:  tagString(x, exif.Make),
		CameraModel: tagString(x, exif.Model),
	}
}

// toDegrees converts a rational (degrees, minutes, seconds) triplet to
// decimal degrees.
func toDegrees(tag *tiff.Tag) (float64, error) {
	var parts [3]float64
	for i := 0; i < 3 && i < int(tag.Count); i++ {
		num, den, err := tag.Rat2(i)
		if err != nil {
			return 0, err
		}
		if den != 0 {
			parts[i] = float64(num) / float64(den)
		}
	}
	return parts[0] + parts[1]/60.0 + parts[2]/3600.0, nil
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return s
}
