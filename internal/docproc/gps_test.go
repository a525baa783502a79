package docproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileHash(t *testing.T) {
	// sha256 of "abc"
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		FileHash([]byte("abc")))

	// sha256 of the empty payload
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		FileHash(nil))
}

func TestExtractGPSNonImage(t *testing.T) {
	assert.Nil(t, ExtractGPS([]byte("definitely not a jpeg")))
	assert.Nil(t, ExtractGPS(nil))
}

func TestExtractGPSImageWithoutExif(t *testing.T) {
	// Minimal JFIF header with no EXIF segment.
	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0xFF, 0xD9}
	assert.Nil(t, ExtractGPS(payload))
}
