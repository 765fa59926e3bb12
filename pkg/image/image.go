// Package image serializes compiled minivm bytecode for storage and
// transport. The native format is a small big-endian binary layout; a
// CBOR encoding is provided for wire use.
package image

import (
	"encoding/binary"
	"fmt"
)

// Version is the current image format version. Increment when making
// incompatible changes to the format.
const Version uint16 = 1

// Magic bytes for image files: "MVMI" (MiniVM Image).
var Magic = []byte{'M', 'V', 'M', 'I'}

// Image wraps a compiled program's code buffer with format metadata.
type Image struct {
	Version uint16
	Flags   uint16 // reserved, zero
	Code    []int
}

// New wraps a code buffer in an image with the current version.
func New(code []int) *Image {
	return &Image{Version: Version, Code: code}
}

// Serialize encodes the image to bytes.
// Format:
//
//	[magic:4] [version:2] [flags:2]
//	[word_count:4] [words:4 each, signed big-endian]
func (im *Image) Serialize() ([]byte, error) {
	for i, w := range im.Code {
		if w > 0x7FFFFFFF || w < -0x80000000 {
			return nil, fmt.Errorf("image: word %d (%#x) does not fit in 32 bits", i, w)
		}
	}

	buf := make([]byte, 0, 12+4*len(im.Code))
	buf = append(buf, Magic...)
	buf = binary.BigEndian.AppendUint16(buf, im.Version)
	buf = binary.BigEndian.AppendUint16(buf, im.Flags)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(im.Code)))
	for _, w := range im.Code {
		buf = binary.BigEndian.AppendUint32(buf, uint32(int32(w)))
	}
	return buf, nil
}

// Deserialize decodes an image from bytes.
func Deserialize(data []byte) (*Image, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("image: too short: need at least 12 bytes, got %d", len(data))
	}
	if string(data[0:4]) != string(Magic) {
		return nil, fmt.Errorf("image: invalid magic: expected %q, got %q", Magic, data[0:4])
	}

	im := &Image{
		Version: binary.BigEndian.Uint16(data[4:6]),
		Flags:   binary.BigEndian.Uint16(data[6:8]),
	}
	if im.Version > Version {
		return nil, fmt.Errorf("image: version %d is newer than supported version %d", im.Version, Version)
	}

	count := binary.BigEndian.Uint32(data[8:12])
	if len(data) != 12+4*int(count) {
		return nil, fmt.Errorf("image: truncated: header declares %d words, body holds %d bytes", count, len(data)-12)
	}

	im.Code = make([]int, count)
	for i := range im.Code {
		im.Code[i] = int(int32(binary.BigEndian.Uint32(data[12+4*i:])))
	}
	return im, nil
}
