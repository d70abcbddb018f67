package asset

import (
	"bytes"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	gzipMagic   = []byte{0x1f, 0x8b}
	zstdMagic   = []byte{0x28, 0xb5, 0x2f, 0xfd}
	snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")
)

// inflate returns body decompressed when it starts with a gzip, zstd or
// framed snappy header, and body itself otherwise.
func inflate(body []byte) ([]byte, bool, error) {
	var r io.Reader
	switch {
	case bytes.HasPrefix(body, gzipMagic):
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, true, fmt.Errorf("%w: gzip: %w", ErrDecode, err)
		}
		defer zr.Close()
		r = zr
	case bytes.HasPrefix(body, zstdMagic):
		zr, err := zstd.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, true, fmt.Errorf("%w: zstd: %w", ErrDecode, err)
		}
		defer zr.Close()
		r = zr
	case bytes.HasPrefix(body, snappyMagic):
		r = snappy.NewReader(bytes.NewReader(body))
	default:
		return body, false, nil
	}

	out, err := io.ReadAll(io.LimitReader(r, maxBody+1))
	if err != nil {
		return nil, true, fmt.Errorf("%w: inflate: %w", ErrDecode, err)
	}
	if len(out) > maxBody {
		return nil, true, fmt.Errorf("%w: inflated model larger than %d bytes", ErrDecode, maxBody)
	}
	return out, true, nil
}

// decodeBytes decodes a possibly compressed GLB or glTF.
func decodeBytes(body []byte) (*Model, error) {
	raw, _, err := inflate(body)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(raw))
}
