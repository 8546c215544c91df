package gfx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// AssetMagic is "PGF1" in little-endian.
const AssetMagic = 0x31464750

// AssetHeaderSize is the size of the fixed asset header in bytes.
const AssetHeaderSize = 16

// ErrInvalidAsset is returned for malformed or mismatched asset data.
var ErrInvalidAsset = errors.New("gfx: invalid asset")

// AssetHeader is the fixed 16-byte header of a .pgfx image.
//
// Layout (little-endian): magic u32, format u8, reserved u8, width u16,
// height u16, tile width u16, tile height u16, reserved [2]byte. Samples
// follow row-major in the header's format. Tile dimensions are zero for a
// plain image.
type AssetHeader struct {
	Magic        uint32
	Format       Format
	Width        uint16
	Height       uint16
	TileW, TileH uint16
}

// ParseAssetHeader reads the header from the start of data.
func ParseAssetHeader(data []byte) (*AssetHeader, error) {
	if len(data) < AssetHeaderSize {
		return nil, fmt.Errorf("%w: header too short", ErrInvalidAsset)
	}
	h := &AssetHeader{
		Magic:  binary.LittleEndian.Uint32(data[0:4]),
		Format: Format(data[4]),
		Width:  binary.LittleEndian.Uint16(data[6:8]),
		Height: binary.LittleEndian.Uint16(data[8:10]),
		TileW:  binary.LittleEndian.Uint16(data[10:12]),
		TileH:  binary.LittleEndian.Uint16(data[12:14]),
	}
	if data[5] != 0 || data[14] != 0 || data[15] != 0 {
		return nil, fmt.Errorf("%w: reserved must be 0", ErrInvalidAsset)
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	return h, nil
}

// Validate checks header invariants.
func (h *AssetHeader) Validate() error {
	if h.Magic != AssetMagic {
		return fmt.Errorf("%w: bad magic", ErrInvalidAsset)
	}
	if h.Format.BytesPerPixel() == 0 {
		return fmt.Errorf("%w: unknown format %d", ErrInvalidAsset, h.Format)
	}
	if (h.TileW == 0) != (h.TileH == 0) {
		return fmt.Errorf("%w: tile size %dx%d", ErrInvalidAsset, h.TileW, h.TileH)
	}
	if h.TileW != 0 {
		if h.TileW != h.Width {
			return fmt.Errorf("%w: tile strip must be %d wide", ErrInvalidAsset, h.TileW)
		}
		if h.Height%h.TileH != 0 {
			return fmt.Errorf("%w: height %d is not a multiple of tile height %d", ErrInvalidAsset, h.Height, h.TileH)
		}
	}
	return nil
}

// PayloadSize returns the number of sample bytes following the header.
func (h *AssetHeader) PayloadSize() int {
	return int(h.Width) * int(h.Height) * h.Format.BytesPerPixel()
}

func (h *AssetHeader) put(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Magic)
	buf[4] = byte(h.Format)
	binary.LittleEndian.PutUint16(buf[6:8], h.Width)
	binary.LittleEndian.PutUint16(buf[8:10], h.Height)
	binary.LittleEndian.PutUint16(buf[10:12], h.TileW)
	binary.LittleEndian.PutUint16(buf[12:14], h.TileH)
}

// WriteAsset encodes b as a .pgfx image. tileW and tileH are zero for a plain
// image.
func WriteAsset[T Sample](w io.Writer, b *Buffer[T], tileW, tileH int) error {
	h := &AssetHeader{
		Magic:  AssetMagic,
		Format: b.Format(),
		Width:  uint16(b.w),
		Height: uint16(b.h),
		TileW:  uint16(tileW),
		TileH:  uint16(tileH),
	}
	if err := h.Validate(); err != nil {
		return err
	}
	var hdr [AssetHeaderSize]byte
	h.put(hdr[:])
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	// Bytes is already in little-endian sample order.
	_, err := w.Write(b.Bytes())
	return err
}

// DecodeAsset decodes a .pgfx image into a buffer allocated from heap. The
// asset's format must match T.
func DecodeAsset[T Sample](heap *Heap, data []byte) (*Buffer[T], *AssetHeader, error) {
	h, err := ParseAssetHeader(data)
	if err != nil {
		return nil, nil, err
	}
	if h.Format != FormatOf[T]() {
		return nil, nil, fmt.Errorf("%w: asset is %s, want %s", ErrInvalidAsset, h.Format, FormatOf[T]())
	}
	payload := data[AssetHeaderSize:]
	if len(payload) < h.PayloadSize() {
		return nil, nil, fmt.Errorf("%w: truncated payload (%d of %d bytes)", ErrInvalidAsset, len(payload), h.PayloadSize())
	}
	b, err := Alloc[T](heap, int(h.Width), int(h.Height))
	if err != nil {
		return nil, nil, err
	}
	bpp := h.Format.BytesPerPixel()
	for i := range b.pix {
		if bpp == 2 {
			b.pix[i] = T(binary.LittleEndian.Uint16(payload[i*2:]))
		} else {
			b.pix[i] = T(payload[i])
		}
	}
	return b, h, nil
}

// DecodeTileSet decodes a tile-strip asset.
func DecodeTileSet[T Sample](heap *Heap, data []byte) (*TileSet[T], error) {
	b, h, err := DecodeAsset[T](heap, data)
	if err != nil {
		return nil, err
	}
	if h.TileW == 0 {
		b.Release()
		return nil, fmt.Errorf("%w: not a tile strip", ErrInvalidAsset)
	}
	return &TileSet[T]{TileW: int(h.TileW), TileH: int(h.TileH), Image: b}, nil
}
