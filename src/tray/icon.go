package tray

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"math"
	"sync"
)

var (
	iconOnce  sync.Once
	iconBytes []byte
)

// Icon returns the tray icon as a single-image ICO: a magnifier glyph
// rendered at 32x32. Built once, cached.
func Icon() []byte {
	iconOnce.Do(func() {
		iconBytes = encodeICO(drawGlyph())
	})
	return iconBytes
}

// drawGlyph paints a magnifying glass: a ring with a faint lens and a
// handle toward the lower-right corner.
func drawGlyph() *image.RGBA {
	const size = 32
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	ring := color.RGBA{R: 0x2b, G: 0x8c, B: 0xeb, A: 0xff}
	lens := color.RGBA{R: 0xd7, G: 0xea, B: 0xff, A: 0x66}

	const cx, cy = 13.0, 13.0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			switch {
			case d >= 7.5 && d <= 10.5:
				img.SetRGBA(x, y, ring)
			case d < 7.5:
				img.SetRGBA(x, y, lens)
			}
		}
	}

	// Handle: a thick diagonal from the ring edge to the corner.
	for t := 0.0; t <= 1.0; t += 0.02 {
		px := 20.5 + t*7.0
		py := 20.5 + t*7.0
		for oy := -1; oy <= 1; oy++ {
			for ox := -1; ox <= 1; ox++ {
				x, y := int(px)+ox, int(py)+oy
				if x >= 0 && x < size && y >= 0 && y < size {
					img.SetRGBA(x, y, ring)
				}
			}
		}
	}
	return img
}

// encodeICO wraps 32-bit BGRA pixels in a one-entry ICO container, the
// format the Windows tray expects.
func encodeICO(img *image.RGBA) []byte {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	andStride := ((w + 31) / 32) * 4
	imageSize := 40 + w*h*4 + andStride*h

	buf := new(bytes.Buffer)
	le := binary.LittleEndian

	// ICONDIR
	binary.Write(buf, le, uint16(0)) // reserved
	binary.Write(buf, le, uint16(1)) // type: icon
	binary.Write(buf, le, uint16(1)) // image count

	// ICONDIRENTRY (width/height bytes read 0 as 256)
	buf.WriteByte(byte(w % 256))
	buf.WriteByte(byte(h % 256))
	buf.WriteByte(0) // no palette
	buf.WriteByte(0) // reserved
	binary.Write(buf, le, uint16(1))         // planes
	binary.Write(buf, le, uint16(32))        // bits per pixel
	binary.Write(buf, le, uint32(imageSize)) // data size
	binary.Write(buf, le, uint32(6+16))      // data offset

	// BITMAPINFOHEADER with doubled height for the XOR+AND masks
	binary.Write(buf, le, uint32(40))
	binary.Write(buf, le, int32(w))
	binary.Write(buf, le, int32(h*2))
	binary.Write(buf, le, uint16(1))
	binary.Write(buf, le, uint16(32))
	binary.Write(buf, le, uint32(0)) // BI_RGB
	binary.Write(buf, le, uint32(0))
	binary.Write(buf, le, int32(0))
	binary.Write(buf, le, int32(0))
	binary.Write(buf, le, uint32(0))
	binary.Write(buf, le, uint32(0))

	// XOR mask: BGRA rows bottom-up.
	for y := h - 1; y >= 0; y-- {
		for x := 0; x < w; x++ {
			c := img.RGBAAt(x, y)
			buf.Write([]byte{c.B, c.G, c.R, c.A})
		}
	}

	// AND mask: zeroed, alpha carries transparency.
	buf.Write(make([]byte, andStride*h))
	return buf.Bytes()
}
