package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("tga: pixel data truncated")

// tgaHeader is the subset of the TGA header the decoder needs.
type tgaHeader struct {
	idLength    int
	colorMap    byte
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func parseTGAHeader(data []byte) (tgaHeader, error) {
	if len(data) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("tga: header needs %d bytes, got %d", tgaHeaderSize, len(data))
	}
	h := tgaHeader{
		idLength:  int(data[0]),
		colorMap:  data[1],
		imageType: data[2],
		width:     int(data[12]) | int(data[13])<<8,
		height:    int(data[14]) | int(data[15])<<8,
		bpp:       int(data[16]),
		// bit 5 of the descriptor selects top-to-bottom row order
		topToBottom: data[17]&0x20 != 0,
	}
	switch {
	case h.colorMap != 0:
		return h, fmt.Errorf("tga: color-mapped images not supported")
	case h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE:
		return h, fmt.Errorf("tga: unsupported image type %d", h.imageType)
	case h.bpp != 24 && h.bpp != 32:
		return h, fmt.Errorf("tga: unsupported bit depth %d", h.bpp)
	}
	return h, nil
}

// DecodeTGA decodes an uncompressed or RLE compressed true-color TGA file
// with 24 or 32 bits per pixel. Rows are returned top-down.
func DecodeTGA(data []byte) (*image.RGBA, error) {
	h, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}
	offset := tgaHeaderSize + h.idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	w := tgaWriter{
		img:         image.NewRGBA(image.Rect(0, 0, h.width, h.height)),
		width:       h.width,
		height:      h.height,
		stride:      h.bpp / 8,
		topToBottom: h.topToBottom,
	}
	pixels := data[offset:]
	if h.imageType == TGATypeUncompressed {
		err = w.raw(pixels)
	} else {
		err = w.rle(pixels)
	}
	if err != nil {
		return nil, err
	}
	return w.img, nil
}

// tgaWriter places BGR(A) pixels into the destination in file order.
type tgaWriter struct {
	img           *image.RGBA
	width, height int
	stride        int
	topToBottom   bool
	next          int
}

func (w *tgaWriter) total() int { return w.width * w.height }

func (w *tgaWriter) pixel(src []byte) color.RGBA {
	c := color.RGBA{R: src[2], G: src[1], B: src[0], A: 255}
	if w.stride == 4 {
		c.A = src[3]
	}
	return c
}

func (w *tgaWriter) put(c color.RGBA) {
	x := w.next % w.width
	y := w.next / w.width
	if !w.topToBottom {
		y = w.height - 1 - y
	}
	w.img.SetRGBA(x, y, c)
	w.next++
}

func (w *tgaWriter) raw(src []byte) error {
	if len(src) < w.total()*w.stride {
		return errTGATruncated
	}
	for w.next < w.total() {
		i := w.next * w.stride
		w.put(w.pixel(src[i : i+w.stride]))
	}
	return nil
}

// rle decodes run-length packets. A short stream leaves the remaining pixels
// transparent rather than failing.
func (w *tgaWriter) rle(src []byte) error {
	i := 0
	for w.next < w.total() && i < len(src) {
		packet := src[i]
		i++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			if i+w.stride > len(src) {
				break
			}
			c := w.pixel(src[i : i+w.stride])
			i += w.stride
			for n := 0; n < count && w.next < w.total(); n++ {
				w.put(c)
			}
			continue
		}

		for n := 0; n < count && w.next < w.total(); n++ {
			if i+w.stride > len(src) {
				return nil
			}
			w.put(w.pixel(src[i : i+w.stride]))
			i += w.stride
		}
	}
	return nil
}
