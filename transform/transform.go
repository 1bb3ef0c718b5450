// Package transform decodes uploaded images and re-encodes them for the resize, convert and compress tools.
package transform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/gift"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	DefaultConvertQuality  = 80
	DefaultCompressQuality = 60

	// MaxDimension bounds requested width and height.
	MaxDimension = 16384
)

type Tool string

const (
	ToolResize   Tool = "resize"
	ToolConvert  Tool = "convert"
	ToolCompress Tool = "compress"
)

// Operation describes a single transform. Zero Width, Height or Quality means "not given".
type Operation struct {
	Tool      Tool
	Width     int
	Height    int
	Quality   int
	Format    Format
	InputType string
}

type Result struct {
	Data   []byte
	Format Format
}

func (r *Result) ContentType() string {
	return r.Format.ContentType()
}

type Transformer interface {
	Transform(ctx context.Context, input []byte, op Operation) (*Result, error)
}

// Engine is the in-process Transformer. It holds no state and is safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Transform(ctx context.Context, input []byte, op Operation) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(input), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	switch op.Tool {
	case ToolResize:
		return resize(img, op)
	case ToolConvert:
		return convert(img, op)
	case ToolCompress:
		return compress(img, op)
	default:
		return nil, fmt.Errorf("unknown tool %q", op.Tool)
	}
}

func resize(img image.Image, op Operation) (*Result, error) {
	if op.Width < 0 || op.Height < 0 || op.Width > MaxDimension || op.Height > MaxDimension {
		return nil, fmt.Errorf("dimensions out of range: %dx%d", op.Width, op.Height)
	}

	b := img.Bounds()
	w, h := fitInside(b.Dx(), b.Dy(), op.Width, op.Height)
	if w != b.Dx() || h != b.Dy() {
		img = processImage(img, gift.Resize(w, h, gift.LanczosResampling))
	}

	var opts []imaging.EncodeOption
	if op.Quality > 0 {
		opts = append(opts, imaging.JPEGQuality(op.Quality))
	}
	return encode(img, FormatJPEG, opts...)
}

func convert(img image.Image, op Operation) (*Result, error) {
	quality := qualityOr(op.Quality, DefaultConvertQuality)

	switch op.Format {
	case FormatJPEG:
		return encode(img, FormatJPEG, imaging.JPEGQuality(quality))
	case FormatPNG:
		return encode(img, FormatPNG)
	case FormatWebP:
		var buf bytes.Buffer
		if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
			return nil, fmt.Errorf("failed to encode webp: %w", err)
		}
		return &Result{Data: buf.Bytes(), Format: FormatWebP}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

func compress(img image.Image, op Operation) (*Result, error) {
	if op.InputType == FormatPNG.ContentType() {
		return encode(img, FormatPNG, imaging.PNGCompressionLevel(png.BestCompression))
	}
	return encode(img, FormatJPEG, imaging.JPEGQuality(qualityOr(op.Quality, DefaultCompressQuality)))
}

func processImage(src image.Image, filters ...gift.Filter) image.Image {
	g := gift.New(filters...)
	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}

func encode(img image.Image, f Format, opts ...imaging.EncodeOption) (*Result, error) {
	var imgFormat imaging.Format
	switch f {
	case FormatJPEG:
		imgFormat = imaging.JPEG
	case FormatPNG:
		imgFormat = imaging.PNG
	default:
		return nil, errors.New("encode: no imaging encoder for " + string(f))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imgFormat, opts...); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", f, err)
	}
	return &Result{Data: buf.Bytes(), Format: f}, nil
}

// fitInside scales srcW x srcH to fit within maxW x maxH keeping the aspect ratio.
// A zero bound is unconstrained. The result never exceeds the source size.
func fitInside(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return srcW, srcH
	}

	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(srcW))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(srcH))
	}
	if scale >= 1 {
		return srcW, srcH
	}

	w := int(math.Round(float64(srcW) * scale))
	h := int(math.Round(float64(srcH) * scale))
	return max(w, 1), max(h, 1)
}

func qualityOr(q, def int) int {
	if q <= 0 {
		return def
	}
	return min(q, 100)
}
