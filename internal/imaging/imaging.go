package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"

	"github.com/erazemk/passbook/internal/model"
)

// Size is the largest width and height, in points, of an image kind.
type Size struct {
	Width  int
	Height int
}

// Sizes holds the display bounds of each pass image.
var Sizes = map[model.ImageKind]Size{
	model.ImageIcon:       {29, 29},
	model.ImageLogo:       {160, 50},
	model.ImageThumbnail:  {90, 90},
	model.ImageBackground: {180, 220},
	model.ImageStrip:      {375, 123},
}

// Scale is the pixel density assets are rendered at.
const Scale = 2

// MaxUploadSize is the largest accepted source image.
const MaxUploadSize = 5 << 20

// AllowedMIME lists the accepted input MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// MIME is the type of every processed asset.
const MIME = "image/png"

// Process reads image data, validates the format by sniffing bytes,
// downscales it to fit the bounds of kind, and re-encodes it as PNG.
func Process(r io.Reader, kind model.ImageKind) ([]byte, error) {
	size, ok := Sizes[kind]
	if !ok {
		return nil, &model.InvalidEnumValueError{Attribute: "image", Value: string(kind)}
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, fmt.Errorf("image larger than %d bytes", MaxUploadSize)
	}

	// Sniff actual MIME type from bytes (not trusting client headers).
	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	return encode(fit(img, size.Width*Scale, size.Height*Scale))
}

// Render rescales a processed asset of kind to the given pixel density.
// Exports use it to derive the 1x variant of the stored 2x asset.
func Render(data []byte, kind model.ImageKind, scale int) ([]byte, error) {
	size, ok := Sizes[kind]
	if !ok {
		return nil, &model.InvalidEnumValueError{Attribute: "image", Value: string(kind)}
	}
	if scale < 1 {
		return nil, fmt.Errorf("invalid scale %d", scale)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding asset: %w", err)
	}
	return encode(fit(img, size.Width*scale, size.Height*scale))
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// fit resizes the image so it fits within maxW x maxH, preserving the aspect
// ratio. Uses high-quality Catmull-Rom interpolation.
// Returns the original image if already within bounds.
func fit(img image.Image, maxW, maxH int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxW && h <= maxH {
		return img
	}

	newW, newH := maxW, h*maxW/w
	if newH > maxH {
		newW, newH = w*maxH/h, maxH
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	// Register decoders (jpeg is registered by default, but be explicit).
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
