package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"testing"

	"github.com/erazemk/passbook/internal/model"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	return img.Bounds().Dx(), img.Bounds().Dy()
}

func TestProcessOutputsPNG(t *testing.T) {
	for _, src := range [][]byte{createTestJPEG(40, 40), createTestPNG(40, 40)} {
		data, err := Process(bytes.NewReader(src), model.ImageThumbnail)
		if err != nil {
			t.Fatalf("Process: %v", err)
		}
		if mime := http.DetectContentType(data); mime != MIME {
			t.Errorf("expected %s, got %s", MIME, mime)
		}
	}
}

func TestProcessFitsKindBounds(t *testing.T) {
	tests := []struct {
		kind         model.ImageKind
		w, h         int
		wantW, wantH int
	}{
		{model.ImageIcon, 100, 100, 58, 58},
		{model.ImageIcon, 20, 20, 20, 20},
		{model.ImageStrip, 2000, 500, 750, 187},
		{model.ImageLogo, 320, 320, 100, 100},
		{model.ImageBackground, 360, 880, 180, 440},
	}

	for _, tt := range tests {
		data, err := Process(bytes.NewReader(createTestPNG(tt.w, tt.h)), tt.kind)
		if err != nil {
			t.Fatalf("Process %s: %v", tt.kind, err)
		}
		w, h := decodedSize(t, data)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("%s %dx%d: expected %dx%d, got %dx%d", tt.kind, tt.w, tt.h, tt.wantW, tt.wantH, w, h)
		}
	}
}

func TestProcessInvalidFormat(t *testing.T) {
	if _, err := Process(bytes.NewReader([]byte("not an image")), model.ImageIcon); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestProcessGIFRejected(t *testing.T) {
	if _, err := Process(bytes.NewReader([]byte("GIF89a...")), model.ImageIcon); err == nil {
		t.Error("expected error for GIF")
	}
}

func TestProcessUnknownKind(t *testing.T) {
	if _, err := Process(bytes.NewReader(createTestPNG(10, 10)), "banner"); err == nil {
		t.Error("expected error for unknown image kind")
	}
}

func TestAssetsSaveAndRead(t *testing.T) {
	assets := Assets{Dir: t.TempDir()}

	path, err := assets.Save(7, model.ImageLogo, []byte("png bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != "7/logo.png" {
		t.Errorf("expected asset path '7/logo.png', got %q", path)
	}

	data, err := assets.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != "png bytes" {
		t.Errorf("unexpected asset contents %q", data)
	}

	if _, err := assets.Path("../outside.png"); err == nil {
		t.Error("expected error for path escaping the asset directory")
	}
	if _, err := assets.Path("/etc/passwd"); err == nil {
		t.Error("expected error for absolute path")
	}
}

func TestAssetsRemove(t *testing.T) {
	assets := Assets{Dir: t.TempDir()}

	path, err := assets.Save(3, model.ImageIcon, []byte("icon"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := assets.Remove(3); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := assets.Read(path); err == nil {
		t.Error("expected asset to be gone after Remove")
	}
	if err := assets.Remove(99); err != nil {
		t.Errorf("Remove of a pass without assets: %v", err)
	}
}

func TestRenderScalesDown(t *testing.T) {
	data, err := Process(bytes.NewReader(createTestPNG(400, 400)), model.ImageThumbnail)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if w, h := decodedSize(t, data); w != 180 || h != 180 {
		t.Fatalf("expected 180x180 asset, got %dx%d", w, h)
	}

	small, err := Render(data, model.ImageThumbnail, 1)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if w, h := decodedSize(t, small); w != 90 || h != 90 {
		t.Errorf("expected 90x90 at 1x, got %dx%d", w, h)
	}

	if _, err := Render(data, model.ImageThumbnail, 0); err == nil {
		t.Error("expected error for scale 0")
	}
	if _, err := Render([]byte("junk"), model.ImageThumbnail, 1); err == nil {
		t.Error("expected error for undecodable asset")
	}
}
