package integrations

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/draw"
)

// Source sites serve covers at wildly varying sizes; anything wider than
// this gets downscaled before embedding.
const maxCoverWidth = 1600

// setCover downloads, downscales and embeds the cover image. Best-effort:
// any failure leaves the book coverless.
func (b *EPubBuilder) setCover(url string) {
	raw, err := downloadCover(url)
	if err != nil {
		return
	}
	raw = downscaleCover(raw)

	tmp, err := os.CreateTemp("", "noveldl-cover-*.jpg")
	if err != nil {
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return
	}
	tmp.Close()

	internalPath, err := b.book.AddImage(tmp.Name(), "cover"+filepath.Ext(tmp.Name()))
	if err != nil {
		return
	}
	b.book.SetCover(internalPath, "")
}

func downloadCover(url string) ([]byte, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status for cover image: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// downscaleCover shrinks oversized covers, re-encoding as JPEG. Images that
// fail to decode or already fit pass through untouched.
func downscaleCover(raw []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return raw
	}
	bounds := img.Bounds()
	if bounds.Dx() <= maxCoverWidth {
		return raw
	}

	height := bounds.Dy() * maxCoverWidth / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxCoverWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return raw
	}
	return buf.Bytes()
}
