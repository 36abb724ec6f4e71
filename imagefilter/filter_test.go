package imagefilter_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sagarc03/todos"
	"github.com/sagarc03/todos/imagefilter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newImageServer(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/image.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	})
	mux.HandleFunc("/text", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not an image"))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestFilter_ResizesAndGreyscales(t *testing.T) {
	srv := newImageServer(t, pngBytes(t, 640, 480, color.RGBA{R: 200, G: 40, B: 40, A: 255}))
	f := imagefilter.New(imagefilter.Config{Enabled: true, AllowPrivateNetworks: true})

	out, err := f.Filter(context.Background(), srv.URL+"/image.png")
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, imagefilter.DefaultWidth, cfg.Width)
	assert.Equal(t, imagefilter.DefaultHeight, cfg.Height)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	r, g, b, _ := img.At(128, 128).RGBA()
	assert.LessOrEqual(t, absDiff(r, g)>>8, uint32(3))
	assert.LessOrEqual(t, absDiff(g, b)>>8, uint32(3))
}

func TestFilter_CustomSize(t *testing.T) {
	srv := newImageServer(t, pngBytes(t, 32, 32, color.White))
	f := imagefilter.New(imagefilter.Config{Width: 64, Height: 48, Quality: 90, AllowPrivateNetworks: true})

	out, err := f.Filter(context.Background(), srv.URL+"/image.png")
	require.NoError(t, err)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
}

func TestFilter_InvalidURL(t *testing.T) {
	f := imagefilter.New(imagefilter.Config{})

	for _, raw := range []string{"", "not a url", "/relative/path.png", "ftp://example.com/a.png", "https://"} {
		t.Run(raw, func(t *testing.T) {
			_, err := f.Filter(context.Background(), raw)
			assert.ErrorIs(t, err, todos.ErrInvalidInput)
		})
	}
}

func TestFilter_RemoteNotFound(t *testing.T) {
	srv := newImageServer(t, nil)
	f := imagefilter.New(imagefilter.Config{AllowPrivateNetworks: true})

	_, err := f.Filter(context.Background(), srv.URL+"/missing.png")
	assert.ErrorIs(t, err, todos.ErrInvalidInput)
}

func TestFilter_Unprocessable(t *testing.T) {
	srv := newImageServer(t, pngBytes(t, 512, 512, color.Black))

	tests := []struct {
		name string
		path string
		cfg  imagefilter.Config
	}{
		{name: "not an image", path: "/text", cfg: imagefilter.Config{AllowPrivateNetworks: true}},
		{name: "upstream error", path: "/broken", cfg: imagefilter.Config{AllowPrivateNetworks: true}},
		{name: "too large", path: "/image.png", cfg: imagefilter.Config{MaxBytes: 16, AllowPrivateNetworks: true}},
		{name: "too many pixels", path: "/image.png", cfg: imagefilter.Config{MaxPixels: 512*512 - 1, AllowPrivateNetworks: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := imagefilter.New(tt.cfg)

			_, err := f.Filter(context.Background(), srv.URL+tt.path)
			assert.ErrorIs(t, err, imagefilter.ErrUnprocessable)
			assert.NotErrorIs(t, err, todos.ErrInvalidInput)
		})
	}
}

func TestFilter_WithHTTPClient(t *testing.T) {
	body := pngBytes(t, 8, 8, color.Black)
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	f := imagefilter.New(imagefilter.Config{}, imagefilter.WithHTTPClient(srv.Client()))

	_, err := f.Filter(context.Background(), srv.URL+"/a.png")
	assert.NoError(t, err)
}

func TestFilter_PixelLimitCheckedBeforeDecode(t *testing.T) {
	// a large blank image compresses to a few KB
	img := image.NewGray(image.Rect(0, 0, 5000, 5000))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.Less(t, buf.Len(), 1<<20)

	srv := newImageServer(t, buf.Bytes())
	f := imagefilter.New(imagefilter.Config{AllowPrivateNetworks: true})

	_, err := f.Filter(context.Background(), srv.URL+"/image.png")
	require.ErrorIs(t, err, imagefilter.ErrUnprocessable)
	assert.Contains(t, err.Error(), "5000x5000")
}

func TestFilter_RejectsNonPublicHosts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("secret"))
	}))
	t.Cleanup(srv.Close)

	f := imagefilter.New(imagefilter.Config{})

	for _, raw := range []string{
		srv.URL + "/latest/meta-data/",
		"http://169.254.169.254/latest/meta-data/",
		"http://10.0.0.1/image.png",
	} {
		t.Run(raw, func(t *testing.T) {
			_, err := f.Filter(context.Background(), raw)
			assert.ErrorIs(t, err, todos.ErrInvalidInput)
			assert.ErrorIs(t, err, imagefilter.ErrForbiddenAddress)
		})
	}

	assert.Equal(t, int32(0), hits.Load())
}
