package media

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adelhazem/storefront/internal/api"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSquareJPEG(t *testing.T) {
	t.Parallel()

	out, err := SquareJPEG(pngBytes(t, 1200, 600), TargetSize)
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, TargetSize, img.Bounds().Dx())
	assert.Equal(t, TargetSize, img.Bounds().Dy())
}

func TestSquareJPEGBadData(t *testing.T) {
	t.Parallel()

	_, err := SquareJPEG([]byte("not an image"), TargetSize)
	require.Error(t, err)
}

func TestTempIDs(t *testing.T) {
	t.Parallel()

	id := NewTempID()
	assert.True(t, IsTempID(id))
	assert.False(t, IsTempID("media-123"))
	assert.NotEqual(t, id, NewTempID())
}

func TestStagingReset(t *testing.T) {
	t.Parallel()

	st := NewStaging()
	p := st.Add("a.png", "image/png", []byte("x"))
	st.Add("b.png", "image/png", []byte("y"))
	assert.Equal(t, 2, st.Len())

	got, ok := st.Get(p.TempID)
	require.True(t, ok)
	assert.Equal(t, "a.png", got.FileName)

	st.Reset()
	assert.Equal(t, 0, st.Len())
	_, ok = st.Get(p.TempID)
	assert.False(t, ok)
}

func TestUploadAllReplacesTempEntries(t *testing.T) {
	t.Parallel()

	var uploads int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		uploads++

		assert.Equal(t, "prod-1", r.FormValue("ownerId"))
		assert.Equal(t, "image/jpeg", r.FormValue("ContentType"))
		size, err := strconv.ParseInt(r.FormValue("SizeInBytes"), 10, 64)
		require.NoError(t, err)
		assert.Greater(t, size, int64(0))

		json.NewEncoder(w).Encode(api.ProductMedia{
			ID:        "media-" + strconv.Itoa(uploads),
			FileName:  r.FormValue("FileName"),
			IsPrimary: r.FormValue("isPrimary") == "true",
		})
	}))
	defer srv.Close()

	st := NewStaging()
	p := st.Add("photo.png", "image/png", pngBytes(t, 100, 80))
	p.IsPrimary = true

	records, err := st.UploadAll(context.Background(), api.NewClient(srv.URL), "prod-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, IsTempID(records[0].ID))
	assert.Equal(t, "photo.jpg", records[0].FileName)
	assert.True(t, records[0].IsPrimary)
	assert.Equal(t, 0, st.Len())
}

func TestSetPrimarySingleSelect(t *testing.T) {
	t.Parallel()

	media := []api.ProductMedia{
		{ID: "m1", IsPrimary: true},
		{ID: "m2"},
		{ID: "m3", IsPrimary: true},
	}
	SetPrimary(media, "m2")

	assert.False(t, media[0].IsPrimary)
	assert.True(t, media[1].IsPrimary)
	assert.False(t, media[2].IsPrimary)
}
