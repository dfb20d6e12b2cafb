package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rvpark-listings/internal/errors"
	"rvpark-listings/internal/model"
	"rvpark-listings/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCatalog struct {
	mu       sync.Mutex
	listings []model.ListingRecord
	featured []model.ListingRecord
	byID     map[string]*model.ListingRecord
	count    int
	gotF     model.ListingFilters
}

func (f *fakeCatalog) FetchApprovedListings(_ context.Context, filters model.ListingFilters) []model.ListingRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotF = filters
	if f.listings == nil {
		return []model.ListingRecord{}
	}
	return f.listings
}

func (f *fakeCatalog) FetchFeaturedApprovedListings(context.Context) []model.ListingRecord {
	if f.featured == nil {
		return []model.ListingRecord{}
	}
	return f.featured
}

func (f *fakeCatalog) FetchApprovedListingByID(_ context.Context, id string) *model.ListingRecord {
	return f.byID[id]
}

func (f *fakeCatalog) CountApprovedListings(context.Context) int { return f.count }

func newListingRouter(cat *fakeCatalog) *gin.Engine {
	r := gin.New()
	NewListingHandler(cat, validator.New()).RegisterRoutes(r.Group("/api"))
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestGetApprovedListings_ParsesFilters(t *testing.T) {
	cat := &fakeCatalog{listings: []model.ListingRecord{{ID: "a", Images: []string{}}}}
	r := newListingRouter(cat)

	w := get(r, "/api/listings?priceMin=100000&priceMax=500000&state=Texas&sitesMin=10&sitesMax=200&capRateMin=6.5&occupancyRateMin=70&search=lake+view")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, model.ListingFilters{
		PriceMin:         100000,
		PriceMax:         500000,
		State:            "Texas",
		SitesMin:         10,
		SitesMax:         200,
		CapRateMin:       6.5,
		OccupancyRateMin: 70,
		Search:           "lake view",
	}, cat.gotF)

	var got []model.ListingRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestGetApprovedListings_EmptyIsArray(t *testing.T) {
	w := get(newListingRouter(&fakeCatalog{}), "/api/listings")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestGetApprovedListings_RejectsBadFilters(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown key", "?city=Austin"},
		{"not a number", "?priceMin=cheap"},
		{"negative", "?sitesMin=-1"},
		{"search too long", "?search=" + strings.Repeat("x", 201)},
	}
	r := newListingRouter(&fakeCatalog{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/api/listings"+tt.query)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, string(apperrors.ErrCodeInvalidFilter), decodeError(t, w))
		})
	}
}

func TestGetListingByID(t *testing.T) {
	cat := &fakeCatalog{byID: map[string]*model.ListingRecord{"a": {ID: "a", Title: "Lakeside", Images: []string{}}}}
	r := newListingRouter(cat)

	w := get(r, "/api/listings/a")
	require.Equal(t, http.StatusOK, w.Code)
	var got model.ListingRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Lakeside", got.Title)

	w = get(r, "/api/listings/zzz")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(apperrors.ErrCodeListingNotFound), decodeError(t, w))
}

func TestFeaturedCountAndHome(t *testing.T) {
	cat := &fakeCatalog{
		featured: []model.ListingRecord{{ID: "b", Featured: true, Images: []string{}}},
		count:    4,
	}
	r := newListingRouter(cat)

	w := get(r, "/api/listings/featured")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"featured":true`)

	w = get(r, "/api/listings/count")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":4}`, w.Body.String())

	w = get(r, "/api/home")
	require.Equal(t, http.StatusOK, w.Code)
	var home HomeSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &home))
	assert.Equal(t, 4, home.TotalListings)
	require.Len(t, home.Featured, 1)
	assert.Equal(t, "b", home.Featured[0].ID)
}

type fakeModerator struct {
	pending []model.ListingRecord
	known   map[string]bool
	err     error
	calls   []string
}

func (f *fakeModerator) PendingListings(context.Context) ([]model.ListingRecord, error) {
	return f.pending, f.err
}

func (f *fakeModerator) Approve(_ context.Context, id string) error { return f.set("approve", id) }

func (f *fakeModerator) Reject(_ context.Context, id string) error { return f.set("reject", id) }

func (f *fakeModerator) set(op, id string) error {
	if !f.known[id] {
		return apperrors.NewListingNotFoundError(id)
	}
	f.calls = append(f.calls, op+":"+id)
	return nil
}

func newAdminRouter(m Moderator) *gin.Engine {
	r := gin.New()
	NewAdminHandler(m).RegisterRoutes(r.Group("/api/admin"))
	return r
}

func TestAdminHandler(t *testing.T) {
	m := &fakeModerator{known: map[string]bool{"p1": true}}
	r := newAdminRouter(m)

	w := get(r, "/api/admin/listings/pending")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/admin/listings/p1/approve", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"approved"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/admin/listings/p1/reject", nil))
	assert.JSONEq(t, `{"message":"rejected"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/admin/listings/nope/approve", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, []string{"approve:p1", "reject:p1"}, m.calls)
}

func TestAdminHandler_PendingStoreFailure(t *testing.T) {
	m := &fakeModerator{err: apperrors.NewStoreQueryFailedError("find_pending", errors.New("conn refused"))}
	w := get(newAdminRouter(m), "/api/admin/listings/pending")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, string(apperrors.ErrCodeStoreQueryFailed), decodeError(t, w))
}

type fakeImages struct {
	uploaded map[string][]byte
	primary  bool
}

func (f *fakeImages) Upload(_ context.Context, listingID, filename string, src io.Reader, primary bool) (*model.ListingImage, error) {
	if listingID != "l1" {
		return nil, apperrors.NewListingNotFoundError(listingID)
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	p := listingID + "/" + filename
	f.uploaded[p] = b
	f.primary = primary
	return &model.ListingImage{ListingID: listingID, StoragePath: p, URL: "https://cdn.test/" + p, Primary: primary}, nil
}

func (f *fakeImages) Open(_ context.Context, storagePath string) (io.ReadCloser, int64, string, error) {
	b, ok := f.uploaded[storagePath]
	if !ok {
		return nil, 0, "", apperrors.NewImageNotFoundError(storagePath)
	}
	return io.NopCloser(bytes.NewReader(b)), int64(len(b)), "image/png", nil
}

func newImageRouter(images *fakeImages) *gin.Engine {
	r := gin.New()
	h := NewImageHandler(images, "listing-images")
	h.RegisterPublicRoutes(r)
	h.RegisterAdminRoutes(r.Group("/api/admin"))
	return r
}

func multipartUpload(t *testing.T, target, filename, primary string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	if primary != "" {
		require.NoError(t, mw.WriteField("primary", primary))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestImageHandler_UploadAndDownload(t *testing.T) {
	images := &fakeImages{uploaded: map[string][]byte{}}
	r := newImageRouter(images)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "/api/admin/listings/l1/images", "gate.png", "true", []byte("pngbytes")))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.True(t, images.primary)

	var img model.ListingImage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &img))
	assert.Equal(t, "l1/gate.png", img.StoragePath)

	w = get(r, "/storage/v1/object/public/listing-images/l1/gate.png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pngbytes", w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
}

func TestImageHandler_UploadRejections(t *testing.T) {
	r := newImageRouter(&fakeImages{uploaded: map[string][]byte{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "/api/admin/listings/l1/images", "", "", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "/api/admin/listings/l1/images", "a.png", "maybe", []byte("x")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, "/api/admin/listings/ghost/images", "a.png", "", []byte("x")))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImageHandler_DownloadMisses(t *testing.T) {
	r := newImageRouter(&fakeImages{uploaded: map[string][]byte{"l1/a.png": []byte("x")}})

	assert.Equal(t, http.StatusNotFound, get(r, "/storage/v1/object/public/other-bucket/l1/a.png").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/storage/v1/object/public/listing-images/l1/missing.png").Code)
}

func TestHealthz(t *testing.T) {
	r := gin.New()
	r.GET("/healthz", Healthz)
	w := get(r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
