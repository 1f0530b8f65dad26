package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"campustrace-backend-go/internal/imaging"
	"campustrace-backend-go/internal/models"
	"campustrace-backend-go/pkg/cache"
)

// DefaultReferenceURLs maps each category to a style reference photo.
var DefaultReferenceURLs = map[string]string{
	models.CategoryElectronics: "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?w=512",
	models.CategoryApparel:     "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=512",
	models.CategoryStationery:  "https://images.unsplash.com/photo-1583485088034-697b5bc54ccd?w=512",
	models.CategoryKeys:        "https://images.unsplash.com/photo-1582139329536-e7284fece509?w=512",
	models.CategoryWallets:     "https://images.unsplash.com/photo-1627123424574-724758594e93?w=512",
	models.CategoryOther:       "https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=512",
}

const (
	referenceCacheTTL  = 24 * time.Hour
	maxReferenceBytes  = 5 << 20
	referenceKeyPrefix = "campustrace:refphoto:"
)

// ReferencePhotos downloads and caches the per-category reference photos.
type ReferencePhotos struct {
	urls   map[string]string
	cache  cache.Cache
	client *http.Client
	log    *zap.Logger
}

// NewReferencePhotos creates a ReferencePhotos. A nil urls map uses DefaultReferenceURLs.
func NewReferencePhotos(urls map[string]string, c cache.Cache, log *zap.Logger) *ReferencePhotos {
	if urls == nil {
		urls = DefaultReferenceURLs
	}
	return &ReferencePhotos{
		urls:   urls,
		cache:  c,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    log,
	}
}

// URLFor returns the reference URL for category, falling back to "other".
func (r *ReferencePhotos) URLFor(category string) string {
	if u, ok := r.urls[category]; ok {
		return u
	}
	return r.urls[models.CategoryOther]
}

// Get returns the reference photo for category.
func (r *ReferencePhotos) Get(ctx context.Context, category string) (mime string, data []byte, err error) {
	url := r.URLFor(category)
	if url == "" {
		return "", nil, fmt.Errorf("no reference photo for category %q", category)
	}

	key := referenceKeyPrefix + url
	if cached, err := r.cache.Get(ctx, key); err == nil {
		return imaging.ParseDataURI(string(cached))
	} else if !errors.Is(err, cache.ErrMiss) {
		r.log.Warn("Reference photo cache read failed", zap.String("url", url), zap.Error(err))
	}

	mime, data, err = r.fetch(ctx, url)
	if err != nil {
		return "", nil, err
	}
	if err := r.cache.Set(ctx, key, []byte(imaging.EncodeDataURI(mime, data)), referenceCacheTTL); err != nil {
		r.log.Warn("Reference photo cache write failed", zap.String("url", url), zap.Error(err))
	}
	return mime, data, nil
}

func (r *ReferencePhotos) fetch(ctx context.Context, url string) (string, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", nil, fmt.Errorf("building reference request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("fetching reference photo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("fetching reference photo: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReferenceBytes))
	if err != nil {
		return "", nil, fmt.Errorf("reading reference photo: %w", err)
	}

	mime := resp.Header.Get("Content-Type")
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	if !strings.HasPrefix(mime, "image/") {
		mime = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mime, "image/") {
		return "", nil, fmt.Errorf("reference photo has non-image content type %q", mime)
	}
	return mime, data, nil
}
