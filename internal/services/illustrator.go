package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"
)

// Illustrator turns a prompt into an image URL. It never fails: the
// placeholder image is returned when generation is unavailable.
type Illustrator interface {
	Illustrate(ctx context.Context, prompt string) string
}

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="1024" height="768" viewBox="0 0 1024 768">` +
	`<rect width="1024" height="768" fill="#1b1d2a"/>` +
	`<circle cx="780" cy="180" r="90" fill="#e8e4c9"/>` +
	`<path d="M0 620 L160 470 L300 600 L470 420 L640 610 L820 480 L1024 640 L1024 768 L0 768 Z" fill="#0d0e16"/>` +
	`<text x="512" y="720" font-family="serif" font-size="36" fill="#8a8aa3" text-anchor="middle">The village sleeps</text>` +
	`</svg>`

var placeholderURL = DataURL("image/svg+xml", []byte(placeholderSVG))

// PlaceholderImage returns the fixed fallback image as a data URL.
func PlaceholderImage() string {
	return placeholderURL
}

// DataURL encodes data as a base64 data URL.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// GeneratedIllustrator renders images through an ImageClient.
type GeneratedIllustrator struct {
	client ImageClient
	logger *slog.Logger
}

var _ Illustrator = (*GeneratedIllustrator)(nil)

func NewGeneratedIllustrator(client ImageClient, logger *slog.Logger) *GeneratedIllustrator {
	return &GeneratedIllustrator{client: client, logger: logger}
}

func (g *GeneratedIllustrator) Illustrate(ctx context.Context, prompt string) string {
	img, err := g.client.GenerateImage(ctx, prompt)
	if err != nil {
		g.logger.Warn("Image generation failed, using placeholder", "error", err)
		return PlaceholderImage()
	}
	if img == nil || len(img.Data) == 0 {
		g.logger.Warn("Image generation returned no data, using placeholder")
		return PlaceholderImage()
	}
	mimeType := img.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}
	return DataURL(mimeType, img.Data)
}

// PlaceholderIllustrator always returns the placeholder image.
type PlaceholderIllustrator struct{}

var _ Illustrator = PlaceholderIllustrator{}

func (PlaceholderIllustrator) Illustrate(context.Context, string) string {
	return PlaceholderImage()
}

const imageCacheKeyPrefix = "image:"

// CachedIllustrator memoizes another illustrator's results by prompt.
// Cache errors are logged and otherwise ignored.
type CachedIllustrator struct {
	next   Illustrator
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

var _ Illustrator = (*CachedIllustrator)(nil)

func NewCachedIllustrator(next Illustrator, cache Cache, ttl time.Duration, logger *slog.Logger) *CachedIllustrator {
	return &CachedIllustrator{next: next, cache: cache, ttl: ttl, logger: logger}
}

func imageCacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return imageCacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachedIllustrator) Illustrate(ctx context.Context, prompt string) string {
	key := imageCacheKey(prompt)

	cached, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Image cache read failed", "key", key, "error", err)
	} else if strings.HasPrefix(cached, "data:") {
		c.logger.Debug("Image cache hit", "key", key)
		return cached
	}

	url := c.next.Illustrate(ctx, prompt)
	if url == PlaceholderImage() {
		return url
	}
	if err := c.cache.Set(ctx, key, url, c.ttl); err != nil {
		c.logger.Warn("Image cache write failed", "key", key, "error", err)
	}
	return url
}
