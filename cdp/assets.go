package cdp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/nfnt/resize"
	"github.com/patrickmn/go-cache"
	"github.com/programme-lv/resolver/conf"
	"github.com/programme-lv/resolver/logger"
	"golang.org/x/sync/singleflight"
)

type AssetKind string

const (
	KindLogo  AssetKind = "logo"
	KindPhoto AssetKind = "photo"
)

// DefaultMaxDimension bounds the longer side of served images.
const DefaultMaxDimension = 1024

type Image struct {
	Content   []byte
	MediaType string
}

// Assets serves team photos and affiliation logos from a CDP folder.
// Decoded and downscaled images are cached for a few minutes.
type Assets struct {
	dir          string
	logoExt      string
	photoExt     string
	maxDimension uint

	cache   *cache.Cache
	sfGroup singleflight.Group
}

func NewAssets(dir string, p conf.Presentation, maxDimension uint) *Assets {
	return &Assets{
		dir:          dir,
		logoExt:      p.LogoExtension,
		photoExt:     p.TeamPhotoExtension,
		maxDimension: maxDimension,
		cache:        cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (a *Assets) Logo(ctx context.Context, organizationID string) (Image, error) {
	return a.get(ctx, KindLogo, organizationID)
}

func (a *Assets) Photo(ctx context.Context, teamID string) (Image, error) {
	return a.get(ctx, KindPhoto, teamID)
}

func (a *Assets) path(kind AssetKind, id string) string {
	if kind == KindLogo {
		return LogoPath(a.dir, id, a.logoExt)
	}
	return PhotoPath(a.dir, id, a.photoExt)
}

func (a *Assets) get(ctx context.Context, kind AssetKind, id string) (Image, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return Image{}, ErrAssetNotFound(kind, id)
	}

	key := fmt.Sprintf("%s:%s", kind, id)
	if cached, found := a.cache.Get(key); found {
		if img, ok := cached.(Image); ok {
			return img, nil
		}
	}

	res, err, _ := a.sfGroup.Do(key, func() (interface{}, error) {
		if cached, found := a.cache.Get(key); found {
			if img, ok := cached.(Image); ok {
				return img, nil
			}
		}
		img, err := a.load(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		a.cache.Set(key, img, cache.DefaultExpiration)
		return img, nil
	})
	if err != nil {
		return Image{}, err
	}
	return res.(Image), nil
}

func (a *Assets) load(ctx context.Context, kind AssetKind, id string) (Image, error) {
	path := a.path(kind, id)
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Image{}, ErrAssetNotFound(kind, id)
	}
	if err != nil {
		return Image{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	mType := mimetype.Detect(content)
	if !strings.HasPrefix(mType.String(), "image/") {
		return Image{}, ErrUnsupportedImage(mType.String())
	}

	img := Image{Content: content, MediaType: mType.String()}
	if a.maxDimension == 0 || !(mType.Is("image/jpeg") || mType.Is("image/png")) {
		return img, nil
	}

	scaled, err := downscale(content, mType.String(), a.maxDimension)
	if err != nil {
		return Image{}, fmt.Errorf("failed to downscale %s: %w", path, err)
	}
	if scaled != nil {
		logger.FromContext(ctx).Debug("downscaled asset",
			"kind", kind,
			"id", id,
			"original_size", len(content),
			"size", len(scaled))
		img.Content = scaled
	}
	return img, nil
}

// downscale returns nil when the image already fits.
func downscale(content []byte, mediaType string, maxDimension uint) ([]byte, error) {
	var img image.Image
	var err error
	switch mediaType {
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(content))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(content))
	default:
		return nil, ErrUnsupportedImage(mediaType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if uint(b.Dx()) <= maxDimension && uint(b.Dy()) <= maxDimension {
		return nil, nil
	}
	resized := resize.Thumbnail(maxDimension, maxDimension, img, resize.Lanczos3)

	var buf bytes.Buffer
	if mediaType == "image/png" {
		err = png.Encode(&buf, resized)
	} else {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
