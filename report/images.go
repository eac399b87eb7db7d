package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif" // register decoders for section images
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
)

// imageLoader fetches and decodes section images. Resolved images are
// cached by URL so a payload referencing the same asset twice fetches once.
type imageLoader struct {
	client *http.Client
	cache  map[string]image.Image
}

func newImageLoader(client *http.Client) *imageLoader {
	return &imageLoader{client: client, cache: make(map[string]image.Image)}
}

// Load resolves an image by URL. Supported schemes are http, https, file,
// and bare paths.
func (l *imageLoader) Load(ctx context.Context, url string) (image.Image, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("empty image url")
	}
	if img, ok := l.cache[url]; ok {
		return img, nil
	}

	var data []byte
	var err error
	switch {
	case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
		data, err = fetchBytes(ctx, l.client, url)
	case strings.HasPrefix(url, "file://"):
		data, err = os.ReadFile(strings.TrimPrefix(url, "file://"))
	case strings.Contains(url, "://"):
		return nil, fmt.Errorf("unsupported image scheme in %q", url)
	default:
		data, err = os.ReadFile(url)
	}
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", url, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", url, err)
	}
	l.cache[url] = img
	return img, nil
}

func fetchBytes(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
