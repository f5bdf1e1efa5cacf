package catalog

// ImageSize is the CDN size token used in poster and backdrop URLs.
type ImageSize string

const (
	ImageSizeW500     ImageSize = "w500"
	ImageSizeOriginal ImageSize = "original"
)

// ImageURLBuilder constructs CDN image URLs from a fixed base path, a size
// token and the relative path supplied by the detail endpoint.
type ImageURLBuilder struct {
	baseURL string
}

func NewImageURLBuilder(baseURL string) ImageURLBuilder {
	return ImageURLBuilder{baseURL: baseURL}
}

// URL returns the full image URL, or "" for an absent path; the surface
// renders a placeholder in that case.
func (b ImageURLBuilder) URL(size ImageSize, path string) string {
	if path == "" {
		return ""
	}

	return b.baseURL + "/t/p/" + string(size) + path
}

func (b ImageURLBuilder) Poster(path string) string {
	return b.URL(ImageSizeW500, path)
}

func (b ImageURLBuilder) Backdrop(path string) string {
	return b.URL(ImageSizeOriginal, path)
}

func (b ImageURLBuilder) Logo(path string) string {
	return b.URL(ImageSizeW500, path)
}
