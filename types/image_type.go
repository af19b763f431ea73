package types

import "fmt"

// ImageType tells the UI how to interpret an image source. The zero value is
// ImageTypePath.
type ImageType int

const (
	// ImageTypePath is a resource path bundled with the client
	ImageTypePath ImageType = iota
	// ImageTypeURL is a remote URL
	ImageTypeURL
)

// imageTypeOrder is the order the variants are offered in choice lists
var imageTypeOrder = []ImageType{ImageTypeURL, ImageTypePath}

// String returns the persisted encoding ("path" or "url")
func (t ImageType) String() string {
	switch t {
	case ImageTypeURL:
		return "url"
	default:
		return "path"
	}
}

// Int returns the integer code used by the UI layer (path=0, url=1)
func (t ImageType) Int() int {
	if t == ImageTypeURL {
		return 1
	}
	return 0
}

// ParseImageType matches s exactly against the persisted encodings.
// Callers decide how to report a failed parse.
func ParseImageType(s string) (ImageType, bool) {
	for _, t := range imageTypeOrder {
		if t.String() == s {
			return t, true
		}
	}
	return ImageTypePath, false
}

// ImageTypeFromIndex maps a position in ImageTypeValues back to its type,
// falling back to ImageTypePath for out of range indexes.
func ImageTypeFromIndex(i int) ImageType {
	if i < 0 || i >= len(imageTypeOrder) {
		return ImageTypePath
	}
	return imageTypeOrder[i]
}

// ImageTypeValues lists every valid encoding, for building choice lists and
// error messages.
func ImageTypeValues() []string {
	values := make([]string, len(imageTypeOrder))
	for i, t := range imageTypeOrder {
		values[i] = t.String()
	}
	return values
}

// MarshalText implements encoding.TextMarshaler
func (t ImageType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *ImageType) UnmarshalText(text []byte) error {
	parsed, ok := ParseImageType(string(text))
	if !ok {
		return fmt.Errorf("invalid image type %q, supported types are: %v", string(text), ImageTypeValues())
	}
	*t = parsed
	return nil
}
