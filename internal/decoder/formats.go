package decoder

import (
	"path/filepath"
	"sort"
	"strings"
)

// Kind is the decode strategy chosen for a file from its extension.
type Kind int

const (
	// KindRaster is any format handled by the registered image decoders.
	KindRaster Kind = iota
	// KindRaw is a camera sensor dump that must be developed first.
	KindRaw
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	default:
		return "raster"
	}
}

// Camera RAW extensions, lower case with the leading dot.
var rawExtensions = map[string]string{
	".3fr": "Hasselblad",
	".arw": "Sony",
	".cr2": "Canon",
	".cr3": "Canon",
	".dng": "Adobe Digital Negative",
	".fff": "Hasselblad",
	".iiq": "Phase One",
	".k25": "Kodak",
	".kdc": "Kodak",
	".mef": "Mamiya",
	".mos": "Leaf",
	".mrw": "Minolta",
	".nef": "Nikon",
	".nrw": "Nikon",
	".orf": "Olympus",
	".pef": "Pentax",
	".ptx": "Pentax",
	".r3d": "RED",
	".raf": "Fujifilm",
	".raw": "Generic RAW",
	".rw2": "Panasonic",
	".rwl": "Leica",
	".rwz": "Rawzor",
	".sr2": "Sony",
	".srf": "Sony",
	".srw": "Samsung",
	".x3f": "Sigma",
}

// Standard raster extensions accepted for upload.
var rasterExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".webp"}

// Extensions the raster decoders understand; a superset of the upload list.
var decodableExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {},
	".bmp": {}, ".tif": {}, ".tiff": {}, ".webp": {},
}

// KindOf picks the decode strategy for path. The match is case-insensitive.
func KindOf(path string) Kind {
	if IsRawExtension(filepath.Ext(path)) {
		return KindRaw
	}
	return KindRaster
}

// IsRawExtension reports whether ext (with or without the dot) is a RAW format.
func IsRawExtension(ext string) bool {
	_, ok := rawExtensions[normalizeExt(ext)]
	return ok
}

// IsRasterExtension reports whether ext is one of the raster upload formats.
func IsRasterExtension(ext string) bool {
	ext = normalizeExt(ext)
	for _, e := range rasterExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// RawVendor returns the camera vendor associated with a RAW extension.
func RawVendor(ext string) string {
	return rawExtensions[normalizeExt(ext)]
}

// RawExtensions returns the RAW extensions in sorted order.
func RawExtensions() []string {
	exts := make([]string, 0, len(rawExtensions))
	for ext := range rawExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// RasterExtensions returns the raster upload extensions.
func RasterExtensions() []string {
	out := make([]string, len(rasterExtensions))
	copy(out, rasterExtensions)
	return out
}

func isDecodableExtension(ext string) bool {
	_, ok := decodableExtensions[normalizeExt(ext)]
	return ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
