package web

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
)

var (
	ErrInvalidPath = errors.New("invalid asset path")
	ErrNotFound    = errors.New("asset not found")
)

// assetRoot is the read-only tree static files and the index template are
// loaded from. Disk roots are opened with os.OpenRoot so that neither ".."
// nor symlinks can reach files outside the directory.
type assetRoot struct {
	fsys  fs.FS
	root  *os.Root // nil for the embedded root
	label string
}

// openAssetRoot opens dir as asset root. An empty dir selects the embedded assets.
func openAssetRoot(dir string) (*assetRoot, error) {
	if dir == "" {
		fsys, err := embeddedAssets()
		if err != nil {
			return nil, fmt.Errorf("embedded assets: %w", err)
		}
		return &assetRoot{fsys: fsys, label: "embedded"}, nil
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open static dir %q: %w", dir, err)
	}
	return &assetRoot{fsys: root.FS(), root: root, label: dir}, nil
}

func (a *assetRoot) Close() error {
	if a.root == nil {
		return nil
	}
	return a.root.Close()
}

// open returns the regular file called name together with its FileInfo.
// Directories and missing files yield ErrNotFound, anything the root refuses
// to open (e.g. a symlink leading outside of it) yields ErrInvalidPath.
func (a *assetRoot) open(name string) (fs.File, fs.FileInfo, error) {
	f, err := a.fsys.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, fmt.Errorf("%w: %s is not a regular file", ErrNotFound, name)
	}
	return f, info, nil
}

// cleanAssetPath maps a request URL path to a name inside the asset root.
// Any ".." segment is refused outright instead of being cleaned away, as are
// backslashes and NUL bytes.
func cleanAssetPath(urlPath string) (string, error) {
	if !strings.HasPrefix(urlPath, "/") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, urlPath)
	}
	if strings.ContainsAny(urlPath, "\\\x00") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, urlPath)
	}
	for _, segment := range strings.Split(urlPath, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidPath, urlPath)
		}
	}

	name := strings.TrimPrefix(path.Clean(urlPath), "/")
	if name == "" {
		// the root itself is a directory
		return "", fmt.Errorf("%w: %q", ErrNotFound, urlPath)
	}
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, urlPath)
	}
	return name, nil
}

// contentTypes maps lower-case file extensions to MIME types. Kept explicit
// so responses do not depend on the host's mime.types files.
var contentTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".htm":   "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "application/javascript",
	".mjs":   "application/javascript",
	".json":  "application/json",
	".map":   "application/json",
	".txt":   "text/plain; charset=utf-8",
	".xml":   "application/xml",
	".ico":   "image/x-icon",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".webp":  "image/webp",
	".wasm":  "application/wasm",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".mp3":   "audio/mpeg",
	".wav":   "audio/wav",
	".ogg":   "audio/ogg",
	".mp4":   "video/mp4",
}

// getContentType returns the MIME type for filePath based on its extension
func getContentType(filePath string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(filePath))]; ok {
		return ct
	}
	return "application/octet-stream"
}
