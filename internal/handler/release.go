package handler

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const apkContentType = "application/vnd.android.package-archive"

// ReleaseHandler serves the app version and the newest Android package for
// self-updating clients.
type ReleaseHandler struct {
	version string
	dir     string
	logger  *slog.Logger
}

func NewReleaseHandler(version, dir string, logger *slog.Logger) *ReleaseHandler {
	return &ReleaseHandler{version: version, dir: dir, logger: logger}
}

func (h *ReleaseHandler) Version(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

func (h *ReleaseHandler) APK(w http.ResponseWriter, r *http.Request) {
	path, err := newestAPK(h.dir)
	if errors.Is(err, fs.ErrNotExist) {
		writeError(w, http.StatusNotFound, "no package available")
		return
	}
	if err != nil {
		respondError(w, h.logger, err, "find package")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		respondError(w, h.logger, err, "open package")
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		respondError(w, h.logger, err, "stat package")
		return
	}

	w.Header().Set("Content-Type", apkContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeContent(w, r, filepath.Base(path), info.ModTime(), f)
}

// newestAPK returns the most recently modified *.apk in dir, or an error
// wrapping fs.ErrNotExist when there is none.
func newestAPK(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var newest string
	var newestMod time.Time
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".apk") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = filepath.Join(dir, e.Name())
			newestMod = info.ModTime()
		}
	}
	if newest == "" {
		return "", fs.ErrNotExist
	}
	return newest, nil
}
