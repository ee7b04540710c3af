// Package models manages the local Whisper model inventory
package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lyfe2025/speech2clip-launcher/pkg/logger"
)

// ArtifactExt is the file extension of Whisper model artifacts. The filename
// stem (sans extension) is the canonical model identifier.
const ArtifactExt = ".pt"

// Catalog is the fixed set of officially supported model identifiers, in
// display and reconciliation order.
var Catalog = []string{"tiny", "base", "small", "medium", "large", "large-v3"}

// InCatalog reports whether id is a supported model identifier.
func InCatalog(id string) bool {
	for _, entry := range Catalog {
		if entry == id {
			return true
		}
	}
	return false
}

// InstalledModel is a locally present model artifact discovered by scanning.
type InstalledModel struct {
	ID   string
	Path string
	// Dir is the cache directory the artifact was discovered in
	Dir string
}

// DefaultCacheDirs returns the ordered candidate model cache directories.
// The whisper library caches under ~/.cache/whisper; ~/.speech2clip/models
// is the launcher's own location.
func DefaultCacheDirs() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(homeDir, ".cache", "whisper"),
		filepath.Join(homeDir, ".speech2clip", "models"),
	}
}

// Scan walks the cache directories in order and returns the installed models
// in discovery order. An identifier present in multiple directories is
// recorded once, from whichever directory was scanned first. Directories
// that do not exist are skipped silently.
func Scan(cacheDirs []string) []InstalledModel {
	var installed []InstalledModel
	seen := make(map[string]bool)

	for _, dir := range cacheDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ArtifactExt) {
				continue
			}

			id := strings.TrimSuffix(entry.Name(), ArtifactExt)
			if seen[id] {
				continue
			}
			seen[id] = true

			installed = append(installed, InstalledModel{
				ID:   id,
				Path: filepath.Join(dir, entry.Name()),
				Dir:  dir,
			})
		}
	}

	return installed
}

// Reconcile splits the catalog against the installed set. Downloadable
// entries preserve catalog order; installed models keep scan order.
func Reconcile(catalog []string, installed []InstalledModel) (downloadable []string, present []InstalledModel) {
	have := make(map[string]bool, len(installed))
	for _, m := range installed {
		have[m.ID] = true
	}

	for _, id := range catalog {
		if !have[id] {
			downloadable = append(downloadable, id)
		}
	}

	return downloadable, installed
}

// Delete removes the artifact backing an installed model. Failure is
// reported to the caller, never fatal to the session.
func Delete(m InstalledModel) error {
	if err := os.Remove(m.Path); err != nil {
		logger.Warning(logger.CategoryModels, "Failed to delete model %s: %v", m.ID, err)
		return fmt.Errorf("%w: %s: %v", ErrDeleteFailed, m.ID, err)
	}

	logger.Info(logger.CategoryModels, "Deleted model %s (%s)", m.ID, m.Path)
	return nil
}
