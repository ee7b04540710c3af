package models

import (
	"fmt"
	"os/exec"

	"github.com/lyfe2025/speech2clip-launcher/pkg/logger"
)

// Fetcher downloads one model by identifier. The model file format and cache
// location are owned by the speech-engine library, not reimplemented here.
type Fetcher interface {
	Fetch(id string) error
}

// WhisperFetcher delegates model downloads to the whisper library through the
// configured interpreter. whisper.load_model downloads into its own cache
// when the artifact is missing, which matches the scan convention.
type WhisperFetcher struct {
	Interpreter string
}

// Fetch downloads a single model. Network or storage failure is returned to
// the caller; a batch of fetches attempts each identifier independently.
func (f *WhisperFetcher) Fetch(id string) error {
	if !InCatalog(id) {
		return fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}

	logger.Info(logger.CategoryModels, "Downloading model %s (this may take a while)...", id)

	// Identifier is validated against the catalog above, so interpolation
	// into the snippet is safe.
	snippet := fmt.Sprintf("import whisper; whisper.load_model(%q)", id)
	cmd := exec.Command(f.Interpreter, "-c", snippet)
	cmd.Stdout = logger.GetStandardLogWriter(logger.LevelDebug, logger.CategoryModels)
	cmd.Stderr = logger.GetStandardLogWriter(logger.LevelDebug, logger.CategoryModels)

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrDownloadFailed, id, err)
	}

	logger.Info(logger.CategoryModels, "Model %s downloaded", id)
	return nil
}

// DownloadAll attempts each requested identifier independently and returns
// the failures keyed by identifier. One failed download never aborts the
// rest of the batch.
func DownloadAll(f Fetcher, ids []string) map[string]error {
	failures := make(map[string]error)

	for _, id := range ids {
		if err := f.Fetch(id); err != nil {
			logger.Warning(logger.CategoryModels, "Download failed for %s: %v", id, err)
			failures[id] = err
		}
	}

	return failures
}
