package forms

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const InvalidUploadMessage = "Please select a PDF, TXT, or DOC file"

var (
	ErrNoFiles = errors.New("no files selected")
	// ErrInvalidFileType marks a path whose extension cannot be uploaded.
	ErrInvalidFileType = errors.New(InvalidUploadMessage)
)

var uploadExtensions = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".doc":  true,
	".docx": true,
}

// ValidateUploads checks that every path is an existing regular file with
// a supported document extension.
func ValidateUploads(paths []string) error {
	if len(paths) == 0 {
		return ErrNoFiles
	}

	for _, path := range paths {
		if !uploadExtensions[strings.ToLower(filepath.Ext(path))] {
			return fmt.Errorf("%s: %w", path, ErrInvalidFileType)
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("%s is not a regular file", path)
		}
	}

	return nil
}
