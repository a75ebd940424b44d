package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/certex/internal/pdftext"
)

// discoverDocumentFiles finds all extractable documents under the given
// paths, honoring include/exclude patterns.
func discoverDocumentFiles(args []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var docFiles []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			files, err := discoverInDirectory(arg, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			docFiles = append(docFiles, files...)
		} else if shouldIncludeFile(arg, includePatterns, excludePatterns) {
			docFiles = append(docFiles, arg)
		}
	}

	return docFiles, nil
}

// discoverInDirectory discovers document files in a directory.
func discoverInDirectory(dir string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		if shouldIncludeFile(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}

		return nil
	}

	return files, filepath.Walk(dir, walkFn)
}

// shouldIncludeFile determines if a file should be included based on its
// type and the include/exclude patterns.
func shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	if !pdftext.IsSupported(path) {
		return false
	}

	// Exclude patterns win
	if matchesAnyPattern(path, excludePatterns) {
		return false
	}

	// No include patterns means include everything not excluded
	if len(includePatterns) == 0 {
		return true
	}

	return matchesAnyPattern(path, includePatterns)
}

// matchesAnyPattern checks if a file's base name matches any of the patterns.
func matchesAnyPattern(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
