package cli

import (
	"github.com/toyz/mapkey/internal/generator"
	"github.com/toyz/mapkey/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner(fileProcessor *utils.FileProcessor) *Cleaner {
	return &Cleaner{
		fileProcessor: fileProcessor,
	}
}

// CleanGeneratedFiles removes every generated registration file below the
// given directories and returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	baseDirs := make([]string, 0, len(directories))
	for _, dir := range directories {
		baseDir, _ := splitPattern(dir)
		baseDirs = append(baseDirs, baseDir)
	}
	return c.fileProcessor.CleanDirectories(baseDirs, generator.OutputFile)
}
