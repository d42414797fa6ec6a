package utils

import (
	"fmt"
	"net/url"
	"os"
	"path"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// InferOutputPath derives a file name from the last path segment of link.
func InferOutputPath(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return "download"
	}
	name := path.Base(parsed.Path)
	if name == "." || name == "/" || name == "" {
		return "download"
	}
	return name
}

func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// ParseBatch decodes a YAML list of entries, dropping entries without a link and
// inferring missing output paths.
func ParseBatch(data []byte) ([]BatchEntry, error) {
	var raw []BatchEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing YAML file: %v", err)
	}
	entries := make([]BatchEntry, 0, len(raw))
	for i, entry := range raw {
		if entry.Link == "" {
			log.Warn().Str("op", "utils/functions").Msgf("empty link in entry %d, skipping", i+1)
			continue
		}
		if entry.OutputPath == "" {
			entry.OutputPath = InferOutputPath(entry.Link)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func ReadBatchFile(filePath string) ([]BatchEntry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading YAML file: %v", err)
	}
	entries, err := ParseBatch(data)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("op", "utils/functions").Int("count", len(entries)).Msg("entries loaded from YAML")
	return entries, nil
}
