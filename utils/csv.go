package utils

import (
	"encoding/csv"
	"fmt"
	"os"
)

// WriteFailedURLs writes the failed URLs under a failed_url header
func WriteFailedURLs(path string, urls []string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write([]string{"failed_url"}); err != nil {
		return err
	}
	for _, u := range urls {
		if err := w.Write([]string{u}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return out.Close()
}
