package rdbuild

import (
	"context"
	"fmt"
	"path/filepath"
)

// publishArchive pushes the bundle archive to the configured R2 bucket.
// Unconfigured credentials or a missing archive make this a silent no-op;
// publication is strictly best-effort.
func publishArchive(ctx context.Context, cfg *Config, archivePath string) error {
	if archivePath == "" {
		debugf("No archive produced, skipping publish\n")
		return nil
	}
	if !cfg.hasR2() {
		debugf("R2 credentials not configured, skipping publish\n")
		return nil
	}

	r2, err := NewR2Client(cfg)
	if err != nil {
		return err
	}

	key := filepath.Base(archivePath)
	colArrow.Print("-> ")
	colSuccess.Printf("Uploading to R2: %s\n", key)
	if err := r2.UploadLocalFile(ctx, key, archivePath); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	colArrow.Print("-> ")
	colSuccess.Println("Archive published")
	return nil
}
