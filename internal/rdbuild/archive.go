package rdbuild

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
)

// archiveExt maps a compression format name to the file extension it
// produces.
func archiveExt(format string) (string, error) {
	switch format {
	case "gzip", "gz", "":
		return "gz", nil
	case "xz":
		return "xz", nil
	case "zstd", "zst":
		return "zst", nil
	default:
		return "", fmt.Errorf("unknown compression format %q (want gzip, xz or zstd)", format)
	}
}

// newCompressor wraps w in the configured compressor.
func newCompressor(w io.Writer, format string) (io.WriteCloser, error) {
	switch format {
	case "gzip", "gz", "":
		return pgzip.NewWriter(w), nil
	case "xz":
		xw, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		return xw, nil
	case "zstd", "zst":
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zw, nil
	default:
		return nil, fmt.Errorf("unknown compression format %q (want gzip, xz or zstd)", format)
	}
}

// packageBundle tars up bundle/ into rdmind-<version>-<arch>.tar.<ext> at the
// project root. Returns the empty string when archiving is not enabled.
func packageBundle() (string, error) {
	if !ArchiveWant {
		return "", nil
	}
	bundle := inRoot("bundle")
	if !pathExists(bundle) {
		return "", fmt.Errorf("cannot archive: %s does not exist", bundle)
	}

	ext, err := archiveExt(CompressWant)
	if err != nil {
		return "", err
	}
	out := inRoot(fmt.Sprintf("rdmind-%s-%s.tar.%s", version, arch, ext))

	outFile, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer outFile.Close()

	cw, err := newCompressor(outFile, CompressWant)
	if err != nil {
		return "", err
	}

	tw := tar.NewWriter(cw)
	if err := tarDirectory(tw, bundle); err != nil {
		tw.Close()
		cw.Close()
		return "", err
	}
	if err := tw.Close(); err != nil {
		cw.Close()
		return "", fmt.Errorf("failed to finalize tar stream: %w", err)
	}
	if err := cw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize compressed stream: %w", err)
	}

	colArrow.Print("-> ")
	colSuccess.Printf("Bundle archive created: %s\n", out)
	return out, nil
}

// tarDirectory walks dir and writes its contents into tw with portable
// numeric root ownership, so the archive unpacks identically everywhere.
func tarDirectory(tw *tar.Writer, dir string) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		var linkTarget string
		if info.Mode()&os.ModeSymlink != 0 {
			linkTarget, err = os.Readlink(path)
			if err != nil {
				return fmt.Errorf("readlink %s: %w", path, err)
			}
		}

		hdr, err := tar.FileInfoHeader(info, linkTarget)
		if err != nil {
			return err
		}

		if rel == "." {
			hdr.Name = "./"
			hdr.Mode = 0755
		} else {
			hdr.Name = rel
		}

		// Archives must unpack the same for everyone: force numeric root
		// ownership on every entry.
		hdr.Uid, hdr.Gid = 0, 0
		hdr.Uname, hdr.Gname = "root", "root"

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		if rel == "." {
			return nil
		}

		if info.Mode().IsRegular() {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			if _, err := io.Copy(tw, f); err != nil {
				f.Close()
				return err
			}
			f.Close()
		}
		return nil
	})
}
