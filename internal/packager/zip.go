package packager

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// executableNames are always archived with mode 0755
var executableNames = map[string]bool{
	BootstrapName: true,
}

// ZipDirectory writes every regular file under srcDir into a zip at dest.
// Entry names are relative to srcDir and slash separated.
func ZipDirectory(srcDir, dest string) error {
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", dest, err)
	}

	zw := zip.NewWriter(out)

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		return addFile(zw, path, filepath.ToSlash(rel))
	})

	closeErr := zw.Close()
	fileErr := out.Close()

	switch {
	case walkErr != nil:
		return fmt.Errorf("failed to archive %s: %w", srcDir, walkErr)
	case closeErr != nil:
		return fmt.Errorf("failed to finalize archive %s: %w", dest, closeErr)
	case fileErr != nil:
		return fmt.Errorf("failed to close archive %s: %w", dest, fileErr)
	}
	return nil
}

func addFile(zw *zip.Writer, path, name string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate
	if executableNames[filepath.Base(name)] {
		header.SetMode(0755)
	}

	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
