package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/NCAR/cirrus-portal/pkg/chart"
	"github.com/NCAR/cirrus-portal/pkg/errors"
)

// WriteZip streams the file set as a zip archive to w, with every entry
// placed under root/. The writer may be an HTTP response; once the first
// byte is written the caller can no longer change the response status.
func WriteZip(w io.Writer, root string, files chart.FileSet) error {
	zw := zip.NewWriter(w)

	for _, path := range files.SortedPaths() {
		header := &zip.FileHeader{
			Name:   root + "/" + path,
			Method: zip.Deflate,
		}
		entry, err := zw.CreateHeader(header)
		if err != nil {
			return errors.WrapWithContext(errors.ErrCodeInternal,
				"creating zip entry", err, map[string]any{"path": path})
		}
		if _, err := io.WriteString(entry, files[path]); err != nil {
			return errors.WrapWithContext(errors.ErrCodeInternal,
				"writing zip entry", err, map[string]any{"path": path})
		}
	}

	if err := zw.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "finalizing zip archive", err)
	}
	return nil
}

// Zip packages the file set in memory and returns the archive bytes.
func Zip(root string, files chart.FileSet) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteZip(&buf, root, files); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Filename returns the download file name for an app's chart archive.
func Filename(appName string) string {
	return fmt.Sprintf("%s-helm-chart.zip", appName)
}
