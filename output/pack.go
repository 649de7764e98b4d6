package output

import (
	"archive/tar"
	"fmt"
	"path/filepath"
	"strings"
)

// File is a file in an archive.
type File struct {
	Path      string // slash separated path relative to the archive root
	MediaType string
	Data      []byte
}

// Pack writes files into the tar archive filename. If minify is set, files are minified
// according to their media type first. The archive is replaced atomically.
func Pack(filename string, files []File, minify bool) error {
	s, err := Create(filename)
	if err != nil {
		return err
	}
	if err := writeTar(s, files, minify); err != nil {
		s.Abort()
		return err
	}
	return s.Commit()
}

func writeTar(s *Sink, files []File, minify bool) error {
	tw := tar.NewWriter(s)
	dirs := make(map[string]bool)

	for _, f := range files {
		b := f.Data
		if minify {
			var err error
			b, err = Minify(f.MediaType, b)
			if err != nil {
				return fmt.Errorf("minification failed for %s: %v", f.Path, err)
			}
		}

		path := strings.TrimPrefix(f.Path, "/")
		if dir := filepath.Dir(path); !dirs[dir] {
			name := "./" + dir + "/"
			if dir == "." {
				name = "./"
			}
			hdr := &tar.Header{
				Name:     name,
				Mode:     int64(0o755),
				Typeflag: tar.TypeDir,
			}
			if err := tw.WriteHeader(hdr); err != nil {
				return fmt.Errorf("writing header: %v", err)
			}
			dirs[dir] = true
		}

		hdr := &tar.Header{
			Name: "./" + path,
			Mode: int64(0o644),
			Size: int64(len(b)),
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("writing header: %v", err)
		}
		if _, err := tw.Write(b); err != nil {
			return fmt.Errorf("writing body: %v", err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing archive: %v", err)
	}
	return nil
}
