package asrank

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// compressedReader opens a file for line-oriented reading, transparently
// decompressing it first if its name ends in .gz or .bz2. Grounded on
// the teacher's readers.go CompressedReader, generalized from warts/
// sqlite inputs to every line-oriented file this engine reads (set
// files, path files, relationship files).
type compressedReader struct {
	filename string
	fp       *os.File
	gz       *gzip.Reader
	reader   io.Reader
}

func newCompressedReader(filename string) *compressedReader {
	return &compressedReader{filename: filename}
}

func (r *compressedReader) Open() error {
	fp, err := os.Open(r.filename)
	if err != nil {
		return fmt.Errorf("compressedReader: %w", err)
	}
	r.fp = fp

	switch {
	case strings.HasSuffix(r.filename, ".gz"):
		gz, err := gzip.NewReader(fp)
		if err != nil {
			fp.Close()
			return fmt.Errorf("compressedReader: %s: %w", r.filename, err)
		}
		r.gz = gz
		r.reader = gz
	case strings.HasSuffix(r.filename, ".bz2"):
		r.reader = bzip2.NewReader(fp)
	default:
		r.reader = fp
	}
	return nil
}

func (r *compressedReader) Scanner() *bufio.Scanner {
	return bufio.NewScanner(r.reader)
}

func (r *compressedReader) Close() {
	if r.gz != nil {
		r.gz.Close()
	}
	if r.fp != nil {
		r.fp.Close()
	}
}
