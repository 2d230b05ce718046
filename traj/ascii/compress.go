/*
 * compress.go, part of trajview.
 *
 * Copyright 2022 The trajview Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package ascii

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression is the compression applied to a file.
type Compression int

const (
	None Compression = iota
	Gzip
	Zstd
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// why couldn't *zstd.Decoder implement io.ReadCloser?
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// sniff returns the compression of the stream in r, judging from its first bytes.
func sniff(r *bufio.Reader) Compression {
	magic, _ := r.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		return Gzip
	case bytes.HasPrefix(magic, zstdMagic):
		return Zstd
	}
	return None
}

// readCloser is a decompressed file. Closing it closes the file too.
type readCloser struct {
	io.Reader
	dec io.Closer
	f   *os.File
}

func (r *readCloser) Close() error {
	if r.dec != nil {
		r.dec.Close()
	}
	return r.f.Close()
}

// openReader opens name and returns a reader for its decompressed content.
func openReader(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	ret := &readCloser{Reader: br, f: f}
	switch sniff(br) {
	case Gzip:
		g, err := gzip.NewReader(br)
		if err != nil {
			f.Close()
			return nil, err
		}
		ret.Reader, ret.dec = g, g
	case Zstd:
		z, err := zstd.NewReader(br)
		if err != nil {
			f.Close()
			return nil, err
		}
		ret.Reader, ret.dec = z, zstdCloser{z}
	}
	return ret, nil
}

// compressionFor returns the compression to use for the file name: the
// suffix decides, unless gz forces gzip.
func compressionFor(name string, gz bool) Compression {
	lower := strings.ToLower(name)
	switch {
	case gz || strings.HasSuffix(lower, ".gz"):
		return Gzip
	case strings.HasSuffix(lower, ".zst") || strings.HasSuffix(lower, ".zstd"):
		return Zstd
	}
	return None
}

// writeCloser buffers and compresses the writes to a file. Close flushes
// every layer and closes the file.
type writeCloser struct {
	*bufio.Writer
	enc io.WriteCloser
	f   *os.File
}

func (w *writeCloser) Close() error {
	err := w.Writer.Flush()
	if w.enc != nil {
		if err2 := w.enc.Close(); err == nil {
			err = err2
		}
	}
	if err2 := w.f.Close(); err == nil {
		err = err2
	}
	return err
}

// openWriter creates (or, with appendTo, opens for appending) the file name.
// Appended compressed data is a new gzip member or zstd frame.
func openWriter(name string, c Compression, appendTo bool) (*writeCloser, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendTo {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(name, flags, 0644)
	if err != nil {
		return nil, err
	}
	ret := &writeCloser{f: f}
	var enc io.WriteCloser
	switch c {
	case Gzip:
		enc = gzip.NewWriter(f)
	case Zstd:
		enc, err = zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, err
		}
	}
	if enc != nil {
		ret.enc = enc
		ret.Writer = bufio.NewWriter(enc)
	} else {
		ret.Writer = bufio.NewWriter(f)
	}
	return ret, nil
}
