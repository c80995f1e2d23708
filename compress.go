package logtap

import (
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// compressArchive gzips the file at the given index in place: the
// plain file is replaced by <name>.<index>.log.gz. A missing source is
// not an error (the generation may already be compressed or pruned).
func (s *FileSink) compressArchive(index int) *SinkError {
	srcPath := s.indexPath(index, false)
	dstPath := s.indexPath(index, true)

	src, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return sinkErr("compress", srcPath, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return sinkErr("compress", dstPath, err)
	}

	gw := gzip.NewWriter(dst)
	if _, err := io.Copy(gw, src); err != nil {
		gw.Close()
		dst.Close()
		os.Remove(dstPath)
		return sinkErr("compress", srcPath, err)
	}
	if err := gw.Close(); err != nil {
		dst.Close()
		os.Remove(dstPath)
		return sinkErr("compress", srcPath, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dstPath)
		return sinkErr("compress", dstPath, err)
	}

	if err := os.Remove(srcPath); err != nil {
		return sinkErr("remove", srcPath, err)
	}
	return nil
}
