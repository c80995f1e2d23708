package logtap

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Rotate retires the active file into the numbered backlog: every
// existing index moves up by one, whatever lands past maxFiles is
// deleted, and a fresh empty active file is created so the sink is
// immediately writable again. Rotating an empty or missing active file
// is a no-op.
//
// The shift walks from the highest occupied index down to 0, so no
// rename can ever land on an occupied slot.
func (s *FileSink) Rotate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fl.Lock(); err != nil {
		report(s.handler, "lock", s.fl.Path(), err)
		return
	}
	defer s.fl.Unlock()

	if serr := s.rotateLocked(); serr != nil {
		report(s.handler, serr.Op, serr.Path, serr.Err)
	}
}

// archive is one numbered file in the sink's directory.
type archive struct {
	index int
	gzip  bool
}

func (a archive) path(s *FileSink) string {
	return s.indexPath(a.index, a.gzip)
}

// scanArchives lists the sink's numbered files, highest index first.
func (s *FileSink) scanArchives() ([]archive, *SinkError) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, sinkErr("readdir", s.dir, err)
	}

	pattern := regexp.MustCompile(
		fmt.Sprintf(`^%s\.(\d+)\.log(\.gz)?$`, regexp.QuoteMeta(s.name)))

	var found []archive
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		found = append(found, archive{index: index, gzip: m[2] != ""})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].index > found[j].index
	})
	return found, nil
}

// rotateLocked shifts the file chain under both locks. Rename failures
// abort the rotation; deletion failures are reported and skipped, so a
// stuck oldest file cannot block new generations.
func (s *FileSink) rotateLocked() *SinkError {
	active := s.indexPath(0, false)
	info, err := os.Stat(active)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return sinkErr("stat", active, err)
	}
	if info.Size() == 0 {
		return nil
	}

	archives, serr := s.scanArchives()
	if serr != nil {
		return serr
	}

	for _, a := range archives {
		src := a.path(s)
		if a.index+1 > s.maxFiles {
			// Pushed past the retention bound.
			if err := os.Remove(src); err != nil && !os.IsNotExist(err) {
				report(s.handler, "remove", src, err)
			}
			continue
		}
		dst := s.indexPath(a.index+1, a.gzip)
		if err := os.Rename(src, dst); err != nil {
			return sinkErr("rename", src, err)
		}
	}

	// The previous active file now sits at index 1; archive it.
	if s.compress {
		if serr := s.compressArchive(1); serr != nil {
			report(s.handler, serr.Op, serr.Path, serr.Err)
		}
	}

	// Recreate the active file eagerly so the slot is never missing
	// between a rotation and the next write.
	f, err := os.OpenFile(active, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return sinkErr("create", active, err)
	}
	if err := f.Close(); err != nil {
		return sinkErr("close", active, err)
	}
	return nil
}

// RemoveAll deletes every file the sink manages, including compressed
// archives and the lock file. Intended for tests and explicit cleanup,
// not called during normal operation.
func (s *FileSink) RemoveAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	archives, serr := s.scanArchives()
	if serr != nil {
		return serr
	}
	for _, a := range archives {
		if err := os.Remove(a.path(s)); err != nil && !os.IsNotExist(err) {
			return sinkErr("remove", a.path(s), err)
		}
	}
	lock := filepath.Join(s.dir, s.name+".lock")
	if err := os.Remove(lock); err != nil && !os.IsNotExist(err) {
		return sinkErr("remove", lock, err)
	}
	return nil
}
