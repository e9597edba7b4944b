// Package walker implements the partition-wide MFT iteration described in
// the decoder design: seek past the boot sector to the MFT's start byte,
// then stride 1024 bytes at a time, decoding and filtering entries as they
// come. It never buffers more than one entry ahead of the caller.
package walker

import (
	"errors"
	"fmt"
	"io"

	"github.com/s0up4200/go-ntfsinfo/internal/ntfsmft"
	"github.com/s0up4200/go-ntfsinfo/internal/settings"
)

// entryBlockSize is the stride the walker reads at, matching the common
// MFT entry size. Entries that declare a larger size are out of scope.
const entryBlockSize = 1024

// ErrInvalidPartition is returned by New when the source's boot sector
// fails validation.
var ErrInvalidPartition = errors.New("walker: invalid partition")

// Walker yields decoded MFT entries from a seekable NTFS partition stream,
// strictly in ascending on-disk record order. It is single-threaded and
// pull-based: nothing happens until Next is called.
type Walker struct {
	src      io.ReadSeeker
	settings settings.Settings

	boot    ntfsmft.BootSector
	record  uint64
	yielded uint64
	done    bool
}

// New reads the boot sector from src, validates it, and positions the
// walker at settings.StartRecord. src must support Seek; a plain file or an
// in-memory byte reader both qualify.
func New(src io.ReadSeeker, s settings.Settings) (*Walker, error) {
	bootBuf := make([]byte, 512)
	if _, err := io.ReadFull(src, bootBuf); err != nil {
		return nil, fmt.Errorf("%w: reading boot sector: %v", ErrInvalidPartition, err)
	}
	boot, err := ntfsmft.ParseBootSector(bootBuf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPartition, err)
	}
	if !boot.Validate() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPartition, ntfsmft.ErrInvalidBootSector)
	}

	start := int64(boot.MftStartOffsetBytes()) + int64(s.StartRecord)*entryBlockSize
	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seeking to MFT start: %v", ErrInvalidPartition, err)
	}

	return &Walker{src: src, settings: s, boot: boot, record: s.StartRecord}, nil
}

// BootSector returns the partition's decoded boot sector.
func (w *Walker) BootSector() ntfsmft.BootSector { return w.boot }

// Next reads, decodes, and returns the next valid, non-empty MFT entry. It
// returns io.EOF once the stream is exhausted or settings.MaxRecords has
// been reached. Invalid entries (an unrecognized signature) and empty
// slots are skipped silently, never surfaced as errors, matching the
// design's "invalid entries are skipped silently" rule; only a hard read
// error other than a short final read is fatal.
func (w *Walker) Next() (*ntfsmft.MftEntry, error) {
	if w.done {
		return nil, io.EOF
	}
	for {
		if w.settings.MaxRecords > 0 && w.yielded >= w.settings.MaxRecords {
			w.done = true
			return nil, io.EOF
		}

		buf := make([]byte, entryBlockSize)
		n, err := io.ReadFull(w.src, buf)
		if err != nil {
			w.done = true
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("walker: reading entry %d: %w", w.record, err)
		}
		w.record++
		if n < entryBlockSize {
			w.done = true
			return nil, io.EOF
		}

		entry, err := ntfsmft.ParseEntry(buf)
		if err != nil {
			continue
		}
		if !entry.Validate() {
			continue
		}
		if w.settings.ApplyFixups {
			if fixed, ferr := entry.ValidatedBuffer(); ferr == nil {
				entry, err = ntfsmft.ParseEntry(fixed)
				if err != nil {
					continue
				}
			}
		}

		if entry.Filename() == ntfsmft.NoFilenameAttribute && entry.NextAttrID == 0 {
			continue
		}

		w.yielded++
		return entry, nil
	}
}
