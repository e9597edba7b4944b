package walker

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/s0up4200/go-ntfsinfo/internal/settings"
)

func buildBootSector(mftStartCluster uint64) []byte {
	buf := make([]byte, 512)
	binary.LittleEndian.PutUint16(buf[11:13], 512) // bytes per sector
	buf[13] = 1                                    // sectors per cluster
	binary.LittleEndian.PutUint64(buf[48:56], mftStartCluster)
	binary.LittleEndian.PutUint16(buf[510:512], 0xAA55)
	return buf
}

func buildEntry(t *testing.T, signature [4]byte, nextAttrID uint16) []byte {
	t.Helper()
	buf := make([]byte, 1024)
	copy(buf[0:4], signature[:])
	binary.LittleEndian.PutUint16(buf[20:22], 42) // attribute_offset
	binary.LittleEndian.PutUint16(buf[40:42], nextAttrID)
	binary.LittleEndian.PutUint32(buf[42:46], 0xFFFFFFFF) // terminator only
	return buf
}

func TestWalkerFiltersEmptySlots(t *testing.T) {
	var partition bytes.Buffer
	partition.Write(buildBootSector(1)) // cluster_bytes == 512, so MFT starts right after the boot sector

	// record 0: valid FILE entry
	partition.Write(buildEntry(t, [4]byte{'F', 'I', 'L', 'E'}, 1))
	// record 1: zero signature, empty slot (no next attr id)
	partition.Write(buildEntry(t, [4]byte{0, 0, 0, 0}, 0))
	// record 2: valid FILE entry
	partition.Write(buildEntry(t, [4]byte{'F', 'I', 'L', 'E'}, 1))

	r := bytes.NewReader(partition.Bytes())
	w, err := New(r, settings.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var got []ntfsmftSignature
	for {
		entry, err := w.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, entry.Signature)
	}

	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2 (empty slot should be filtered)", len(got))
	}
}

type ntfsmftSignature = [4]byte

func TestWalkerInvalidBootSector(t *testing.T) {
	buf := make([]byte, 512) // all zero, signature mismatch
	_, err := New(bytes.NewReader(buf), settings.Default())
	if err == nil {
		t.Fatal("expected error for invalid boot sector")
	}
}

func TestWalkerShortReadTerminates(t *testing.T) {
	var partition bytes.Buffer
	partition.Write(buildBootSector(1))
	partition.Write(buildEntry(t, [4]byte{'F', 'I', 'L', 'E'}, 1))
	partition.Write(make([]byte, 100)) // trailing short record

	r := bytes.NewReader(partition.Bytes())
	w, err := New(r, settings.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	count := 0
	for {
		_, err := w.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		count++
	}
	if count != 1 {
		t.Errorf("got %d entries, want 1", count)
	}
}
