package ntfsmft

import (
	"encoding/binary"
	"testing"
)

func buildStandardInformationContent(createdFiletime uint64) []byte {
	content := make([]byte, 72)
	binary.LittleEndian.PutUint64(content[0:8], createdFiletime)
	binary.LittleEndian.PutUint32(content[32:36], 0x0003) // Read Only | Hidden
	binary.LittleEndian.PutUint64(content[64:72], 42)      // USN
	return content
}

func TestDecodeStandardInformation(t *testing.T) {
	// FILETIME for 2015-08-25 12:00:00 UTC, computed from the same
	// 100ns-since-1601/Unix-epoch-delta formula WindowsTime.Time applies.
	const filetime2015_08_25_1200 = 0x01D0DF2D916B6000
	content := buildStandardInformationContent(filetime2015_08_25_1200)
	si, err := decodeStandardInformation(content)
	if err != nil {
		t.Fatalf("decodeStandardInformation: %v", err)
	}
	if got, want := si.Created.Render(), "2015/08/25 12:00"; got != want {
		t.Errorf("Created.Render() = %q, want %q", got, want)
	}
	if got := si.Flags.Labels(); len(got) != 2 {
		t.Errorf("Flags.Labels() = %v, want 2 labels", got)
	}
	if si.USN != 42 {
		t.Errorf("USN = %d, want 42", si.USN)
	}
}

func TestDecodeStandardInformationTruncated(t *testing.T) {
	if _, err := decodeStandardInformation(make([]byte, 10)); err == nil {
		t.Fatal("expected error for truncated $STANDARD_INFORMATION content")
	}
}

func TestDecodeFileNameUTF16RoundTrip(t *testing.T) {
	content := buildFileNameContent("notes.txt")
	fn, err := decodeFileName(content)
	if err != nil {
		t.Fatalf("decodeFileName: %v", err)
	}
	if got, want := fn.Name.Value(), "notes.txt"; got != want {
		t.Errorf("Name.Value() = %q, want %q", got, want)
	}
}

func TestDecodeObjectID(t *testing.T) {
	content := make([]byte, objectIDLength)
	for i := range content {
		content[i] = byte(i)
	}
	oid, err := decodeObjectID(content)
	if err != nil {
		t.Fatalf("decodeObjectID: %v", err)
	}
	lo, hi := oid.ObjectID.Value()
	if lo == 0 && hi == 0 {
		t.Error("ObjectID.Value() unexpectedly zero")
	}
}

func TestDecodeDataResident(t *testing.T) {
	data, err := decodeData([]byte{1, 2, 3})
	if err != nil {
		t.Fatalf("decodeData: %v", err)
	}
	if len(data.Content) != 3 {
		t.Errorf("Content length = %d, want 3", len(data.Content))
	}
}

func TestDecodeIndexRoot(t *testing.T) {
	content := make([]byte, indexRootMinLength)
	binary.LittleEndian.PutUint32(content[0:4], TypeFileName)
	binary.LittleEndian.PutUint32(content[8:12], 4096)
	content[12] = 1
	ir, err := decodeIndexRoot(content)
	if err != nil {
		t.Fatalf("decodeIndexRoot: %v", err)
	}
	if got, want := ir.IndexedAttrType.Render(), "$FILE_NAME"; got != want {
		t.Errorf("IndexedAttrType.Render() = %q, want %q", got, want)
	}
	if ir.IndexRecordBytes != 4096 {
		t.Errorf("IndexRecordBytes = %d, want 4096", ir.IndexRecordBytes)
	}
}

func TestDecodeReparsePoint(t *testing.T) {
	content := make([]byte, reparsePointMinLength)
	binary.LittleEndian.PutUint32(content[0:4], 0xA0000003) // a mount-point-shaped tag
	binary.LittleEndian.PutUint16(content[8:10], 0)
	binary.LittleEndian.PutUint16(content[10:12], 20)
	rp, err := decodeReparsePoint(content)
	if err != nil {
		t.Fatalf("decodeReparsePoint: %v", err)
	}
	if rp.TargetNameLength != 20 {
		t.Errorf("TargetNameLength = %d, want 20", rp.TargetNameLength)
	}
}

func TestDecodeAttributeListFirstEntryOnly(t *testing.T) {
	content := make([]byte, attributeListEntryLength*2)
	binary.LittleEndian.PutUint32(content[0:4], TypeFileName)
	binary.LittleEndian.PutUint16(content[4:6], attributeListEntryLength)
	binary.LittleEndian.PutUint32(content[attributeListEntryLength:attributeListEntryLength+4], TypeData)

	al, err := decodeAttributeList(content)
	if err != nil {
		t.Fatalf("decodeAttributeList: %v", err)
	}
	if al.Type != TypeFileName {
		t.Errorf("Type = %#x, want %#x (only first entry decoded)", al.Type, TypeFileName)
	}
}

func TestAttributeUnknownTypeEndsIteration(t *testing.T) {
	stdInfo := buildResidentAttribute(t, TypeStandardInformation, 96)
	unknown := buildResidentAttribute(t, 0x999, 40) // absent from both attribute-type tables
	stream := append(stdInfo, unknown...)

	it := &AttributeIterator{buf: stream, cursor: 0}
	count := 0
	for {
		_, ok, err := it.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !ok {
			break
		}
		count++
	}
	if count != 1 {
		t.Errorf("iterated %d attributes, want 1 (unknown type should stop iteration)", count)
	}
}
