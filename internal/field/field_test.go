package field

import (
	"testing"
)

func TestInteger(t *testing.T) {
	f := NewInteger([]byte{0x2A, 0x00}, "test")
	v, err := f.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != 42 {
		t.Errorf("Value() = %d, want 42", v)
	}
	if got, want := f.Render(), "42 (0x2a00)"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestGUID(t *testing.T) {
	raw := make([]byte, 16)
	raw[0] = 0x01
	raw[8] = 0x02
	f := NewGUID(raw, "object id")
	lo, hi := f.Value()
	if lo != 1 || hi != 2 {
		t.Errorf("Value() = (%d,%d), want (1,2)", lo, hi)
	}
}

func TestFileNameUTF16(t *testing.T) {
	// "ab" in UTF-16LE
	raw := []byte{'a', 0x00, 'b', 0x00}
	f := NewFileName(raw, "name")
	if got, want := f.Value(), "ab"; got != want {
		t.Errorf("Value() = %q, want %q", got, want)
	}
}

func TestFileNameStripsNUL(t *testing.T) {
	raw := []byte{'a', 0x00, 0x00, 0x00}
	f := NewFileName(raw, "name")
	if got, want := f.Value(), "a"; got != want {
		t.Errorf("Value() = %q, want %q", got, want)
	}
}

func TestWindowsTimeValid(t *testing.T) {
	// A FILETIME equal to filetimeUnixEpochDelta (116444736000000000) is
	// exactly the Unix epoch, 1970-01-01 00:00:00 UTC.
	raw := make([]byte, 8)
	low := uint32(filetimeUnixEpochDelta & 0xFFFFFFFF)
	high := uint32(filetimeUnixEpochDelta >> 32)
	raw[0], raw[1], raw[2], raw[3] = byte(low), byte(low>>8), byte(low>>16), byte(low>>24)
	raw[4], raw[5], raw[6], raw[7] = byte(high), byte(high>>8), byte(high>>16), byte(high>>24)

	f := NewWindowsTime(raw, "created")
	got := f.Render()
	want := "1970/01/01 00:00"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestWindowsTimeInvalid(t *testing.T) {
	f := NewWindowsTime(make([]byte, 8), "created")
	if got, want := f.Render(), "Invalid date and time"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestMftFlags(t *testing.T) {
	tests := []struct {
		raw  []byte
		want string
	}{
		{[]byte{0x01, 0x00}, "In use"},
		{[]byte{0x02, 0x00}, "Directory"},
		{[]byte{0x03, 0x00}, "3"},
	}
	for _, tt := range tests {
		got := NewMftFlags(tt.raw, "flags").Render()
		if got != tt.want {
			t.Errorf("Render(%v) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNonResidentFlag(t *testing.T) {
	if !NewNonResidentFlag([]byte{1}, "").Value() {
		t.Error("expected true for raw=1")
	}
	if NewNonResidentFlag([]byte{0}, "").Value() {
		t.Error("expected false for raw=0")
	}
}

func TestSiFlagsBitmask(t *testing.T) {
	// Hidden (0x0002) | Archive (0x0020) = 0x0022
	raw := []byte{0x22, 0x00, 0x00, 0x00}
	f := NewSiFlags(raw, "flags")
	labels := f.Labels()
	if len(labels) != 2 || labels[0] != "Hidden" || labels[1] != "Archive" {
		t.Errorf("Labels() = %v, want [Hidden Archive]", labels)
	}
}

func TestSiFlagsNoMatch(t *testing.T) {
	f := NewSiFlags([]byte{0x00, 0x00, 0x00, 0x00}, "flags")
	if got, want := f.Render(), "0"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestParentDirectory(t *testing.T) {
	// x1 (sequence) = 5, x2 = 0x0010, x3 = 0x00020000
	// record = x2 | (x3 >> 16) = 0x0010 | 0x0002 = 0x0012 = 18
	raw := []byte{
		0x05, 0x00, // x1
		0x10, 0x00, // x2
		0x00, 0x00, 0x02, 0x00, // x3
	}
	f := NewParentDirectory(raw, "parent")
	record, sequence := f.Value()
	if record != 18 || sequence != 5 {
		t.Errorf("Value() = (%d,%d), want (18,5)", record, sequence)
	}
}
