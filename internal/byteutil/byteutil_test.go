package byteutil

import "testing"

func TestSliceInclusive(t *testing.T) {
	data := []byte{0x10, 0x20, 0x30, 0x40, 0x50}

	tests := []struct {
		name       string
		start, end int
		want       []byte
		wantErr    bool
	}{
		{"single byte", 0, EndAbsent, []byte{0x10}, false},
		{"middle range", 1, 3, []byte{0x20, 0x30, 0x40}, false},
		{"full range", 0, 4, data, false},
		{"out of range end", 2, 10, nil, true},
		{"negative start", -1, 2, nil, true},
		{"end before start", 3, 1, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SliceInclusive(data, tt.start, tt.end)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SliceInclusive(%d,%d) expected error, got %v", tt.start, tt.end, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SliceInclusive(%d,%d) unexpected error: %v", tt.start, tt.end, err)
			}
			if string(got) != string(tt.want) {
				t.Errorf("SliceInclusive(%d,%d) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestUnpackUint(t *testing.T) {
	tests := []struct {
		raw  []byte
		want uint64
	}{
		{[]byte{0xFF}, 0xFF},
		{[]byte{0x01, 0x02}, 0x0201},
		{[]byte{0x01, 0x00, 0x00, 0x00}, 1},
		{[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}, 1 << 56},
	}
	for _, tt := range tests {
		got, err := UnpackUint(tt.raw)
		if err != nil {
			t.Fatalf("UnpackUint(%v): %v", tt.raw, err)
		}
		if got != tt.want {
			t.Errorf("UnpackUint(%v) = %#x, want %#x", tt.raw, got, tt.want)
		}
	}

	if _, err := UnpackUint([]byte{1, 2, 3}); err == nil {
		t.Fatalf("UnpackUint(3 bytes) expected error")
	}
}
