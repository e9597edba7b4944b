package ntfsmft

import (
	"fmt"

	"github.com/s0up4200/go-ntfsinfo/internal/field"
)

// Reference is the conventional packed MFT reference: the low 48 bits are
// the record number, the high 16 bits are the sequence value. This is an
// enrichment over the source, which leaves base_file_reference and
// $ATTRIBUTE_LIST file references as raw undecoded 8-byte fields.
type Reference uint64

func NewReference(raw uint64) Reference { return Reference(raw) }

func (r Reference) Record() uint64   { return uint64(r) & 0x0000FFFFFFFFFFFF }
func (r Reference) Sequence() uint16 { return uint16(uint64(r) >> 48) }

func (r Reference) String() string {
	return fmt.Sprintf("%d / %d", r.Record(), r.Sequence())
}

// ParentReference is the $FILE_NAME parent-directory field's literal byte
// split, preserved exactly from the source's ParentDirField: 8 bytes read
// as (u16, u16, u32), with record = second_u16 | (trailing_u32 >> 16) and
// sequence = first_u16. This is NOT the same bit layout as Reference above
// — it is kept as a distinct type so the two decodings are never confused.
type ParentReference struct {
	field.ParentDirectory
}

func NewParentReference(raw []byte) ParentReference {
	return ParentReference{field.NewParentDirectory(raw, "Parent directory")}
}

func (p ParentReference) Record() uint32 {
	record, _ := p.Value()
	return record
}

func (p ParentReference) Sequence() uint16 {
	_, sequence := p.Value()
	return sequence
}
