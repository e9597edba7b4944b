// Package report renders decoded NTFS structures into the ordered
// (label, rendered-value) export surface the design calls for, and a
// human-readable text report built on top of it — mirroring the shape of
// the teacher's internal/report package (a pair-producing layer plus a
// WriteReport entry point that owns file-vs-stdout destination handling).
package report

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/s0up4200/go-ntfsinfo/internal/ntfsmft"
)

// Pair is one exported (label, rendered-value) cell. Labels come from a
// field's own Title when it carries one; otherwise from the attribute or
// entry member's name, matching spec.md §4.8.
type Pair struct {
	Label string
	Value string
}

// sortPairs orders pairs by label ascending so that export output is
// deterministic and stable across runs, as the design requires.
func sortPairs(pairs []Pair) []Pair {
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].Label < pairs[j].Label })
	return pairs
}

// EntryPairs returns the entry header's exportable fields. The excluded
// set {raw, content, attributes_and_fixups} never appears here: Raw() and
// the attribute stream are reachable separately, not folded into this
// flat pair list.
func EntryPairs(e *ntfsmft.MftEntry) []Pair {
	pairs := []Pair{
		{"Signature", string(bytesTrim(e.Signature[:]))},
		{"Sequence value", fmt.Sprintf("%d", e.SequenceValue)},
		{"Link count", fmt.Sprintf("%d", e.LinkCount)},
		{"Flags", mftFlagsLabel(e.Flags)},
		{"Used size", fmt.Sprintf("%d", e.UsedSize)},
		{"Allocated size", fmt.Sprintf("%d", e.AllocatedSize)},
		{"Base file reference", e.BaseFileReference.String()},
		{"Next attribute id", fmt.Sprintf("%d", e.NextAttrID)},
		{"Filename", e.Filename()},
	}
	return sortPairs(pairs)
}

func bytesTrim(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c != 0 {
			out = append(out, c)
		}
	}
	return out
}

func mftFlagsLabel(flags uint16) string {
	switch flags {
	case 0x01:
		return "In use"
	case 0x02:
		return "Directory"
	default:
		return fmt.Sprintf("%d", flags)
	}
}

// AttributePairs returns the header fields common to every attribute plus
// its kind-specific content fields, dispatched via a's decoded content.
func AttributePairs(a *ntfsmft.Attribute, legacy bool) []Pair {
	pairs := []Pair{
		{"Attribute type", ntfsmft.AttributeTypeName(a.Header.AttrType, legacy)},
		{"Length", fmt.Sprintf("%d", a.Header.Length)},
		{"Non-resident", fmt.Sprintf("%t", a.NonResident)},
		{"Attribute id", fmt.Sprintf("%d", a.Header.AttrID)},
	}
	if a.Name != "" {
		pairs = append(pairs, Pair{"Name", a.Name})
	}
	if a.NonResTail != nil {
		pairs = append(pairs,
			Pair{"VCN start", fmt.Sprintf("%d", a.NonResTail.VCNStart)},
			Pair{"VCN end", fmt.Sprintf("%d", a.NonResTail.VCNEnd)},
			Pair{"Allocated size", fmt.Sprintf("%d", a.NonResTail.AllocatedSize)},
			Pair{"Actual size", fmt.Sprintf("%d", a.NonResTail.ActualSize)},
			Pair{"Initialized size", fmt.Sprintf("%d", a.NonResTail.InitializedSize)},
		)
	}

	content, err := a.DecodeContent()
	if err == nil && content != nil {
		pairs = append(pairs, contentPairs(content)...)
	}
	return sortPairs(pairs)
}

// contentPairs renders a decoded content variant's fields. One case per
// variant in content.go; unrecognized types (nil here) contribute nothing
// beyond the header fields above.
func contentPairs(content any) []Pair {
	switch c := content.(type) {
	case ntfsmft.StandardInformation:
		return []Pair{
			{"Created", c.Created.Render()},
			{"Altered", c.Altered.Render()},
			{"MFT altered", c.MftAltered.Render()},
			{"Accessed", c.Accessed.Render()},
			{c.Flags.Title(), c.Flags.Render()},
			{"Owner id", fmt.Sprintf("%d", c.OwnerID)},
			{"Security id", fmt.Sprintf("%d", c.SecurityID)},
			{"Quota", fmt.Sprintf("%d", c.Quota)},
			{"USN", fmt.Sprintf("%d", c.USN)},
		}
	case ntfsmft.FileName:
		return []Pair{
			{"Name", c.Name.Render()},
			{c.Parent.Title(), c.Parent.Render()},
			{"Allocated size", fmt.Sprintf("%d", c.AllocatedSize)},
			{"Actual size", fmt.Sprintf("%d", c.ActualSize)},
			{"Namespace", fmt.Sprintf("%d", c.Namespace)},
			{"Created", c.Created.Render()},
			{"Altered", c.Altered.Render()},
			{"Accessed", c.Accessed.Render()},
		}
	case ntfsmft.ObjectID:
		return []Pair{
			{c.ObjectID.Title(), c.ObjectID.Render()},
			{c.BirthVolumeID.Title(), c.BirthVolumeID.Render()},
			{c.BirthObjectID.Title(), c.BirthObjectID.Render()},
			{c.BirthDomainID.Title(), c.BirthDomainID.Render()},
		}
	case ntfsmft.Data:
		return []Pair{{"Data length", fmt.Sprintf("%d", len(c.Content))}}
	case ntfsmft.IndexRoot:
		return []Pair{
			{"Indexed attribute type", c.IndexedAttrType.Render()},
			{"Collation rule", fmt.Sprintf("%d", c.CollationRule)},
			{"Index record bytes", fmt.Sprintf("%d", c.IndexRecordBytes)},
			{"Index record clusters", fmt.Sprintf("%d", c.IndexRecordClusters)},
		}
	case ntfsmft.IndexAllocation:
		return []Pair{{"Index allocation length", fmt.Sprintf("%d", len(c.Raw))}}
	case ntfsmft.ReparsePoint:
		return []Pair{
			{"Reparse flags", fmt.Sprintf("0x%08x", c.Flags)},
			{"Reparse data size", fmt.Sprintf("%d", c.Size)},
			{"Target name offset", fmt.Sprintf("%d", c.TargetNameOffset)},
			{"Target name length", fmt.Sprintf("%d", c.TargetNameLength)},
			{"Print name offset", fmt.Sprintf("%d", c.PrintNameOffset)},
			{"Print name length", fmt.Sprintf("%d", c.PrintNameLength)},
		}
	case ntfsmft.AttributeListEntry:
		return []Pair{
			{"Attribute list type", fmt.Sprintf("0x%x", c.Type)},
			{"Attribute list file reference", c.FileReference.String()},
			{"Attribute list attr id", fmt.Sprintf("%d", c.AttrID)},
		}
	default:
		return nil
	}
}

// RenderEntry renders one entry's header pairs followed by every attribute
// in on-disk order, each with its own pairs. legacy selects the 1.2-era
// attribute-name table for dispatch labels.
func RenderEntry(e *ntfsmft.MftEntry, legacy bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-24s%s\n", "Filename:", e.Filename())
	for _, p := range EntryPairs(e) {
		fmt.Fprintf(&b, "%-24s%s\n", p.Label+":", p.Value)
	}

	it := e.Attributes(legacy)
	index := 0
	for {
		attr, ok, err := it.Next()
		if err != nil {
			fmt.Fprintf(&b, "\nWARNING: attribute stream ended early: %s\n", err.Error())
			break
		}
		if !ok {
			break
		}
		index++
		fmt.Fprintf(&b, "\n[%d] %s\n", index, ntfsmft.AttributeTypeName(attr.Header.AttrType, legacy))
		for _, p := range AttributePairs(attr, legacy) {
			fmt.Fprintf(&b, "  %-22s%s\n", p.Label+":", p.Value)
		}
	}
	return b.String()
}

// WriteReport writes content to path, or to stdout when path is "-". An
// existing file at path is backed up first with a unix-timestamp suffix,
// matching the teacher's report.WriteReport destination handling.
func WriteReport(path, content string) (string, error) {
	if path == "" {
		path = "-"
	}
	if path == "-" {
		_, err := os.Stdout.WriteString(content)
		return path, err
	}
	if _, err := os.Stat(path); err == nil {
		backup := fmt.Sprintf("%s.%d", path, time.Now().Unix())
		_ = os.Rename(path, backup)
	}
	return path, os.WriteFile(path, []byte(content), 0o644)
}
