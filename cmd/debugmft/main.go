// Command debugmft is a minimal flag-based dumper for a single isolated
// MFT entry file, mirroring the teacher's cmd/debugudf in spirit: no
// subcommands, no report file, just printf-style output for poking at a
// decode path while developing.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/s0up4200/go-ntfsinfo/internal/ntfsmft"
)

func main() {
	path := flag.String("entry", "", "path to an isolated 1024-byte MFT entry file")
	legacy := flag.Bool("legacy", false, "use NTFS 1.2-era attribute-type names")
	flag.Parse()
	if *path == "" {
		log.Fatal("-entry required")
	}

	buf, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("ReadFile: %v", err)
	}

	entry, err := ntfsmft.ParseEntry(buf)
	if err != nil {
		log.Fatalf("ParseEntry: %v", err)
	}
	fmt.Printf("signature=%q validate=%t flags=0x%04x usedSize=%d allocatedSize=%d nextAttrId=%d\n",
		entry.Signature, entry.Validate(), entry.Flags, entry.UsedSize, entry.AllocatedSize, entry.NextAttrID)
	fmt.Printf("baseFileReference=%s filename=%q\n", entry.BaseFileReference, entry.Filename())

	it := entry.Attributes(*legacy)
	index := 0
	for {
		attr, ok, err := it.Next()
		if err != nil {
			fmt.Printf("attribute stream error: %v\n", err)
			break
		}
		if !ok {
			break
		}
		index++
		name := ntfsmft.AttributeTypeName(attr.Header.AttrType, *legacy)
		fmt.Printf("[%d] type=0x%x (%s) length=%d nonResident=%t attrId=%d\n",
			index, attr.Header.AttrType, name, attr.Header.Length, attr.NonResident, attr.Header.AttrID)

		content, err := attr.DecodeContent()
		if err != nil {
			fmt.Printf("    content decode error: %v\n", err)
			continue
		}
		if content != nil {
			fmt.Printf("    content=%+v\n", content)
		}
	}
	fmt.Printf("attributes decoded: %d\n", index)
}
