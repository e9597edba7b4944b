// Package mftinfo is the public facade over the NTFS decoder: a single
// entry point a caller embeds instead of wiring internal/ntfsmft,
// internal/walker, and internal/report together by hand. It mirrors the
// teacher's pkg/bdinfo facade — a library-facing Settings/Options/Result
// trio plus a Run function — adapted from a disc-scanning library to a
// partition/entry-decoding one.
package mftinfo

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/s0up4200/go-ntfsinfo/internal/ntfsmft"
	"github.com/s0up4200/go-ntfsinfo/internal/report"
	internalsettings "github.com/s0up4200/go-ntfsinfo/internal/settings"
	"github.com/s0up4200/go-ntfsinfo/internal/walker"
)

// Settings are the library-facing decode/report controls, re-exported
// from internal/settings so callers never import an internal package.
type Settings = internalsettings.Settings

// DefaultSettings returns the settings a bare decode should use.
func DefaultSettings() Settings { return internalsettings.Default() }

// EntryInfo is one decoded MFT entry's exported view: its header pairs
// plus every attribute's own pairs, in on-disk order.
type EntryInfo struct {
	Record     uint64
	Filename   string
	Pairs      []report.Pair
	Attributes []AttributeInfo
}

// AttributeInfo is one decoded attribute's exported view.
type AttributeInfo struct {
	Type  string
	Pairs []report.Pair
}

// Result contains every entry decoded by a Run call plus a rendered text
// report built from them.
type Result struct {
	Entries    []EntryInfo
	Report     string
	ReportPath string
}

// Options configure one Run call: either Source (a whole-partition
// byte stream) or Entry (a single isolated 1024-byte MFT entry buffer)
// must be set, never both.
type Options struct {
	Source     io.ReadSeeker
	Entry      []byte
	Settings   Settings
	ReportPath string
	OnEntry    func(EntryInfo)
}

var (
	// ErrNoInput is returned by Run when neither Source nor Entry is set.
	ErrNoInput = errors.New("mftinfo: either Source or Entry must be set")
	// ErrBothInputs is returned by Run when both Source and Entry are set.
	ErrBothInputs = errors.New("mftinfo: Source and Entry are mutually exclusive")
)

// Run decodes either a whole partition or a single isolated entry buffer
// and returns every entry's exported view plus a combined text report.
// It never blocks beyond the underlying Source's Read/Seek calls.
func Run(ctx context.Context, options Options) (Result, error) {
	if options.Source == nil && options.Entry == nil {
		return Result{}, ErrNoInput
	}
	if options.Source != nil && options.Entry != nil {
		return Result{}, ErrBothInputs
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	settings := options.Settings
	if settings == (Settings{}) {
		settings = DefaultSettings()
	}

	var entries []EntryInfo
	if options.Entry != nil {
		entry, err := decodeEntry(options.Entry, settings)
		if err != nil {
			return Result{}, err
		}
		info := buildEntryInfo(0, entry, settings)
		entries = append(entries, info)
		emit(options.OnEntry, info)
	} else {
		w, err := walker.New(options.Source, settings)
		if err != nil {
			return Result{}, err
		}
		record := settings.StartRecord
		for {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
			entry, err := w.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return Result{}, err
			}
			info := buildEntryInfo(record, entry, settings)
			entries = append(entries, info)
			emit(options.OnEntry, info)
			record++
		}
	}

	var reportText string
	for i, e := range entries {
		if i > 0 {
			reportText += "\n\n"
		}
		reportText += renderHeader(e)
	}
	reportDest := options.ReportPath
	if reportDest == "" {
		reportDest = settings.ReportFileName
	}
	reportPath, err := report.WriteReport(reportDest, reportText)
	if err != nil {
		return Result{}, err
	}

	return Result{Entries: entries, Report: reportText, ReportPath: reportPath}, nil
}

func decodeEntry(buf []byte, s Settings) (*ntfsmft.MftEntry, error) {
	entry, err := ntfsmft.ParseEntry(buf)
	if err != nil {
		return nil, err
	}
	if !entry.Validate() {
		return nil, ntfsmft.ErrInvalidMftEntry
	}
	if s.ApplyFixups {
		if fixed, ferr := entry.ValidatedBuffer(); ferr == nil {
			if refixed, perr := ntfsmft.ParseEntry(fixed); perr == nil {
				entry = refixed
			}
		}
	}
	return entry, nil
}

func buildEntryInfo(record uint64, entry *ntfsmft.MftEntry, s Settings) EntryInfo {
	info := EntryInfo{
		Record:   record,
		Filename: entry.Filename(),
		Pairs:    report.EntryPairs(entry),
	}
	it := entry.Attributes(s.LegacyAttributeNames)
	for {
		attr, ok, err := it.Next()
		if err != nil || !ok {
			break
		}
		info.Attributes = append(info.Attributes, AttributeInfo{
			Type:  ntfsmft.AttributeTypeName(attr.Header.AttrType, s.LegacyAttributeNames),
			Pairs: report.AttributePairs(attr, s.LegacyAttributeNames),
		})
	}
	return info
}

// renderHeader renders one entry via its already-decoded pairs. Run keeps
// its own lightweight rendering here rather than re-decoding through
// report.RenderEntry, since the walker path has already discarded the raw
// *ntfsmft.MftEntry by the time the report is assembled.
func renderHeader(e EntryInfo) string {
	out := "Filename: " + e.Filename + "\n"
	for _, p := range e.Pairs {
		out += p.Label + ": " + p.Value + "\n"
	}
	for i, a := range e.Attributes {
		out += "\n[" + strconv.Itoa(i+1) + "] " + a.Type + "\n"
		for _, p := range a.Pairs {
			out += "  " + p.Label + ": " + p.Value + "\n"
		}
	}
	return out
}

func emit(cb func(EntryInfo), info EntryInfo) {
	if cb != nil {
		cb(info)
	}
}
