// Command ntfsinfo decodes an NTFS partition image or an isolated MFT
// entry file and writes a human-readable report.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/s0up4200/go-ntfsinfo/internal/settings"
	"github.com/s0up4200/go-ntfsinfo/pkg/mftinfo"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ntfsinfo",
		Short:         "Decode NTFS boot sectors and MFT entries",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newScanCmd(), newEntryCmd(), newVersionCmd())
	return root
}

// flagSettings binds the Settings fields every subcommand shares to a
// pflag.FlagSet, replacing the teacher's hand-rolled optBool tri-state
// parser with pflag's native bool/uint64 flags.
type flagSettings struct {
	applyFixups bool
	legacy      bool
	startRecord uint64
	maxRecords  uint64
	reportPath  string
}

func (f *flagSettings) register(flags *pflag.FlagSet) {
	flags.BoolVar(&f.applyFixups, "apply-fixups", false, "validate and apply each entry's fixup array before decoding")
	flags.BoolVar(&f.legacy, "legacy-attribute-names", false, "use NTFS 1.2-era attribute-type names")
	flags.Uint64Var(&f.startRecord, "start-record", 0, "first MFT record index to decode (scan only)")
	flags.Uint64Var(&f.maxRecords, "max-records", 0, "stop after this many records (0 = no limit, scan only)")
	flags.StringVarP(&f.reportPath, "output", "o", "-", "report destination file, or - for stdout")
}

func (f *flagSettings) toSettings() settings.Settings {
	s := settings.Default()
	s.ApplyFixups = f.applyFixups
	s.LegacyAttributeNames = f.legacy
	s.StartRecord = f.startRecord
	s.MaxRecords = f.maxRecords
	s.ReportFileName = f.reportPath
	return s
}

func newScanCmd() *cobra.Command {
	var fs flagSettings
	cmd := &cobra.Command{
		Use:   "scan <partition-image>",
		Short: "Walk the MFT of a whole-partition byte stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := mftinfo.Run(cmdContext(cmd), mftinfo.Options{
				Source:     f,
				Settings:   fs.toSettings(),
				ReportPath: fs.reportPath,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "decoded %d entries\n", len(result.Entries))
			return nil
		},
	}
	fs.register(cmd.Flags())
	return cmd
}

func newEntryCmd() *cobra.Command {
	var fs flagSettings
	cmd := &cobra.Command{
		Use:   "entry <entry-file>",
		Short: "Decode a single isolated 1024-byte MFT entry file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			result, err := mftinfo.Run(cmdContext(cmd), mftinfo.Options{
				Entry:      buf,
				Settings:   fs.toSettings(),
				ReportPath: fs.reportPath,
			})
			if err != nil {
				return err
			}
			if len(result.Entries) == 0 {
				return errors.New("ntfsinfo: no entry decoded")
			}
			return nil
		},
	}
	fs.register(cmd.Flags())
	return cmd
}

func newVersionCmd() *cobra.Command {
	var doSelfUpdate bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version, or self-update with --self-update",
		RunE: func(cmd *cobra.Command, args []string) error {
			if doSelfUpdate {
				return runSelfUpdate(cmdContext(cmd))
			}
			fmt.Println(version)
			return nil
		},
	}
	cmd.Flags().BoolVar(&doSelfUpdate, "self-update", false, "update ntfsinfo to the latest release")
	return cmd
}

// cmdContext returns cmd's bound context, falling back to
// context.Background() for safety across cobra versions that may not
// propagate a non-nil context down to every subcommand.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runSelfUpdate(ctx context.Context) error {
	if version == "" || version == "dev" {
		return errors.New("self-update is only available in release builds")
	}
	if _, err := semver.ParseTolerant(version); err != nil {
		return fmt.Errorf("could not parse version: %w", err)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug("s0up4200/go-ntfsinfo"))
	if err != nil {
		return fmt.Errorf("error occurred while detecting version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest version for %s/%s could not be found from github repository", "s0up4200/go-ntfsinfo", version)
	}
	if latest.LessOrEqual(version) {
		fmt.Printf("Current binary is the latest version: %s\n", version)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("error occurred while updating binary: %w", err)
	}
	fmt.Printf("Successfully updated to version: %s\n", latest.Version())
	return nil
}
