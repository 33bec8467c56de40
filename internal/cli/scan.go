package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/shade/internal/lower"
	"github.com/roach88/shade/internal/scan"
)

// ScanCall is one resolved call site as reported by the scan command.
type ScanCall struct {
	scan.CallSite
	HLSL string `json:"hlsl,omitempty"`
}

// ScanResult is the JSON payload of the scan command.
type ScanResult struct {
	Package     string            `json:"package"`
	Files       []string          `json:"files"`
	Calls       []ScanCall        `json:"calls"`
	Diagnostics []scan.Diagnostic `json:"diagnostics"`
}

// NewScanCommand creates the scan command.
func NewScanCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <kernel-dir>",
		Short: "Resolve catalog call sites in a kernel package",
		Long: `Type-check the non-test Go files of one kernel package and resolve every
call into the intrinsic catalog to exactly one overload, using static types
only. With --lower each call site is also rendered as an HLSL statement.

Exits 1 when a catalog function is used as a value, cannot be resolved, or
the kernel does not type-check.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(opts, args[0], cmd)
		},
	}

	// Resolved through the configuration as scan.lower and scan.import_path.
	cmd.Flags().Bool("lower", false, "render each call site as HLSL")
	cmd.Flags().String("import-path", scan.DefaultImportPath, "import path kernels use for the catalog")

	return cmd
}

func runScan(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	cfg := opts.Config.Scan

	report, err := scan.Dir(cmd.Context(), dir, scan.Options{
		ImportPath: cfg.ImportPath,
		Log:        opts.Log.WithField("dir", dir),
	})
	if err != nil {
		code := ErrCodeScanFailed
		if errors.Is(err, os.ErrNotExist) {
			code = ErrCodeNotFound
		}
		return formatter.Fail(ExitCommandError, code, err.Error(), nil)
	}

	result := ScanResult{
		Package:     report.Package,
		Files:       report.Files,
		Calls:       make([]ScanCall, len(report.Calls)),
		Diagnostics: report.Diagnostics,
	}
	if result.Diagnostics == nil {
		result.Diagnostics = []scan.Diagnostic{}
	}
	for i, site := range report.Calls {
		result.Calls[i] = ScanCall{CallSite: site}
		if !cfg.Lower {
			continue
		}
		stmt, err := lower.HLSL(site)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeLowerFailed, err.Error(), nil)
		}
		result.Calls[i].HLSL = stmt
	}
	opts.Log.WithField("calls", len(result.Calls)).WithField("diagnostics", len(result.Diagnostics)).Debug("scan finished")

	if formatter.JSON() {
		if !report.OK() {
			_ = formatter.Error(ErrCodeDiagnostics,
				fmt.Sprintf("%d unresolved catalog reference(s)", len(result.Diagnostics)), result)
			return NewExitError(ExitFailure, "unresolved catalog references")
		}
		return formatter.Success(result)
	}

	for _, c := range result.Calls {
		fmt.Fprintf(formatter.Writer, "%s: %s\n", c.Location, c.Signature)
		if c.HLSL != "" {
			fmt.Fprintf(formatter.Writer, "    %s\n", c.HLSL)
		}
	}
	if !report.OK() {
		fmt.Fprintf(formatter.Writer, "\n✗ %d unresolved catalog reference(s)\n", len(result.Diagnostics))
		for _, d := range result.Diagnostics {
			fmt.Fprintf(formatter.Writer, "  %s\n", d.Error())
		}
		return NewExitError(ExitFailure, "unresolved catalog references")
	}
	fmt.Fprintf(formatter.Writer, "\n✓ %d call site(s) in package %s\n", len(result.Calls), result.Package)
	return nil
}
