package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/shade/internal/manifest"
)

// ManifestExportOptions holds flags for the manifest export command.
type ManifestExportOptions struct {
	*RootOptions
	Output string
	YAML   bool
}

// ExportResult is the JSON payload of an export to a file.
type ExportResult struct {
	Path      string `json:"path"`
	Format    string `json:"format"`
	Overloads int    `json:"overloads"`
	CatalogID string `json:"catalog_id"`
}

// VerifyResult is the JSON payload of manifest verify.
type VerifyResult struct {
	Path      string           `json:"path"`
	Overloads int              `json:"overloads"`
	CatalogID string           `json:"catalog_id"`
	Issues    []manifest.Issue `json:"issues,omitempty"`
	Drift     *manifest.Drift  `json:"drift,omitempty"`
}

// NewManifestCommand creates the manifest command group.
func NewManifestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Export and verify catalog manifests",
		Long: `A manifest lists every overload with its signature and content-addressed
id, so a translator can key on overloads and detect catalog drift.`,
	}

	cmd.AddCommand(newManifestExportCommand(rootOpts))
	cmd.AddCommand(newManifestVerifyCommand(rootOpts))
	return cmd
}

func newManifestExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ManifestExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the manifest of the compiled catalog",
		Long: `Write the manifest of the compiled catalog. Without --output the document
is written to stdout. The encoding is YAML with --yaml or an .yaml/.yml
output path, JSON otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManifestExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().BoolVar(&opts.YAML, "yaml", false, "encode as YAML")

	return cmd
}

func runManifestExport(opts *ManifestExportOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	format := manifest.FormatJSON
	if opts.Output != "" {
		if f, err := manifest.FormatOf(opts.Output); err == nil {
			format = f
		}
	}
	if opts.YAML {
		format = manifest.FormatYAML
	}

	m, err := manifest.Build(catalog())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	if issues := manifest.Validate(m); len(issues) > 0 {
		return formatter.Fail(ExitFailure, ErrCodeInvalidInput, "compiled catalog does not satisfy the manifest schema", issues)
	}
	data, err := manifest.Encode(m, format)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	if opts.Output == "" {
		_, err := formatter.Writer.Write(data)
		return err
	}

	if err := os.WriteFile(opts.Output, data, 0644); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, fmt.Sprintf("writing manifest: %v", err), nil)
	}
	opts.Log.WithField("path", opts.Output).WithField("format", format).Debug("manifest written")

	if formatter.JSON() {
		return formatter.Success(ExportResult{
			Path:      opts.Output,
			Format:    string(format),
			Overloads: len(m.Overloads),
			CatalogID: m.CatalogID,
		})
	}
	fmt.Fprintf(formatter.Writer, "✓ Wrote %d overload(s) to %s\n", len(m.Overloads), opts.Output)
	return nil
}

func newManifestVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <manifest>",
		Short: "Check a manifest against the schema and the compiled catalog",
		Long: `Check a manifest file (.json, .yaml or .yml) against the manifest schema,
recompute every id it records, and compare it with the compiled catalog.

Exits 1 when the manifest is invalid or has drifted from the catalog.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runManifestVerify(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runManifestVerify(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	m, err := manifest.Load(path)
	if err != nil {
		code := ErrCodeNotFound
		if errors.Is(err, manifest.ErrUnknownFormat) {
			code = ErrCodeInvalidFlag
		}
		return formatter.Fail(ExitCommandError, code, err.Error(), nil)
	}
	opts.Log.WithField("path", path).WithField("overloads", len(m.Overloads)).Debug("manifest loaded")

	result := VerifyResult{Path: path, Overloads: len(m.Overloads), CatalogID: m.CatalogID}
	if issues := manifest.Verify(m); len(issues) > 0 {
		result.Issues = issues
		return outputVerifyFailure(formatter, ErrCodeInvalidInput,
			fmt.Sprintf("%s has %d issue(s)", path, len(issues)), result)
	}

	compiled, err := manifest.Build(catalog())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	if drift := manifest.Diff(m, compiled); !drift.Empty() {
		result.Drift = &drift
		return outputVerifyFailure(formatter, ErrCodeDrift,
			fmt.Sprintf("%s differs from the compiled catalog", path), result)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ %s matches the compiled catalog: %d overload(s)\n", path, result.Overloads)
	return nil
}

func outputVerifyFailure(formatter *OutputFormatter, code, message string, result VerifyResult) error {
	if formatter.JSON() {
		_ = formatter.Error(code, message, result)
		return NewExitError(ExitFailure, message)
	}

	fmt.Fprintf(formatter.Writer, "✗ %s\n\n", message)
	for _, issue := range result.Issues {
		fmt.Fprintf(formatter.Writer, "  %s\n", issue.Error())
	}
	if d := result.Drift; d != nil {
		for _, e := range d.Removed {
			fmt.Fprintf(formatter.Writer, "  - %s\n", e.Signature)
		}
		for _, e := range d.Added {
			fmt.Fprintf(formatter.Writer, "  + %s\n", e.Signature)
		}
		for _, c := range d.Changed {
			fmt.Fprintf(formatter.Writer, "  ~ %s (%v)\n", c.Signature, c.Fields)
		}
		if d.Reordered {
			fmt.Fprintln(formatter.Writer, "  overloads are in a different order")
		}
	}
	return NewExitError(ExitFailure, message)
}
