package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shade/internal/check"
	"github.com/roach88/shade/internal/ir"
)

// CheckResult is the JSON payload of a passing check.
type CheckResult struct {
	Overloads int    `json:"overloads"`
	CatalogID string `json:"catalog_id"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the catalog invariants",
		Long: `Verify the invariants a translator relies on to dispatch by static type:
barriers take no parameters, atomics start with a ref destination of one
kind, int32 and uint32 variants mirror each other, original slots come
last, and no two overloads resolve identically.

Exits 1 and lists every violation when the catalog is malformed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, cmd)
		},
	}

	return cmd
}

func runCheck(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	overloads := catalog()

	errs := check.Validate(overloads)
	if len(errs) > 0 {
		for _, e := range errs {
			opts.Log.WithField("code", e.Code).WithField("field", e.Field).Debug(e.Message)
		}
		return outputCheckErrors(formatter, errs)
	}

	catalogID, err := ir.CatalogID(overloads)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}

	if formatter.JSON() {
		return formatter.Success(CheckResult{Overloads: len(overloads), CatalogID: catalogID})
	}
	fmt.Fprintf(formatter.Writer, "✓ Catalog ok: %d overload(s)\n", len(overloads))
	fmt.Fprintf(formatter.Writer, "  catalog id %s\n", catalogID)
	return nil
}

func outputCheckErrors(formatter *OutputFormatter, errs []check.ValidationError) error {
	message := fmt.Sprintf("catalog has %d violation(s)", len(errs))

	if formatter.JSON() {
		_ = formatter.Error(ErrCodeViolations, message, errs)
		return NewExitError(ExitFailure, message)
	}

	fmt.Fprintln(formatter.Writer, "✗ Catalog check failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n", e.Code, e.Field, e.Message)
	}
	return NewExitError(ExitFailure, message)
}
