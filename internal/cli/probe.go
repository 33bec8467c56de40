package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shade/hlsl"
)

// ProbeResult is the outcome of invoking one intrinsic on the host.
type ProbeResult struct {
	Signature string `json:"signature"`
	Message   string `json:"message"`
	OK        bool   `json:"ok"`
}

// ProbeReport is the JSON payload of the probe command.
type ProbeReport struct {
	Probed  int           `json:"probed"`
	Refused int           `json:"refused"`
	Results []ProbeResult `json:"results"`
}

var (
	intrinsics = hlsl.Intrinsics
	invoke     = hlsl.Invoke
)

// NewProbeCommand creates the probe command.
func NewProbeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Invoke every intrinsic on the host",
		Long: `Call every overload of the catalog on the host with zero-valued cells.
Each call must refuse to run with an invalid-execution-context error whose
message is exactly the overload signature, and must not touch its cells.

Exits 1 when any intrinsic returns normally or reports the wrong signature.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(rootOpts, cmd)
		},
	}

	return cmd
}

func runProbe(opts *RootOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	report := ProbeReport{Results: []ProbeResult{}}
	for _, m := range intrinsics() {
		res := probe(m)
		report.Probed++
		if res.OK {
			report.Refused++
		}
		report.Results = append(report.Results, res)
		opts.Log.WithField("signature", res.Signature).WithField("ok", res.OK).Debug(res.Message)
	}

	failed := report.Probed - report.Refused
	if formatter.JSON() {
		if failed > 0 {
			_ = formatter.Error(ErrCodeGuard, fmt.Sprintf("%d intrinsic(s) did not refuse host execution", failed), report)
			return NewExitError(ExitFailure, "guard mismatch")
		}
		return formatter.Success(report)
	}

	for _, res := range report.Results {
		if res.OK && !formatter.Verbose {
			continue
		}
		mark := "✓"
		if !res.OK {
			mark = "✗"
		}
		fmt.Fprintf(formatter.Writer, "%s %s: %s\n", mark, res.Signature, res.Message)
	}
	if failed > 0 {
		fmt.Fprintf(formatter.Writer, "✗ %d of %d intrinsic(s) did not refuse host execution\n", failed, report.Probed)
		return NewExitError(ExitFailure, "guard mismatch")
	}
	fmt.Fprintf(formatter.Writer, "✓ %d/%d intrinsic(s) refused host execution\n", report.Refused, report.Probed)
	return nil
}

func probe(m hlsl.Intrinsic) ProbeResult {
	res := ProbeResult{Signature: m.Signature()}

	err := invoke(m)
	switch {
	case err == nil:
		res.Message = "returned normally"
	case !errors.Is(err, hlsl.ErrInvalidExecutionContext):
		res.Message = fmt.Sprintf("unexpected error: %v", err)
	case err.Error() != res.Signature:
		res.Message = fmt.Sprintf("guard reported %q", err.Error())
	default:
		res.Message = err.Error()
		res.OK = true
	}
	return res
}
