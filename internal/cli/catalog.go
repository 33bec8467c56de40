package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/shade/hlsl"
	"github.com/roach88/shade/internal/ir"
)

// CatalogOptions holds flags for the catalog command.
type CatalogOptions struct {
	*RootOptions
	Family string
	Kind   string
}

// CatalogEntry is one overload as listed by the catalog command.
type CatalogEntry struct {
	Signature string    `json:"signature"`
	Member    string    `json:"member"`
	Func      string    `json:"func"`
	Family    ir.Family `json:"family"`
	ID        string    `json:"id"`
}

// catalog is the overload list the commands operate on.
var catalog = hlsl.Catalog

// NewCatalogCommand creates the catalog command.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the intrinsic overloads",
		Long: `List every overload of the compiled intrinsic catalog in catalog order:
operation order, then int32 before uint32, then the plain form before the
form that captures the original value.

Forms whose Go function differs from the HLSL operation name are shown
with the function kernels call.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Family, "family", "", "only list one family (barrier|atomic)")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only list overloads of one kind (int32|uint32)")

	return cmd
}

func runCatalog(opts *CatalogOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	family := ir.Family(opts.Family)
	if family != "" && family != ir.FamilyBarrier && family != ir.FamilyAtomic {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag,
			fmt.Sprintf("invalid --family %q: must be barrier or atomic", opts.Family), nil)
	}
	kind := ir.Kind(opts.Kind)
	if kind != "" && !ir.ValidKinds[kind] {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidFlag,
			fmt.Sprintf("invalid --kind %q: must be one of %v", opts.Kind, ir.Kinds), nil)
	}

	var entries []CatalogEntry
	for _, o := range catalog() {
		if family != "" && o.Family != family {
			continue
		}
		if kind != "" && o.Kind() != kind {
			continue
		}
		entries = append(entries, CatalogEntry{
			Signature: o.Signature(),
			Member:    o.Member,
			Func:      o.Func,
			Family:    o.Family,
			ID:        ir.MustOverloadID(o),
		})
	}
	opts.Log.WithField("overloads", len(entries)).Debug("catalog listed")

	if formatter.JSON() {
		if entries == nil {
			entries = []CatalogEntry{}
		}
		return formatter.Success(entries)
	}

	for _, e := range entries {
		if e.Func == e.Member {
			fmt.Fprintln(formatter.Writer, e.Signature)
			continue
		}
		fmt.Fprintf(formatter.Writer, "%s as %s\n", e.Signature, e.Func)
	}
	fmt.Fprintf(formatter.Writer, "\n%d overload(s)\n", len(entries))
	return nil
}
