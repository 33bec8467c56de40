// Command shade inspects the HLSL intrinsic catalog and resolves kernel
// call sites to its overloads.
package main

import (
	"os"

	"github.com/roach88/shade/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand()))
}
