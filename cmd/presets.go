package cmd

import (
	"fmt"
	"strings"

	"github.com/publieople/termseq/cmd/common"
	"github.com/publieople/termseq/internal/presets"
	"github.com/urfave/cli"
)

func listPresets(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	txt := "Built-in presets:"
	for _, p := range presets.List() {
		txt += fmt.Sprintf("\n  %s %s", common.Pad(p.Name, 10), p.Description)
		if len(p.Rebindable) > 0 {
			txt += fmt.Sprintf("\n  %s rebindable: $%s", common.Pad("", 10), strings.Join(p.Rebindable, ", $"))
		}
	}
	fmt.Println(txt)
	return nil
}
