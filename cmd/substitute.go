package cmd

import (
	"fmt"
	"strings"

	"github.com/publieople/termseq/cmd/common"
	"github.com/publieople/termseq/pkg/seqlib"
	"github.com/urfave/cli"
)

var substituteFlags = []cli.Flag{setFlag}

func substitute(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if !ctx.Args().Present() {
		return common.PrintErrWithCmdHelp(ctx, errMissingInput)
	}
	repl, err := parseSet(ctx.StringSlice("set"))
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	fmt.Println(seqlib.Substitute(strings.Join(ctx.Args(), " "), repl))
	return nil
}
