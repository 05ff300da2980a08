package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/publieople/termseq/cmd/common"
	"github.com/publieople/termseq/pkg/seqlib"
	"github.com/urfave/cli"
)

const (
	idColumn   = 12
	textColumn = 40
)

var (
	jsonOutput bool

	compileFlags = withFlags(
		sourceFlags,
		timingFlags,
		[]cli.Flag{
			setFlag,
			cli.BoolFlag{
				Name:        "json, j",
				Usage:       "print the timeline as JSON",
				Destination: &jsonOutput,
			},
		},
		logFlags,
	)
)

func compile(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	l, err := newLogger()
	if err != nil {
		common.PrintRuntimeErr(ctx, "compile", "new_logger", err)
		return nil
	}
	defer l.Close()

	repl, err := parseSet(ctx.StringSlice("set"))
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	seq, err := loadSequence(context.Background(), ctx, l, repl)
	if err != nil {
		common.PrintRuntimeErr(ctx, "compile", "load", err)
		return nil
	}
	tl, err := seq.Compile(repl)
	if err != nil {
		common.PrintRuntimeErr(ctx, "compile", "compile", err)
		return nil
	}
	if jsonOutput {
		b, err := json.MarshalIndent(tl.View(), "", "  ")
		if err != nil {
			common.PrintRuntimeErr(ctx, "compile", "marshal", err)
			return nil
		}
		fmt.Println(string(b))
		return nil
	}
	fmt.Println(timelineTable(seq.Name, tl))
	return nil
}

// timelineTable formats tl as a fixed-width table, one row per step in
// play order. Nested steps are indented under their parent.
func timelineTable(name string, tl *seqlib.Timeline) string {
	if tl.Len() == 0 {
		return "termseq: sequence has no steps"
	}
	sep := "\n" + strings.Repeat("-", idColumn+textColumn+48)
	txt := fmt.Sprintf("Timeline %q (%d steps):", name, tl.Len())
	txt += sep
	txt += fmt.Sprintf("\n|Num| %s |  Kind   | Start ms | Dur ms | End ms | %s |",
		common.Beaut("ID", idColumn), common.Beaut("Text", textColumn))
	txt += sep
	for _, st := range tl.Flatten() {
		text := strings.Repeat("  ", st.Depth) + st.Text
		txt += fmt.Sprintf("\n|%3d| %s | %-7s | %8d | %6d | %6d | %s |",
			st.Index+1,
			common.Pad(st.ID, idColumn),
			st.Kind,
			seqlib.Millis(st.StartDelay),
			seqlib.Millis(st.Duration+st.Hold),
			seqlib.Millis(st.End()),
			common.Pad(text, textColumn),
		)
	}
	txt += sep
	txt += fmt.Sprintf("\nTotal: %d ms", seqlib.Millis(tl.TotalDuration))
	return txt
}
