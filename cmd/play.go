package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/publieople/termseq/cmd/common"
	cmn "github.com/publieople/termseq/common"
	"github.com/publieople/termseq/internal/player"
	"github.com/publieople/termseq/internal/render"
	"github.com/urfave/cli"
)

var (
	mode string

	playFlags = withFlags(
		sourceFlags,
		timingFlags,
		[]cli.Flag{
			setFlag,
			cli.StringFlag{
				Name:        "mode, m",
				Usage:       "output mode: terminal, progress or events",
				Value:       DEF_MODE,
				Destination: &mode,
			},
			cli.BoolFlag{
				Name:        "no-color",
				Usage:       "disable ANSI colours",
				EnvVar:      cmn.NoColorEnv,
				Destination: &noColor,
			},
		},
		logFlags,
	)
)

func play(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if !slices.Contains(modes, mode) {
		return common.PrintErrWithCmdHelp(ctx, errUnknownMode)
	}
	l, err := newLogger()
	if err != nil {
		common.PrintRuntimeErr(ctx, "play", "new_logger", err)
		return nil
	}
	defer l.Close()

	repl, err := parseSet(ctx.StringSlice("set"))
	if err != nil {
		return common.PrintErrWithCmdHelp(ctx, err)
	}
	sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seq, err := loadSequence(sctx, ctx, l, repl)
	if err != nil {
		common.PrintRuntimeErr(ctx, "play", "load", err)
		return nil
	}
	tl, err := seq.Compile(repl)
	if err != nil {
		common.PrintRuntimeErr(ctx, "play", "compile", err)
		return nil
	}

	p := player.New(sctx, l)
	switch mode {
	case MODE_PROGRESS:
		pr := render.NewProgress(sctx, os.Stdout, seq.Name, tl)
		err = p.Play(tl, pr).Wait(context.Background())
		if err != nil {
			pr.Abort()
		}
		pr.Wait()
	case MODE_EVENTS:
		ev := render.NewEvents(os.Stdout)
		err = p.Play(tl, ev).Wait(context.Background())
		if werr := ev.Err(); werr != nil && err == nil {
			err = werr
		}
	default:
		term := render.NewTerminal(os.Stdout, render.TerminalOpts{
			Color: render.ColorEnabled(os.Stdout, noColor),
			Width: render.Width(os.Stdout),
			Live:  render.IsTerminal(os.Stdout),
		})
		err = p.Play(tl, term).Wait(context.Background())
	}
	switch {
	case err == nil:
	case errors.Is(err, player.ErrStopped):
		// interrupted by a signal
		l.Info("playback of %q interrupted", seq.Name)
	default:
		common.PrintRuntimeErr(ctx, "play", "playback", err)
	}
	return nil
}
