package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/publieople/termseq/cmd/common"
	cmn "github.com/publieople/termseq/common"
	"github.com/publieople/termseq/internal/server"
	"github.com/urfave/cli"
)

var (
	serveAddr string
	secret    string

	serveFlags = withFlags(
		[]cli.Flag{
			cli.StringFlag{
				Name:        "addr, a",
				Usage:       "listen address",
				Value:       server.DEF_ADDR,
				EnvVar:      cmn.RPCAddrEnv,
				Destination: &serveAddr,
			},
			cli.StringFlag{
				Name:        "secret",
				Usage:       "bearer token clients must send (generated when empty)",
				EnvVar:      cmn.RPCSecretEnv,
				Destination: &secret,
			},
		},
		logFlags,
	)
)

func serve(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	l, err := newLogger()
	if err != nil {
		common.PrintRuntimeErr(ctx, "serve", "new_logger", err)
		return nil
	}
	defer l.Close()

	token := secret
	if token == "" {
		token = uuid.NewString()
		fmt.Printf("termseq: generated RPC secret: %s\n", token)
	}
	s := server.NewServer(l, serveAddr, &server.RPCConfig{
		Secret:    token,
		Version:   buildArgs.Version,
		Commit:    buildArgs.Commit,
		BuildType: buildArgs.BuildType,
	})
	addr, err := s.Listen()
	if err != nil {
		common.PrintRuntimeErr(ctx, "serve", "listen", err)
		return nil
	}
	fmt.Printf("termseq: serving JSON-RPC on http://%s/jsonrpc (ws://%s/jsonrpc/ws)\n", addr, addr)

	sctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Start(sctx)
}
