package cmd

import (
	"fmt"
	"runtime"

	"github.com/publieople/termseq/cmd/common"
	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

// buildArgs is kept for the serve command's system.getVersion.
var buildArgs BuildArgs

func Execute(args []string, bArgs BuildArgs) error {
	buildArgs = bArgs
	app := cli.App{
		Name:                  "termseq",
		HelpName:              "termseq",
		Usage:                 "Compile and play scripted terminal sequences.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "termseq <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Commands: []cli.Command{
			{
				Name:                   "compile",
				Aliases:                []string{"c"},
				Usage:                  "compile a script or preset into a timeline",
				ArgsUsage:              "[file]",
				Description:            CompileDescription,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Action:                 compile,
				UseShortOptionHandling: true,
				Flags:                  compileFlags,
			},
			{
				Name:                   "play",
				Aliases:                []string{"p"},
				Usage:                  "play a script or preset in real time",
				ArgsUsage:              "[file]",
				Description:            PlayDescription,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Action:                 play,
				UseShortOptionHandling: true,
				Flags:                  playFlags,
			},
			{
				Name:               "substitute",
				Aliases:            []string{"s"},
				Usage:              "replace $name placeholders in text",
				ArgsUsage:          "<text>",
				Description:        SubstituteDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             substitute,
				Flags:              substituteFlags,
			},
			{
				Name:               "presets",
				Aliases:            []string{"ls"},
				Usage:              "list the built-in presets",
				Description:        PresetsDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             listPresets,
			},
			{
				Name:               "serve",
				Usage:              "host sequences over JSON-RPC",
				Description:        ServeDescription,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             serve,
				Flags:              serveFlags,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of termseq",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      common.Help,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
