package cmd

const (
	DEF_MODE = MODE_TERMINAL

	MODE_TERMINAL = "terminal"
	MODE_PROGRESS = "progress"
	MODE_EVENTS   = "events"

	// keepValue is the timing flag default meaning "use the script's value".
	keepValue = -1
)

var modes = []string{MODE_TERMINAL, MODE_PROGRESS, MODE_EVENTS}

const DESCRIPTION = `
termseq compiles scripted terminal sequences (typed commands, instant
output lines, nested JSON blocks) into absolute timelines and plays
them back in a terminal, as a progress gauge, or as a JSON event stream.
It can also host sequences over JSON-RPC for browser front ends.
`

const (
	CompileDescription = `The compile command turns a script (.json, .yaml, .yml, .js)
or a built-in preset into a timeline and prints the start time,
duration and text of every step.

Example:
        termseq compile intro.yaml --set name=Ada
                    OR
        termseq compile --preset routing --path /blog --json

`
	PlayDescription = `The play command compiles a script or preset and plays it
in real time. Use --mode to pick the output: a typing terminal,
a progress bar, or one JSON event per line.

Example:
        termseq play intro.js --set name=Ada
                    OR
        termseq play --preset splash --mode events

`
	SubstituteDescription = `The substitute command replaces $name placeholders in the
given text using the --set replacements. Unknown placeholders are
left as they are.

Example:
        termseq substitute 'Welcome to $name' --set name=Ada

`
	PresetsDescription = `The presets command lists the built-in sequences and the
replacements that can be rebound while they play.

Example:
        termseq presets

`
	ServeDescription = `The serve command hosts the JSON-RPC endpoints over HTTP
(POST /jsonrpc) and WebSocket (GET /jsonrpc/ws). Every request must
carry the bearer token from --secret or $TERMSEQ_RPC_SECRET; a random
token is generated and printed when none is set.

Example:
        termseq serve --addr 127.0.0.1:7312

`
)

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`
