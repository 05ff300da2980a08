package presets

import "github.com/publieople/termseq/pkg/seqlib"

// SplashReplacements are the defaults used when the host does not supply
// profile values.
var SplashReplacements = map[string]string{
	"name":         "visitor",
	"title":        "Software Engineer",
	"description":  "Building things for the terminal.",
	"skip_message": "Press any key to continue...",
}

func command(id, text, style string, speed, delay int64) *seqlib.Step {
	return seqlib.Typing(id, text, style).
		WithRole(seqlib.RoleCommand).
		WithPrompt().
		WithSpeed(seqlib.Ms(speed)).
		WithDelay(seqlib.Ms(delay))
}

func response(id, text, style string, delay int64) *seqlib.Step {
	return seqlib.Instant(id, text, style).
		WithRole(seqlib.RoleResponse).
		WithDelay(seqlib.Ms(delay))
}

func status(id, text string, delay int64) *seqlib.Step {
	return seqlib.Instant(id, text, "text-white").
		WithRole(seqlib.RoleStatus).
		WithDelay(seqlib.Ms(delay))
}

func jsonLine(id, text, style string, delay int64) *seqlib.Step {
	return seqlib.Instant(id, text, style).
		WithRole(seqlib.RoleJSON).
		WithDelay(seqlib.Ms(delay))
}

// Splash is the boot sequence shown before the portfolio opens. Explicit
// delays are floors, so the script still reads correctly if $description
// is long.
func Splash() *seqlib.Sequence {
	steps := []*seqlib.Step{
		command("startup", "zsh startup.sh", "text-green-400", 10, 0),
		command("connect", "connect --server=portfolio.server --port=443", "text-blue-400", 10, 1000),
		response("connecting", "Connecting to portfolio.server...", "text-yellow-400", 1800),
		response("connected", "Connection established. Handshake completed.", "text-green-500", 2000),
		command("auth", "auth --token=visitor_session", "text-blue-400", 15, 2300),
		response("auth-success", "Authentication successful. Welcome, visitor.", "text-green-500", 2700),
		command("load-profile", "load-profile --target=author", "text-blue-400", 15, 3000),
		response("fetching", "Fetching profile data...", "text-cyan-400", 3400),
		jsonLine("json-start", "{", "text-white", 3700).WithChildren(
			jsonLine("json-name", `"name": "$name",`, "text-white pl-4", 3800),
			jsonLine("json-position", `"position": "$title",`, "text-white pl-4", 3900),
			jsonLine("json-bio", `"bio": "$description"`, "text-white pl-4", 4000),
		),
		jsonLine("json-end", "}", "text-white", 4100),
		response("profile-loaded", "Profile loaded successfully.", "text-green-400", 4400),
		command("init-app", "init-app --target=portfolio", "text-blue-400", 10, 4800),
		response("initializing", "Initializing application...", "text-yellow-300", 5200),
		status("loading-components", "[ ] Loading components", 5500),
		status("loading-components-done", "[{{✓|text-green-500}}] Loading components", 5800),
		status("compiling-styles", "[ ] Compiling styles", 6000),
		status("compiling-styles-done", "[{{✓|text-green-500}}] Compiling styles", 6300),
		status("init-events", "[ ] Initializing events", 6500),
		status("init-events-done", "[{{✓|text-green-500}}] Initializing events", 6800),
		response("init-done", "Application initialized successfully!", "text-green-500", 7100),
		command("launch", "launch", "text-blue-400", 10, 7400),
		response("welcome", "Welcome to $name's portfolio!", "text-green-500 font-bold", 7800),
		response("system-info", "System: Portfolio OS v1.0 [Ready]", "text-gray-400 text-sm", 8000),
		response("press-key", "$skip_message", "text-gray-400 mt-2", 8200),
	}
	return &seqlib.Sequence{
		Name:         "splash",
		Description:  "boot script with a profile JSON block",
		Steps:        steps,
		Opts:         opts(0, 10, 200, 0, 500),
		Replacements: SplashReplacements,
	}
}
