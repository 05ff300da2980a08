package presets

import "github.com/publieople/termseq/pkg/seqlib"

type line struct {
	typing bool
	text   string
	style  string
}

func (l line) step() *seqlib.Step {
	if l.typing {
		return seqlib.Typing("", l.text, l.style).WithRole(seqlib.RoleCommand)
	}
	return seqlib.Instant("", l.text, l.style).WithRole(seqlib.RoleResponse)
}

func shellSequence(name, desc string, lines []line) *seqlib.Sequence {
	steps := make([]*seqlib.Step, len(lines))
	for i, l := range lines {
		steps[i] = l.step()
	}
	return &seqlib.Sequence{
		Name:        name,
		Description: desc,
		Steps:       steps,
		Opts:        opts(150, 15, 120, 150, 500),
	}
}

// Git is a status, commit and push session.
func Git() *seqlib.Sequence {
	return shellSequence("git", "git status, commit and push", []line{
		{true, "> git status", "text-zinc-300"},
		{false, "On branch main", "text-green-500"},
		{false, "Your branch is up to date with 'origin/main'.", "text-green-500"},
		{false, "", "text-green-500"},
		{false, "Changes not staged for commit:", "text-yellow-500"},
		{false, `  (use "git add <file>..." to update what will be committed)`, "text-zinc-400"},
		{false, `  (use "git restore <file>..." to discard changes in working directory)`, "text-zinc-400"},
		{false, "        modified:   src/components/layout/TerminalPageTransition.tsx", "text-red-400"},
		{true, "> git add .", "text-zinc-300"},
		{true, `> git commit -m "add terminal page transition"`, "text-zinc-300"},
		{false, "[main 3e4f982] add terminal page transition", "text-green-500"},
		{false, " 3 files changed, 218 insertions(+), 42 deletions(-)", "text-green-500"},
		{true, "> git push", "text-zinc-300"},
		{false, "Enumerating objects: 14, done.", "text-blue-500"},
		{false, "Counting objects: 100% (14/14), done.", "text-blue-500"},
		{false, "Compressing objects: 100% (8/8), done.", "text-blue-500"},
		{false, "Writing objects: 100% (8/8), 1.21 KiB | 621.00 KiB/s, done.", "text-blue-500"},
		{false, "Total 8 (delta 5), reused 0 (delta 0), pack-reused 0", "text-blue-500"},
		{false, "remote: Resolving deltas: 100% (5/5), completed with 5 local objects.", "text-blue-500"},
		{false, "To github.com:username/homepage.git", "text-blue-500"},
		{false, "   a1b2c3d..3e4f982  main -> main", "text-blue-500"},
	})
}

// Npm is a yarn install followed by a dev server start.
func Npm() *seqlib.Sequence {
	return shellSequence("npm", "yarn install and dev server start", []line{
		{true, "> yarn install", "text-zinc-300"},
		{false, "yarn install v1.22.19", "text-blue-500"},
		{false, "[1/4] 🔍  Resolving packages...", "text-blue-500"},
		{false, "[2/4] 🚚  Fetching packages...", "text-blue-500"},
		{false, "[3/4] 🔗  Linking dependencies...", "text-blue-500"},
		{false, "[4/4] 🔨  Building fresh packages...", "text-blue-500"},
		{false, "✨  Done in 3.64s.", "text-green-500"},
		{true, "> yarn dev", "text-zinc-300"},
		{false, "vite v6.3.1 dev server running at:", "text-blue-500"},
		{false, "  ➜  Local:   http://localhost:5173/", "text-green-500"},
		{false, "  ➜  Network: http://192.168.1.100:5173/", "text-green-500"},
		{false, "", "text-green-500"},
		{false, "  ready in 634ms.", "text-green-500"},
		{false, "", "text-green-500"},
		{false, "  ➜  Page reloaded", "text-green-500"},
	})
}
