package completions

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tooltree/cli/internal/argparse"
	"github.com/tooltree/cli/internal/registry"
	"github.com/tooltree/cli/internal/tooldefs"
)

func candidateLoader(t *testing.T) *registry.Loader {
	t.Helper()
	ld := registry.New()
	ld.Activate([]string{"build"}, 0)
	ld.Activate([]string{"build", "all"}, 0)
	ld.Activate([]string{"bench"}, 0)
	ld.Activate([]string{"test"}, 0)
	return ld
}

func TestCandidates_SubtoolPrefix(t *testing.T) {
	ld := candidateLoader(t)

	require.Equal(t, []string{"bench", "build"}, Candidates(ld, []string{"b"}))
	require.Equal(t, []string{"bench", "build", "test"}, Candidates(ld, []string{""}))
	require.Equal(t, []string{"all"}, Candidates(ld, []string{"build", "a"}))
	require.Empty(t, Candidates(ld, []string{"nosuch", "x"}))
}

func TestCandidates_FlagSwitches(t *testing.T) {
	ld := candidateLoader(t)
	def, _, err := ld.Lookup([]string{"build"})
	require.NoError(t, err)
	require.NoError(t, def.AddFlag(tooldefs.FlagSpec{Key: "verbose", Switches: []string{"-v", "--verbose"}}))
	require.NoError(t, def.AddFlag(tooldefs.FlagSpec{Key: "jobs", Switches: []string{"--jobs=N"}}))

	require.Equal(t, []string{"--verbose", "--jobs"}, Candidates(ld, []string{"build", "--"}))
	require.Equal(t, []string{"--verbose"}, Candidates(ld, []string{"build", "--v"}))
}

func TestCandidates_HidesReservedTools(t *testing.T) {
	ld := candidateLoader(t)
	ld.Activate([]string{CandidatesTool}, 0)

	for _, candidate := range Candidates(ld, []string{""}) {
		require.NotContains(t, candidate, "__")
	}
}

func TestScript_PerShell(t *testing.T) {
	for _, shell := range []Shell{ShellBash, ShellZsh, ShellFish} {
		script, err := Script(shell, "tt", "/usr/local/bin/tt")
		require.NoError(t, err, "shell %s", shell)
		require.Contains(t, script, "/usr/local/bin/tt "+CandidatesTool)
		require.Contains(t, script, "tt")
	}

	_, err := Script(Shell("powershell"), "tt", "tt")
	require.ErrorContains(t, err, "unsupported shell")
}

func TestRunningShell(t *testing.T) {
	t.Setenv("SHELL", "/usr/bin/zsh")
	require.Equal(t, ShellZsh, RunningShell())

	t.Setenv("SHELL", "/bin/csh")
	require.Equal(t, Shell(""), RunningShell())
}

func TestSource_CompletionToolPrintsScript(t *testing.T) {
	ld := registry.New()
	ld.AddSource(NewSource("tt", 0))

	def, _, err := ld.Lookup([]string{"completion"})
	require.NoError(t, err)
	require.True(t, def.Runnable())

	values, err := argparse.Match(def, []string{"bash"})
	require.NoError(t, err)

	var out bytes.Buffer
	inv := tooldefs.NewInvocation(def, ld, values)
	inv.Stdout = &out
	require.NoError(t, def.Run()(context.Background(), inv))
	require.Contains(t, out.String(), "complete -o default")

	_, err = argparse.Match(def, []string{"powershell"})
	require.Error(t, err, "unsupported shells are rejected up front")
}

func TestSource_ReservedToolAnswersQueries(t *testing.T) {
	ld := registry.New()
	ld.AddSource(NewSource("tt", 0))
	ld.Activate([]string{"deploy"}, 0)

	def, _, err := ld.Lookup([]string{CandidatesTool})
	require.NoError(t, err)
	require.True(t, def.ArgParsingDisabled())

	values, err := argparse.Match(def, []string{"--", "de"})
	require.NoError(t, err)

	var out bytes.Buffer
	inv := tooldefs.NewInvocation(def, ld, values)
	inv.Stdout = &out
	require.NoError(t, def.Run()(context.Background(), inv))

	lines := strings.Fields(out.String())
	require.Equal(t, []string{"deploy"}, lines)
}
