package helpview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tooltree/cli/internal/registry"
	"github.com/tooltree/cli/internal/tooldefs"
)

func treeLoader(t *testing.T) *registry.Loader {
	t.Helper()
	ld := registry.New()
	ld.Activate([]string{"build"}, 0).SetDesc("build the project")
	ld.Activate([]string{"build-all"}, 0).SetDesc("build every target")
	ld.Activate([]string{"test"}, 0).SetDesc("run the tests")
	ld.Activate([]string{"release", "build"}, 0).SetDesc("cut a release build")
	return ld
}

func TestSynopsis_SignatureShape(t *testing.T) {
	def := tooldefs.NewDefinition([]string{"build"}, 0, nil)
	require.NoError(t, def.AddFlag(tooldefs.FlagSpec{Key: "verbose"}))
	require.NoError(t, def.AddRequiredArg(tooldefs.ArgSpec{Name: "target"}))
	require.NoError(t, def.AddOptionalArg(tooldefs.ArgSpec{Name: "mode"}))
	require.NoError(t, def.SetRemainingArg(tooldefs.ArgSpec{Name: "rest"}))

	require.Equal(t, "tt build [FLAGS...] <target> [mode] [rest...]", Synopsis(def, "tt"))
}

func TestSynopsis_DisabledParsing(t *testing.T) {
	def := tooldefs.NewDefinition([]string{"wrap"}, 0, nil)
	require.NoError(t, def.DisableArgParsing())

	require.Equal(t, "tt wrap [ARGS...]", Synopsis(def, "tt"))
}

func TestUsage_WrapsAtWidth(t *testing.T) {
	def := tooldefs.NewDefinition([]string{"averylongtoolname"}, 0, nil)
	for _, name := range []string{"alpha", "beta", "gamma", "delta"} {
		require.NoError(t, def.AddRequiredArg(tooldefs.ArgSpec{Name: name}))
	}

	out := Usage(def, "tt", 30)
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		require.LessOrEqual(t, len(line), 30, "line %q", line)
	}
	require.True(t, strings.HasPrefix(out, "Usage: tt averylongtoolname"))
}

func TestRender_SectionsPresent(t *testing.T) {
	ld := treeLoader(t)
	def := ld.Activate([]string{"build"}, 0)
	def.SetLongDesc("Compiles the project from source.")
	require.NoError(t, def.AddFlag(tooldefs.FlagSpec{Key: "verbose", Switches: []string{"-v", "--verbose"}, Desc: "noisy output"}))
	require.NoError(t, def.AddRequiredArg(tooldefs.ArgSpec{Name: "target", Desc: "what to build"}))

	out := Render(def, ld, Options{BinaryName: "tt"})
	require.Contains(t, out, "build - build the project")
	require.Contains(t, out, "USAGE")
	require.Contains(t, out, "Compiles the project from source.")
	require.Contains(t, out, "FLAGS")
	require.Contains(t, out, "-v, --verbose")
	require.Contains(t, out, "ARGUMENTS")
	require.Contains(t, out, "<target>")
}

func TestRender_SubtoolListing(t *testing.T) {
	ld := treeLoader(t)

	out := Render(ld.Root(), ld, Options{BinaryName: "tt"})
	require.Contains(t, out, "TOOLS")
	require.Contains(t, out, "build the project")
	require.Contains(t, out, "run the tests")
	require.NotContains(t, out, "cut a release build", "non-recursive listing shows direct children only")

	out = Render(ld.Root(), ld, Options{BinaryName: "tt", Recursive: true})
	require.Contains(t, out, "cut a release build")
}

func TestRender_SearchFiltering(t *testing.T) {
	ld := treeLoader(t)

	out := Render(ld.Root(), ld, Options{BinaryName: "tt", Recursive: true, Search: "bui"})
	require.Contains(t, out, "build the project")
	require.Contains(t, out, "build every target")
	require.Contains(t, out, "release", "ancestor namespace of a match is kept")
	require.NotContains(t, out, "run the tests")
}

func TestRender_SearchMatchesDescriptions(t *testing.T) {
	ld := treeLoader(t)

	out := Render(ld.Root(), ld, Options{BinaryName: "tt", Search: "tests"})
	require.Contains(t, out, "run the tests")
	require.NotContains(t, out, "build the project")
}

func TestRender_ShowSource(t *testing.T) {
	ld := registry.New()
	def := ld.Activate([]string{"build"}, 0)
	def.LockSource("tools/build.hcl")

	out := Render(def, ld, Options{BinaryName: "tt", ShowSource: true})
	require.Contains(t, out, "tools/build.hcl")
}

func TestRender_LongDescWrapped(t *testing.T) {
	ld := registry.New()
	def := ld.Activate([]string{"build"}, 0)
	def.SetLongDesc(strings.Repeat("word ", 30))

	out := Render(def, ld, Options{BinaryName: "tt", WrapWidth: 40})
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "word") {
			require.LessOrEqual(t, len(line), 40)
		}
	}
}
