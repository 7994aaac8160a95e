package middlewares

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tooltree/cli/internal/registry"
	"github.com/tooltree/cli/internal/tooldefs"
	"github.com/tooltree/cli/internal/ui"
	"github.com/tooltree/cli/internal/usage"
)

func helpEnv(t *testing.T) (*registry.Loader, *bytes.Buffer, *ShowHelp) {
	t.Helper()
	ld := registry.New()
	var out bytes.Buffer
	m := NewShowHelp(
		WithBinaryName("tt"),
		WithWriter(ui.NewWriterTo(&out)),
	)
	return ld, &out, m
}

func TestConfigure_InjectsHelpAndUsageFlags(t *testing.T) {
	ld, _, m := helpEnv(t)
	def := ld.Activate([]string{"build"}, 0)

	require.NoError(t, Configure(def, ld, []tooldefs.Middleware{m}))

	help, ok := def.FlagByKey(HelpKey)
	require.True(t, ok)
	require.True(t, def.HasSwitch("-?"))
	require.True(t, def.HasSwitch("--help"))
	require.Equal(t, false, help.Default())

	_, ok = def.FlagByKey(UsageKey)
	require.True(t, ok)
}

func TestConfigure_RecursiveFlagOnlyOnNamespaces(t *testing.T) {
	ld, _, m := helpEnv(t)
	namespace := ld.Activate([]string{"config"}, 0)
	ld.Activate([]string{"config", "set"}, 0)
	leaf := ld.Activate([]string{"version"}, 0)

	require.NoError(t, Configure(namespace, ld, []tooldefs.Middleware{m}))
	_, ok := namespace.FlagByKey(RecursiveKey)
	require.True(t, ok)
	_, ok = namespace.FlagByKey(SearchKey)
	require.True(t, ok)

	require.NoError(t, Configure(leaf, ld, []tooldefs.Middleware{m}))
	_, ok = leaf.FlagByKey(RecursiveKey)
	require.False(t, ok)
	_, ok = leaf.FlagByKey(SearchKey)
	require.False(t, ok)
}

func TestConfigure_SkipsSwitchesClaimedByTool(t *testing.T) {
	ld, _, m := helpEnv(t)
	def := ld.Activate([]string{"build"}, 0)
	require.NoError(t, def.AddFlag(tooldefs.FlagSpec{Key: "harder", Switches: []string{"-?"}}))

	require.NoError(t, Configure(def, ld, []tooldefs.Middleware{m}))

	help, ok := def.FlagByKey(HelpKey)
	require.True(t, ok, "help stays available through the free switch")
	require.Equal(t, []tooldefs.Switch{{Name: "--help"}}, help.Switches())
}

func TestConfigure_EmptyHelpFlagsDisablesHelp(t *testing.T) {
	ld, _, _ := helpEnv(t)
	m := NewShowHelp(WithHelpFlags(), WithUsageFlags())
	def := ld.Activate([]string{"build"}, 0)

	require.NoError(t, Configure(def, ld, []tooldefs.Middleware{m}))
	require.Empty(t, def.Flags())
}

func TestConfigure_SkipsDisabledParsing(t *testing.T) {
	ld, _, m := helpEnv(t)
	def := ld.Activate([]string{"wrap"}, 0)
	require.NoError(t, def.DisableArgParsing())

	require.NoError(t, Configure(def, ld, []tooldefs.Middleware{m}))
	require.Empty(t, def.Flags())
}

func TestConfigure_ToolNameArgsOnRootOnly(t *testing.T) {
	ld, _, _ := helpEnv(t)
	m := NewShowHelp(WithToolNameArgs(true))

	require.NoError(t, Configure(ld.Root(), ld, []tooldefs.Middleware{m}))
	require.NotNil(t, ld.Root().RemainingArg())

	leaf := ld.Activate([]string{"build"}, 0)
	require.NoError(t, Configure(leaf, ld, []tooldefs.Middleware{m}))
	require.Nil(t, leaf.RemainingArg())
}

func runWrapped(t *testing.T, ld *registry.Loader, m *ShowHelp, def *tooldefs.Definition, values map[string]any, behavior tooldefs.RunFunc) error {
	t.Helper()
	inv := tooldefs.NewInvocation(def, ld, values)
	return Execute(context.Background(), inv, []tooldefs.Middleware{m}, behavior)
}

func TestWrap_UsageShortCircuits(t *testing.T) {
	ld, out, m := helpEnv(t)
	def := ld.Activate([]string{"build"}, 0)
	def.SetRun(func(context.Context, *tooldefs.Invocation) error {
		t.Fatal("behavior must not run")
		return nil
	})
	require.NoError(t, Configure(def, ld, []tooldefs.Middleware{m}))

	err := runWrapped(t, ld, m, def, map[string]any{UsageKey: true}, def.Run())
	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage: tt build")
}

func TestWrap_HelpShortCircuits(t *testing.T) {
	ld, out, m := helpEnv(t)
	def := ld.Activate([]string{"build"}, 0)
	def.SetDesc("build the project")
	def.SetRun(func(context.Context, *tooldefs.Invocation) error {
		t.Fatal("behavior must not run")
		return nil
	})
	require.NoError(t, Configure(def, ld, []tooldefs.Middleware{m}))

	err := runWrapped(t, ld, m, def, map[string]any{HelpKey: true}, def.Run())
	require.NoError(t, err)
	require.Contains(t, out.String(), "build - build the project")
	require.Contains(t, out.String(), "USAGE")
}

func TestWrap_FallbackHelpForNonRunnable(t *testing.T) {
	ld, out, m := helpEnv(t)
	namespace := ld.Activate([]string{"config"}, 0)
	ld.Activate([]string{"config", "set"}, 0).SetDesc("set a value")
	require.NoError(t, Configure(namespace, ld, []tooldefs.Middleware{m}))

	err := runWrapped(t, ld, m, namespace, map[string]any{}, func(context.Context, *tooldefs.Invocation) error {
		return errors.New("should have been short-circuited")
	})
	require.NoError(t, err)
	require.Contains(t, out.String(), "TOOLS")
	require.Contains(t, out.String(), "set a value")
}

func TestWrap_RunnableToolContinues(t *testing.T) {
	ld, _, m := helpEnv(t)
	def := ld.Activate([]string{"build"}, 0)
	ran := false
	def.SetRun(func(context.Context, *tooldefs.Invocation) error {
		ran = true
		return nil
	})
	require.NoError(t, Configure(def, ld, []tooldefs.Middleware{m}))

	err := runWrapped(t, ld, m, def, map[string]any{}, def.Run())
	require.NoError(t, err)
	require.True(t, ran)
}

func TestWrap_HelpTargetResolved(t *testing.T) {
	ld, out, _ := helpEnv(t)
	m := NewShowHelp(
		WithBinaryName("tt"),
		WithToolNameArgs(true),
		WithWriter(ui.NewWriterTo(out)),
	)
	ld.Activate([]string{"deploy"}, 0).SetDesc("ship it")
	require.NoError(t, Configure(ld.Root(), ld, []tooldefs.Middleware{m}))

	err := runWrapped(t, ld, m, ld.Root(), map[string]any{ToolNameKey: []string{"deploy"}}, nil)
	require.NoError(t, err)
	require.Contains(t, out.String(), "deploy - ship it")
}

func TestWrap_HelpTargetUnresolved(t *testing.T) {
	ld, _, _ := helpEnv(t)
	var out bytes.Buffer
	m := NewShowHelp(
		WithBinaryName("tt"),
		WithToolNameArgs(true),
		WithWriter(ui.NewWriterTo(&out)),
	)
	ld.Activate([]string{"deploy"}, 0)
	require.NoError(t, Configure(ld.Root(), ld, []tooldefs.Middleware{m}))

	err := runWrapped(t, ld, m, ld.Root(), map[string]any{ToolNameKey: []string{"deplo"}}, nil)
	var ue *usage.Error
	require.ErrorAs(t, err, &ue)
	require.Equal(t, usage.ErrUnknownTool, ue.Kind)
	require.Equal(t, 1, ue.ExitCode())
	require.Contains(t, ue.Error(), "deploy", "suggests the near miss")
}

type recordingMiddleware struct {
	name   string
	events *[]string
	chain  bool
}

func (m *recordingMiddleware) Configure(_ *tooldefs.Definition, _ tooldefs.Resolver, next func() error) error {
	*m.events = append(*m.events, "configure "+m.name)
	if !m.chain {
		return nil
	}
	return next()
}

func (m *recordingMiddleware) Wrap(ctx context.Context, inv *tooldefs.Invocation, next func(context.Context, *tooldefs.Invocation) error) error {
	*m.events = append(*m.events, "enter "+m.name)
	err := next(ctx, inv)
	*m.events = append(*m.events, "leave "+m.name)
	return err
}

func TestPipeline_OrderAndAbort(t *testing.T) {
	ld := registry.New()
	def := ld.Activate([]string{"build"}, 0)

	var events []string
	first := &recordingMiddleware{name: "first", events: &events, chain: true}
	second := &recordingMiddleware{name: "second", events: &events, chain: true}
	stack := []tooldefs.Middleware{first, second}

	require.NoError(t, Configure(def, ld, stack))
	inv := tooldefs.NewInvocation(def, ld, nil)
	require.NoError(t, Execute(context.Background(), inv, stack, func(context.Context, *tooldefs.Invocation) error {
		events = append(events, "run")
		return nil
	}))

	require.Equal(t, []string{
		"configure first", "configure second",
		"enter first", "enter second", "run", "leave second", "leave first",
	}, events)

	// A hook that does not continue aborts later hooks.
	events = nil
	first.chain = false
	require.NoError(t, Configure(def, ld, stack))
	require.Equal(t, []string{"configure first"}, events)
}
