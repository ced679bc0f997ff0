package parley_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parley"
	"github.com/aretw0/parley/pkg/conversation"
	"github.com/aretw0/parley/pkg/demo"
	"github.com/aretw0/parley/pkg/ports"
)

const facadeScript = `
nodes:
  - id: greeting
    triggers: ["hi", "hello"]
    response:
      text: "Hello from the script!"
  - id: goodbye
    triggers: ["bye"]
    response:
      text: "See you."
`

func writeScript(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assistant.yaml")
	require.NoError(t, os.WriteFile(path, []byte(facadeScript), 0o644))
	return path
}

func TestNew_LoadsScriptFile(t *testing.T) {
	eng, err := parley.New(writeScript(t), conversation.WithSleeper(ports.NopSleeper()))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, eng.SendMessage(ctx, "hello"))
	require.NoError(t, eng.Flush(ctx))

	msgs := eng.Messages()
	require.NotEmpty(t, msgs)
	assert.Equal(t, "Hello from the script!", msgs[len(msgs)-1].Text)
}

func TestNew_MissingFile(t *testing.T) {
	_, err := parley.New(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load script")
}

func TestNewFromGraph(t *testing.T) {
	eng, err := parley.NewFromGraph(demo.MustSO436Graph(), conversation.WithSleeper(ports.NopSleeper()))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, eng.SendMessage(ctx, "check stock levels"))
	require.NoError(t, eng.Flush(ctx))

	msgs := eng.Messages()
	reply := msgs[len(msgs)-1]
	require.NotNil(t, reply.Metadata)
	assert.Equal(t, "stock-check", reply.Metadata.NodeID)
}

func TestRunner_Loop(t *testing.T) {
	eng, err := parley.NewFromGraph(demo.MustSO436Graph(), conversation.WithSleeper(ports.NopSleeper()))
	require.NoError(t, err)

	var out strings.Builder
	runner := parley.NewRunner()
	runner.Input = strings.NewReader("show me the margin breakdown\nquit\n")
	runner.Output = &out
	runner.Headless = true

	require.NoError(t, runner.Run(context.Background(), eng))

	output := out.String()
	assert.Contains(t, output, "margin breakdown for SO-436")
	assert.Contains(t, output, "(chart: Margin by order line)")
	assert.Contains(t, output, "Bye!")
}

func TestRunner_ResetCommand(t *testing.T) {
	eng, err := parley.NewFromGraph(demo.MustSO436Graph(), conversation.WithSleeper(ports.NopSleeper()))
	require.NoError(t, err)

	var out strings.Builder
	runner := parley.NewRunner()
	runner.Input = strings.NewReader("hello\n/reset\nexit\n")
	runner.Output = &out
	runner.Headless = true

	require.NoError(t, runner.Run(context.Background(), eng))
	assert.Len(t, eng.Messages(), 1, "reset leaves only the seed")
}

func TestRunner_RendererApplied(t *testing.T) {
	eng, err := parley.NewFromGraph(demo.MustSO436Graph(), conversation.WithSleeper(ports.NopSleeper()))
	require.NoError(t, err)

	var out strings.Builder
	runner := parley.NewRunner()
	runner.Input = strings.NewReader("hello\nquit\n")
	runner.Output = &out
	runner.Headless = true
	runner.Renderer = func(s string) (string, error) {
		return strings.ToUpper(s), nil
	}

	require.NoError(t, runner.Run(context.Background(), eng))
	assert.Contains(t, out.String(), "HELLO! I'M THE ASSISTANT FOR ORDER SO-436.")
}

func TestRunner_RequiresIO(t *testing.T) {
	eng, err := parley.NewFromGraph(demo.MustSO436Graph())
	require.NoError(t, err)

	runner := parley.NewRunner()
	assert.Error(t, runner.Run(context.Background(), eng))
}
