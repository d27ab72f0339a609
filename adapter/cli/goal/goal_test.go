package goal

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/therapytrack/adapter/cli"
	internalApp "github.com/felixgeelhaar/therapytrack/internal/app"
	mcpinternal "github.com/felixgeelhaar/therapytrack/internal/mcp"
	"github.com/felixgeelhaar/therapytrack/internal/tracking/domain"
	"github.com/felixgeelhaar/therapytrack/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *cli.App {
	t.Helper()
	cfg := &config.Config{
		AppEnv:          "test",
		LocalMode:       true,
		DatabaseDriver:  "sqlite",
		SQLitePath:      filepath.Join(t.TempDir(), "therapytrack.db"),
		Timezone:        "UTC",
		LookbackDays:    5,
		PatientCacheTTL: time.Minute,
	}
	container, err := internalApp.NewLocalContainer(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	cliApp := mcpinternal.NewCLIApp(container, uuid.New())
	cli.SetApp(cliApp)
	t.Cleanup(func() { cli.SetApp(nil) })
	return cliApp
}

func run(t *testing.T, cmd *cobra.Command) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetContext(context.Background())
	t.Cleanup(func() { cmd.SetOut(nil) })
	err := cmd.RunE(cmd, nil)
	return buf.String(), err
}

func TestGoalGet_Defaults(t *testing.T) {
	setupApp(t)
	getOwner = ""

	out, err := run(t, getCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Daily goal:  240 min")
	assert.Contains(t, out, "Weekly goal: 1680 min")
	assert.NotContains(t, out, "Set by clinician")
}

func TestGoalSet(t *testing.T) {
	setupApp(t)
	t.Cleanup(func() { setDaily, setWeekly, setOwner = 0, 0, "" })

	setDaily, setWeekly, setOwner = 180, 1260, ""
	out, err := run(t, setCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Daily:  180 min")
	assert.Contains(t, out, "Weekly: 1260 min")

	getOwner = ""
	out, err = run(t, getCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Daily goal:  180 min")
}

func TestGoalSet_Validation(t *testing.T) {
	setupApp(t)
	t.Cleanup(func() { setDaily, setWeekly, setOwner = 0, 0, "" })

	setDaily, setWeekly, setOwner = 0, 0, ""
	_, err := run(t, setCmd)
	assert.ErrorContains(t, err, "--daily is required")

	setDaily = 900
	_, err = run(t, setCmd)
	assert.ErrorIs(t, err, domain.ErrGoalOutOfBounds)

	setDaily, setOwner = 120, uuid.NewString()
	_, err = run(t, setCmd)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)
}

func TestGoalCommands_NotConfigured(t *testing.T) {
	cli.SetApp(nil)

	_, err := run(t, getCmd)
	assert.Error(t, err)
	_, err = run(t, setCmd)
	assert.Error(t, err)
}
