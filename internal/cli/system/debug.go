package system

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/storage"
)

// stdout is swapped in tests.
var stdout io.Writer = os.Stdout

type DebugCmd struct {
	DBPath         *DebugDBPathCmd         `cmd:"" help:"Show database path."`
	DumpSession    *DebugDumpSessionCmd    `cmd:"" help:"Dump a saved session as JSON."`
	DumpTemplate   *DebugDumpTemplateCmd   `cmd:"" help:"Dump a template as JSON."`
	DumpCheckpoint *DebugDumpCheckpointCmd `cmd:"" help:"Dump the recovery checkpoint of a workout as JSON."`
	DumpSettings   *DebugDumpSettingsCmd   `cmd:"" help:"Dump settings as JSON."`
}

func writeJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(stdout, string(b))
	return err
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	out := map[string]string{"path": ctx.Store.GetConfigPath()}
	if ctx.Config != nil {
		out["driver"] = ctx.Config.Database.Driver
	}
	return writeJSON(out)
}

type DebugDumpSessionCmd struct {
	ID string `arg:"" help:"Session ID, or 'latest'."`
}

func (cmd *DebugDumpSessionCmd) Run(ctx *cli.Context) error {
	if cmd.ID == "latest" {
		sessions, err := ctx.Store.GetWorkoutSessions(1)
		if err != nil {
			return fmt.Errorf("failed to get sessions: %w", err)
		}
		if len(sessions) == 0 {
			return errors.New("no sessions saved yet")
		}
		return writeJSON(sessions[0])
	}

	session, err := ctx.Store.GetWorkoutSession(cmd.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("session not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get session: %w", err)
	}
	return writeJSON(session)
}

type DebugDumpTemplateCmd struct {
	Template string `arg:"" help:"Template name or ID."`
}

func (cmd *DebugDumpTemplateCmd) Run(ctx *cli.Context) error {
	t, err := cli.FindTemplate(ctx.Store, cmd.Template)
	if err != nil {
		return err
	}
	return writeJSON(t)
}

type DebugDumpCheckpointCmd struct {
	ItemID string `arg:"" help:"Workout ID."`
}

func (cmd *DebugDumpCheckpointCmd) Run(ctx *cli.Context) error {
	cp, err := ctx.Store.GetCheckpoint(cmd.ItemID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no checkpoint for workout: %s", cmd.ItemID)
		}
		return fmt.Errorf("failed to get checkpoint: %w", err)
	}

	var state json.RawMessage = cp.Data
	if !json.Valid(cp.Data) {
		state = nil
	}
	return writeJSON(struct {
		ItemID  string          `json:"item_id"`
		SavedAt time.Time       `json:"saved_at"`
		Age     string          `json:"age"`
		Valid   bool            `json:"valid"`
		State   json.RawMessage `json:"state,omitempty"`
	}{
		ItemID:  cp.ItemID,
		SavedAt: cp.SavedAt,
		Age:     time.Since(cp.SavedAt).Round(time.Second).String(),
		Valid:   state != nil,
		State:   state,
	})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return writeJSON(settings)
}
