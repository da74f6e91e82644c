package settings

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{Store: store}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, cleanup
}

func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestSettingsCmd_List(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		List: true,
	}

	if err := cmd.Run(ctx); err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	before, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Fatalf("settings failed: %v", err)
	}
	after, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if before != after {
		t.Errorf("settings changed without flags: %+v -> %+v", before, after)
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		OLEDMode:      boolPtr(true),
		Goal:          strPtr("Hypertrophy"),
		Warmup:        strPtr("never"),
		Cooldown:      strPtr("always"),
		RestTime:      intPtr(150),
		Notifications: boolPtr(false),
		WaterReminder: boolPtr(true),
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	s, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if !s.OLEDMode {
		t.Error("expected OLED mode on")
	}
	if s.DefaultWorkoutGoal != models.GoalHypertrophy {
		t.Errorf("goal = %q, want hypertrophy", s.DefaultWorkoutGoal)
	}
	if s.WarmupPreference != models.PreferenceNever || s.CooldownPreference != models.PreferenceAlways {
		t.Errorf("preferences = %q/%q", s.WarmupPreference, s.CooldownPreference)
	}
	if s.DefaultRestTime != 150 {
		t.Errorf("rest = %d, want 150", s.DefaultRestTime)
	}
	if s.NotificationsEnabled {
		t.Error("expected notifications off")
	}
	if !s.WaterReminderEnabled {
		t.Error("expected water reminder on")
	}
}

func TestSettingsCmd_ClearGoal(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{Goal: strPtr("strength")}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&SettingsCmd{Goal: strPtr("none")}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	s, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.DefaultWorkoutGoal != "" {
		t.Errorf("goal = %q, want empty", s.DefaultWorkoutGoal)
	}
}

func TestSettingsCmd_Invalid(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	tests := []struct {
		name string
		cmd  SettingsCmd
	}{
		{"goal", SettingsCmd{Goal: strPtr("cardio")}},
		{"warmup", SettingsCmd{Warmup: strPtr("sometimes")}},
		{"cooldown", SettingsCmd{Cooldown: strPtr("")}},
		{"rest", SettingsCmd{RestTime: intPtr(0)}},
		{"water interval", SettingsCmd{WaterReminderInterval: intPtr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cmd.Run(ctx); err == nil {
				t.Error("expected error")
			}
		})
	}
}
