package system

import (
	"context"
	"errors"
	"testing"

	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/config"
	"github.com/julianstephens/liftlit/internal/notifier"
)

type fakeAlerter struct {
	kinds []string
	texts []string
	err   error
}

func (f *fakeAlerter) Notify(_ context.Context, kind, text string) error {
	f.kinds = append(f.kinds, kind)
	f.texts = append(f.texts, text)
	return f.err
}

func useFakeAlerter(t *testing.T, f *fakeAlerter) {
	t.Helper()
	prev := newAlerter
	newAlerter = func() alerter { return f }
	t.Cleanup(func() { newAlerter = prev })
}

func enableNotifications(t *testing.T, ctx *cli.Context, on bool) {
	t.Helper()
	s, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatal(err)
	}
	s.NotificationsEnabled = on
	if err := ctx.Store.SaveSettings(s); err != nil {
		t.Fatal(err)
	}
}

func TestNotifyCmd_Sends(t *testing.T) {
	ctx, _ := setupTestDoctorDB(t)
	enableNotifications(t, ctx, true)
	f := &fakeAlerter{}
	useFakeAlerter(t, f)

	if err := (&NotifyCmd{Kind: notifier.KindWorkout, Text: "Leg day"}).Run(ctx); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if len(f.kinds) != 1 || f.kinds[0] != notifier.KindWorkout || f.texts[0] != "Leg day" {
		t.Errorf("sent %v %v", f.kinds, f.texts)
	}
}

func TestNotifyCmd_DryRun(t *testing.T) {
	ctx, _ := setupTestDoctorDB(t)
	enableNotifications(t, ctx, true)
	f := &fakeAlerter{}
	useFakeAlerter(t, f)

	if err := (&NotifyCmd{Kind: notifier.KindRest, Text: "Rest over", DryRun: true}).Run(ctx); err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if len(f.kinds) != 0 {
		t.Error("dry run sent an alert")
	}
}

func TestNotifyCmd_DisabledNotifications(t *testing.T) {
	tests := []struct {
		name     string
		settings bool
		config   *config.Config
	}{
		{name: "settings off", settings: false},
		{name: "config off", settings: true, config: &config.Config{Database: config.DatabaseConfig{Driver: config.DriverSQLite}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestDoctorDB(t)
			ctx.Config = tt.config
			enableNotifications(t, ctx, tt.settings)
			f := &fakeAlerter{}
			useFakeAlerter(t, f)

			if err := (&NotifyCmd{Kind: notifier.KindRest, Text: "Rest over"}).Run(ctx); err != nil {
				t.Fatalf("notify failed: %v", err)
			}
			if len(f.kinds) != 0 {
				t.Error("alert sent while notifications are disabled")
			}
		})
	}
}

func TestNotifyCmd_SendError(t *testing.T) {
	ctx, _ := setupTestDoctorDB(t)
	enableNotifications(t, ctx, true)
	useFakeAlerter(t, &fakeAlerter{err: notifier.ErrTrayNotRunning})

	err := (&NotifyCmd{Kind: notifier.KindRest, Text: "Rest over"}).Run(ctx)
	if !errors.Is(err, notifier.ErrTrayNotRunning) {
		t.Errorf("err = %v, want ErrTrayNotRunning", err)
	}
}
