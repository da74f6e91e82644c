package system

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/notifier"
)

type alerter interface {
	Notify(ctx context.Context, kind, text string) error
}

var newAlerter = func() alerter { return notifier.New() }

// NotifyCmd sends a test alert to the tray app.
type NotifyCmd struct {
	Kind   string `help:"Alert kind." enum:"rest,workout" default:"rest"`
	Text   string `help:"Alert text." default:"Rest over: time for your next set"`
	DryRun bool   `help:"Print the alert instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.NotificationsEnabled || (ctx.Config != nil && !ctx.Config.Notify.Enabled) {
		fmt.Println("Notifications are disabled in settings.")
		return nil
	}

	if c.DryRun {
		fmt.Printf("[DryRun] %s: %s\n", c.Kind, c.Text)
		return nil
	}

	sendCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := newAlerter().Notify(sendCtx, c.Kind, c.Text); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	fmt.Println("✓ Notification sent")
	return nil
}
