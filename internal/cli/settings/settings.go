package settings

import (
	"fmt"

	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/models"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	OLEDMode              *bool   `help:"Use the true-black theme." name:"oled-mode"`
	Goal                  *string `help:"Default workout goal (strength, hypertrophy, endurance, general, or none to always ask)."`
	Warmup                *string `help:"Warmup flow: always, ask or never."`
	Cooldown              *string `help:"Cooldown flow: always, ask or never."`
	RestTime              *int    `help:"Default rest between sets in seconds." name:"rest-time"`
	Haptics               *bool   `help:"Vibrate on rest expiry and PRs."`
	Notifications         *bool   `help:"Send desktop alerts through the tray app."`
	WorkoutReminders      *bool   `help:"Remind about scheduled workouts." name:"workout-reminders"`
	WaterReminder         *bool   `help:"Remind to drink during a workout." name:"water-reminder"`
	WaterReminderInterval *int    `help:"Minutes between water reminders." name:"water-reminder-interval"`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		printSettings(settings)
		return nil
	}

	patch, updated, err := c.patch()
	if err != nil {
		return err
	}
	if !updated {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}

	if err := ctx.Store.SaveSettings(patch.Merge(settings)); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	fmt.Println("Settings updated successfully.")
	return nil
}

// patch validates the flags and turns them into a settings patch.
func (c *SettingsCmd) patch() (models.SettingsPatch, bool, error) {
	var p models.SettingsPatch
	updated := false

	if c.OLEDMode != nil {
		p.OLEDMode = c.OLEDMode
		updated = true
	}
	if c.Goal != nil {
		goal := models.GoalType("")
		if *c.Goal != "none" {
			g, err := cli.ParseGoal(*c.Goal)
			if err != nil {
				return p, false, err
			}
			goal = g
		}
		p.DefaultWorkoutGoal = &goal
		updated = true
	}
	if c.Warmup != nil {
		pref := models.Preference(*c.Warmup)
		if !pref.Valid() {
			return p, false, fmt.Errorf("invalid warmup preference %q (expected always, ask or never)", *c.Warmup)
		}
		p.WarmupPreference = &pref
		updated = true
	}
	if c.Cooldown != nil {
		pref := models.Preference(*c.Cooldown)
		if !pref.Valid() {
			return p, false, fmt.Errorf("invalid cooldown preference %q (expected always, ask or never)", *c.Cooldown)
		}
		p.CooldownPreference = &pref
		updated = true
	}
	if c.RestTime != nil {
		if *c.RestTime <= 0 {
			return p, false, fmt.Errorf("rest time must be positive")
		}
		p.DefaultRestTime = c.RestTime
		updated = true
	}
	if c.Haptics != nil {
		p.HapticsEnabled = c.Haptics
		updated = true
	}
	if c.Notifications != nil {
		p.NotificationsEnabled = c.Notifications
		updated = true
	}
	if c.WorkoutReminders != nil {
		p.WorkoutRemindersEnabled = c.WorkoutReminders
		updated = true
	}
	if c.WaterReminder != nil {
		p.WaterReminderEnabled = c.WaterReminder
		updated = true
	}
	if c.WaterReminderInterval != nil {
		if *c.WaterReminderInterval <= 0 {
			return p, false, fmt.Errorf("water reminder interval must be positive")
		}
		p.WaterReminderInterval = c.WaterReminderInterval
		updated = true
	}
	return p, updated, nil
}

func printSettings(s models.Settings) {
	goal := string(s.DefaultWorkoutGoal)
	if goal == "" {
		goal = "ask each time"
	}
	fmt.Println("Current Settings:")
	fmt.Printf("  OLED Mode:              %v\n", s.OLEDMode)
	fmt.Println("\nWorkout Settings:")
	fmt.Printf("  Default Goal:           %s\n", goal)
	fmt.Printf("  Warmup:                 %s\n", s.WarmupPreference)
	fmt.Printf("  Cooldown:               %s\n", s.CooldownPreference)
	fmt.Printf("  Default Rest:           %ds\n", s.DefaultRestTime)
	fmt.Printf("  Haptics:                %v\n", s.HapticsEnabled)
	fmt.Println("\nNotification Settings:")
	fmt.Printf("  Notifications Enabled:  %v\n", s.NotificationsEnabled)
	fmt.Printf("  Workout Reminders:      %v\n", s.WorkoutRemindersEnabled)
	fmt.Printf("  Water Reminder:         %v\n", s.WaterReminderEnabled)
	fmt.Printf("  Water Interval:         %d min\n", s.WaterReminderInterval)
}
