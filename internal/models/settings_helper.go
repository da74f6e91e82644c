package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/liftlit/internal/constants"
)

// MapToSettings converts a map of key-value pairs to a Settings struct.
func MapToSettings(data map[string]string) (Settings, error) {
	settings := Settings{}

	for key, value := range data {
		switch key {
		case constants.SettingOLEDMode:
			settings.OLEDMode = value == "true"
		case constants.SettingDefaultWorkoutGoal:
			settings.DefaultWorkoutGoal = GoalType(value)
		case constants.SettingWarmupPreference:
			settings.WarmupPreference = Preference(value)
		case constants.SettingCooldownPreference:
			settings.CooldownPreference = Preference(value)
		case constants.SettingDefaultRestTime:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing default_rest_time: %w", err)
			}
			settings.DefaultRestTime = n
		case constants.SettingHapticsEnabled:
			settings.HapticsEnabled = value == "true"
		case constants.SettingNotificationsEnabled:
			settings.NotificationsEnabled = value == "true"
		case constants.SettingWorkoutRemindersEnabled:
			settings.WorkoutRemindersEnabled = value == "true"
		case constants.SettingWaterReminderEnabled:
			settings.WaterReminderEnabled = value == "true"
		case constants.SettingWaterReminderInterval:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, fmt.Errorf("parsing water_reminder_interval: %w", err)
			}
			settings.WaterReminderInterval = n
		}
	}
	return settings, nil
}

// SettingsToMap converts a Settings struct to a map of key-value pairs.
func SettingsToMap(settings Settings) map[string]string {
	return map[string]string{
		constants.SettingOLEDMode:                strconv.FormatBool(settings.OLEDMode),
		constants.SettingDefaultWorkoutGoal:      string(settings.DefaultWorkoutGoal),
		constants.SettingWarmupPreference:        string(settings.WarmupPreference),
		constants.SettingCooldownPreference:      string(settings.CooldownPreference),
		constants.SettingDefaultRestTime:         strconv.Itoa(settings.DefaultRestTime),
		constants.SettingHapticsEnabled:          strconv.FormatBool(settings.HapticsEnabled),
		constants.SettingNotificationsEnabled:    strconv.FormatBool(settings.NotificationsEnabled),
		constants.SettingWorkoutRemindersEnabled: strconv.FormatBool(settings.WorkoutRemindersEnabled),
		constants.SettingWaterReminderEnabled:    strconv.FormatBool(settings.WaterReminderEnabled),
		constants.SettingWaterReminderInterval:   strconv.Itoa(settings.WaterReminderInterval),
	}
}

// DefaultSettings returns the settings a fresh store is initialized with.
func DefaultSettings() Settings {
	s := Settings{
		HapticsEnabled:       constants.DefaultHapticsEnabled,
		NotificationsEnabled: constants.DefaultNotificationsEnabled,
	}
	ApplyDefaultSettings(&s)
	return s
}

// ApplyDefaultSettings applies default values to missing settings.
func ApplyDefaultSettings(settings *Settings) {
	if !settings.WarmupPreference.Valid() {
		settings.WarmupPreference = constants.DefaultWarmupPreference
	}
	if !settings.CooldownPreference.Valid() {
		settings.CooldownPreference = constants.DefaultCooldownPreference
	}
	if settings.DefaultRestTime <= 0 {
		settings.DefaultRestTime = constants.DefaultRestTimeSec
	}
	if settings.WaterReminderInterval <= 0 {
		settings.WaterReminderInterval = constants.DefaultWaterReminderInterval
	}
}

// Merge applies the non-nil fields of p to s and returns the result.
func (p SettingsPatch) Merge(s Settings) Settings {
	if p.OLEDMode != nil {
		s.OLEDMode = *p.OLEDMode
	}
	if p.DefaultWorkoutGoal != nil {
		s.DefaultWorkoutGoal = *p.DefaultWorkoutGoal
	}
	if p.WarmupPreference != nil && p.WarmupPreference.Valid() {
		s.WarmupPreference = *p.WarmupPreference
	}
	if p.CooldownPreference != nil && p.CooldownPreference.Valid() {
		s.CooldownPreference = *p.CooldownPreference
	}
	if p.DefaultRestTime != nil && *p.DefaultRestTime > 0 {
		s.DefaultRestTime = *p.DefaultRestTime
	}
	if p.HapticsEnabled != nil {
		s.HapticsEnabled = *p.HapticsEnabled
	}
	if p.NotificationsEnabled != nil {
		s.NotificationsEnabled = *p.NotificationsEnabled
	}
	if p.WorkoutRemindersEnabled != nil {
		s.WorkoutRemindersEnabled = *p.WorkoutRemindersEnabled
	}
	if p.WaterReminderEnabled != nil {
		s.WaterReminderEnabled = *p.WaterReminderEnabled
	}
	if p.WaterReminderInterval != nil && *p.WaterReminderInterval > 0 {
		s.WaterReminderInterval = *p.WaterReminderInterval
	}
	return s
}
