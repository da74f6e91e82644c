package constants

const (
	// Display
	SettingOLEDMode = "oled_mode"

	// Workout flow
	SettingDefaultWorkoutGoal   = "default_workout_goal"
	SettingWarmupPreference     = "warmup_preference"
	SettingCooldownPreference   = "cooldown_preference"
	SettingDefaultRestTime      = "default_rest_time"
	SettingHapticsEnabled       = "haptics_enabled"
	SettingNotificationsEnabled = "notifications_enabled"

	// Reminders
	SettingWorkoutRemindersEnabled = "workout_reminders_enabled"
	SettingWaterReminderEnabled    = "water_reminder_enabled"
	SettingWaterReminderInterval   = "water_reminder_interval"

	// Default Settings Values
	DefaultWarmupPreference      = "ask"
	DefaultCooldownPreference    = "ask"
	DefaultRestTimeSec           = 90
	DefaultHapticsEnabled        = true
	DefaultNotificationsEnabled  = true
	DefaultWaterReminderInterval = 15 // minutes
)
