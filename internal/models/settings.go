package models

// Preference controls whether the warmup or cooldown flow is presented
type Preference string

const (
	PreferenceAlways Preference = "always"
	PreferenceAsk    Preference = "ask"
	PreferenceNever  Preference = "never"
)

// Valid reports whether p is one of the known preferences.
func (p Preference) Valid() bool {
	switch p {
	case PreferenceAlways, PreferenceAsk, PreferenceNever:
		return true
	}
	return false
}

// Settings represents the app settings the workout module reads
type Settings struct {
	OLEDMode                bool       `json:"oled_mode"`                 // true-black theme
	DefaultWorkoutGoal      GoalType   `json:"default_workout_goal"`      // empty forces goal selection
	WarmupPreference        Preference `json:"warmup_preference"`         // always, ask or never
	CooldownPreference      Preference `json:"cooldown_preference"`       // always, ask or never
	DefaultRestTime         int        `json:"default_rest_time"`         // seconds
	HapticsEnabled          bool       `json:"haptics_enabled"`           // vibrate on rest expiry and PRs
	NotificationsEnabled    bool       `json:"notifications_enabled"`     // desktop alerts through the tray app
	WorkoutRemindersEnabled bool       `json:"workout_reminders_enabled"` // remind about scheduled workouts
	WaterReminderEnabled    bool       `json:"water_reminder_enabled"`    // remind to drink during a session
	WaterReminderInterval   int        `json:"water_reminder_interval"`   // minutes
}

// SettingsPatch is a partial settings update; nil fields are left untouched.
type SettingsPatch struct {
	OLEDMode                *bool
	DefaultWorkoutGoal      *GoalType
	WarmupPreference        *Preference
	CooldownPreference      *Preference
	DefaultRestTime         *int
	HapticsEnabled          *bool
	NotificationsEnabled    *bool
	WorkoutRemindersEnabled *bool
	WaterReminderEnabled    *bool
	WaterReminderInterval   *int
}
