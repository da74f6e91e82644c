// Package sqlstore implements the storage queries shared by the SQLite and
// PostgreSQL stores. Queries are written with ? placeholders and rebound for
// the target driver.
package sqlstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/storage"
)

// Placeholder styles.
const (
	Question = iota
	Dollar
)

type Store struct {
	DB          *sql.DB
	Placeholder int
}

// Rebind rewrites ? placeholders to $n for drivers that need them.
func Rebind(placeholder int, query string) string {
	if placeholder != Dollar {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(query string, args ...any) (sql.Result, error) {
	return s.DB.Exec(Rebind(s.Placeholder, query), args...)
}

func (s *Store) query(query string, args ...any) (*sql.Rows, error) {
	return s.DB.Query(Rebind(s.Placeholder, query), args...)
}

func (s *Store) queryRow(query string, args ...any) *sql.Row {
	return s.DB.QueryRow(Rebind(s.Placeholder, query), args...)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

func formatTimePtr(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseTime(v string) (time.Time, error) {
	return time.Parse(constants.TimestampFormat, v)
}

func parseTimePtr(v sql.NullString) (*time.Time, error) {
	if !v.Valid || v.String == "" {
		return nil, nil
	}
	t, err := parseTime(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// requireRow maps a zero-row update or delete to storage.ErrNotFound.
func requireRow(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
	}
	return nil
}

func notFound(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
	}
	return err
}

// Settings

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	data := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, err
	}
	if len(data) == 0 {
		return models.Settings{}, fmt.Errorf("settings: %w", storage.ErrNotFound)
	}

	settings, err := models.MapToSettings(data)
	if err != nil {
		return models.Settings{}, err
	}
	models.ApplyDefaultSettings(&settings)
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(Rebind(s.Placeholder,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value"))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.Exec(key, value); err != nil {
			return fmt.Errorf("saving setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// Exercise library

const personalExerciseColumns = "id, name, muscle_group, default_rest_time, tempo, tutorial_text, use_count, created_at"

type scanner interface {
	Scan(dest ...any) error
}

func scanPersonalExercise(row scanner) (models.PersonalExercise, error) {
	var pe models.PersonalExercise
	var createdAt string
	if err := row.Scan(&pe.ID, &pe.Name, &pe.MuscleGroup, &pe.DefaultRestTime, &pe.Tempo, &pe.TutorialText, &pe.UseCount, &createdAt); err != nil {
		return pe, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return pe, fmt.Errorf("parsing created_at for exercise %s: %w", pe.ID, err)
	}
	pe.CreatedAt = t
	return pe, nil
}

func (s *Store) GetPersonalExercises() ([]models.PersonalExercise, error) {
	rows, err := s.query("SELECT " + personalExerciseColumns + " FROM personal_exercises ORDER BY use_count DESC, name_key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PersonalExercise
	for rows.Next() {
		pe, err := scanPersonalExercise(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, pe)
	}
	return out, rows.Err()
}

func (s *Store) GetPersonalExerciseByName(name string) (models.PersonalExercise, error) {
	row := s.queryRow("SELECT "+personalExerciseColumns+" FROM personal_exercises WHERE name_key = ?", models.NormalizeName(name))
	pe, err := scanPersonalExercise(row)
	if err != nil {
		return models.PersonalExercise{}, notFound(err, "exercise", name)
	}
	return pe, nil
}

func (s *Store) CreatePersonalExercise(pe models.PersonalExercise) (models.PersonalExercise, error) {
	pe.Name = strings.TrimSpace(pe.Name)
	if pe.Name == "" {
		return models.PersonalExercise{}, fmt.Errorf("exercise name cannot be empty")
	}
	if pe.ID == "" {
		pe.ID = uuid.New().String()
	}
	if pe.CreatedAt.IsZero() {
		pe.CreatedAt = time.Now()
	}
	_, err := s.exec(
		"INSERT INTO personal_exercises (id, name, name_key, muscle_group, default_rest_time, tempo, tutorial_text, use_count, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		pe.ID, pe.Name, models.NormalizeName(pe.Name), pe.MuscleGroup, pe.DefaultRestTime, pe.Tempo, pe.TutorialText, pe.UseCount, formatTime(pe.CreatedAt),
	)
	if err != nil {
		return models.PersonalExercise{}, fmt.Errorf("creating exercise %q: %w", pe.Name, err)
	}
	return pe, nil
}

func (s *Store) UpdatePersonalExercise(pe models.PersonalExercise) error {
	res, err := s.exec(
		"UPDATE personal_exercises SET name = ?, name_key = ?, muscle_group = ?, default_rest_time = ?, tempo = ?, tutorial_text = ? WHERE id = ?",
		pe.Name, models.NormalizeName(pe.Name), pe.MuscleGroup, pe.DefaultRestTime, pe.Tempo, pe.TutorialText, pe.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res, "exercise", pe.ID)
}

func (s *Store) DeletePersonalExercise(id string) error {
	res, err := s.exec("DELETE FROM personal_exercises WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, "exercise", id)
}

func (s *Store) IncrementExerciseUse(id string) error {
	res, err := s.exec("UPDATE personal_exercises SET use_count = use_count + 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, "exercise", id)
}

// Sessions

func (s *Store) SaveWorkoutSession(session models.WorkoutSession) error {
	exercises, err := json.Marshal(session.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}
	_, err = s.exec(
		"INSERT INTO workout_sessions (id, workout_item_id, start_time, end_time, goal_type, exercises) VALUES (?, ?, ?, ?, ?, ?)",
		session.ID, session.WorkoutItemID, formatTime(session.StartTime), formatTimePtr(session.EndTime), string(session.GoalType), string(exercises),
	)
	return err
}

const sessionColumns = "id, workout_item_id, start_time, end_time, goal_type, exercises"

func scanSession(row scanner) (models.WorkoutSession, error) {
	var (
		ws        models.WorkoutSession
		start     string
		end       sql.NullString
		goal      string
		exercises string
	)
	if err := row.Scan(&ws.ID, &ws.WorkoutItemID, &start, &end, &goal, &exercises); err != nil {
		return ws, err
	}
	var err error
	if ws.StartTime, err = parseTime(start); err != nil {
		return ws, fmt.Errorf("parsing start_time for session %s: %w", ws.ID, err)
	}
	if ws.EndTime, err = parseTimePtr(end); err != nil {
		return ws, fmt.Errorf("parsing end_time for session %s: %w", ws.ID, err)
	}
	ws.GoalType = models.GoalType(goal)
	if err := json.Unmarshal([]byte(exercises), &ws.Exercises); err != nil {
		return ws, fmt.Errorf("decoding exercises for session %s: %w", ws.ID, err)
	}
	return ws, nil
}

func (s *Store) GetWorkoutSession(id string) (models.WorkoutSession, error) {
	ws, err := scanSession(s.queryRow("SELECT "+sessionColumns+" FROM workout_sessions WHERE id = ?", id))
	if err != nil {
		return models.WorkoutSession{}, notFound(err, "session", id)
	}
	return ws, nil
}

func (s *Store) GetWorkoutSessions(limit int) ([]models.WorkoutSession, error) {
	q := "SELECT " + sessionColumns + " FROM workout_sessions ORDER BY start_time DESC"
	var args []any
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkoutSession
	for rows.Next() {
		ws, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

// Templates

func (s *Store) CreateWorkoutTemplate(t models.WorkoutTemplate) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	exercises, err := json.Marshal(t.Exercises)
	if err != nil {
		return fmt.Errorf("encoding exercises: %w", err)
	}
	_, err = s.exec(
		"INSERT INTO workout_templates (id, name, exercises, created_at) VALUES (?, ?, ?, ?)",
		t.ID, t.Name, string(exercises), formatTime(t.CreatedAt),
	)
	return err
}

func scanTemplate(row scanner) (models.WorkoutTemplate, error) {
	var t models.WorkoutTemplate
	var exercises, createdAt string
	if err := row.Scan(&t.ID, &t.Name, &exercises, &createdAt); err != nil {
		return t, err
	}
	if err := json.Unmarshal([]byte(exercises), &t.Exercises); err != nil {
		return t, fmt.Errorf("decoding exercises for template %s: %w", t.ID, err)
	}
	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return t, fmt.Errorf("parsing created_at for template %s: %w", t.ID, err)
	}
	return t, nil
}

func (s *Store) GetWorkoutTemplate(id string) (models.WorkoutTemplate, error) {
	t, err := scanTemplate(s.queryRow("SELECT id, name, exercises, created_at FROM workout_templates WHERE id = ?", id))
	if err != nil {
		return models.WorkoutTemplate{}, notFound(err, "template", id)
	}
	return t, nil
}

func (s *Store) GetWorkoutTemplates() ([]models.WorkoutTemplate, error) {
	rows, err := s.query("SELECT id, name, exercises, created_at FROM workout_templates ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkoutTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) DeleteWorkoutTemplate(id string) error {
	res, err := s.exec("DELETE FROM workout_templates WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, "template", id)
}

// Workout items

const itemColumns = "id, title, template_id, is_active_workout, workout_start_time, workout_end_time, workout_duration_sec, created_at"

func (s *Store) AddWorkoutItem(item models.WorkoutItem) error {
	_, err := s.exec(
		"INSERT INTO workout_items ("+itemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		item.ID, item.Title, item.TemplateID, item.IsActiveWorkout,
		formatTimePtr(item.WorkoutStartTime), formatTimePtr(item.WorkoutEndTime),
		item.WorkoutDurationSec, formatTime(item.CreatedAt),
	)
	return err
}

func scanItem(row scanner) (models.WorkoutItem, error) {
	var (
		item       models.WorkoutItem
		start, end sql.NullString
		createdAt  string
	)
	if err := row.Scan(&item.ID, &item.Title, &item.TemplateID, &item.IsActiveWorkout, &start, &end, &item.WorkoutDurationSec, &createdAt); err != nil {
		return item, err
	}
	var err error
	if item.WorkoutStartTime, err = parseTimePtr(start); err != nil {
		return item, err
	}
	if item.WorkoutEndTime, err = parseTimePtr(end); err != nil {
		return item, err
	}
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return item, err
	}
	return item, nil
}

func (s *Store) GetWorkoutItem(id string) (models.WorkoutItem, error) {
	item, err := scanItem(s.queryRow("SELECT "+itemColumns+" FROM workout_items WHERE id = ?", id))
	if err != nil {
		return models.WorkoutItem{}, notFound(err, "workout", id)
	}
	return item, nil
}

func (s *Store) GetWorkoutItems() ([]models.WorkoutItem, error) {
	rows, err := s.query("SELECT " + itemColumns + " FROM workout_items ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.WorkoutItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) UpdateWorkoutItem(id string, update models.WorkoutItemUpdate) error {
	var sets []string
	var args []any
	if update.IsActiveWorkout != nil {
		sets = append(sets, "is_active_workout = ?")
		args = append(args, *update.IsActiveWorkout)
	}
	if update.WorkoutStartTime != nil {
		sets = append(sets, "workout_start_time = ?")
		args = append(args, formatTime(*update.WorkoutStartTime))
	}
	if update.WorkoutEndTime != nil {
		sets = append(sets, "workout_end_time = ?")
		args = append(args, formatTime(*update.WorkoutEndTime))
	}
	if update.WorkoutDurationSec != nil {
		sets = append(sets, "workout_duration_sec = ?")
		args = append(args, *update.WorkoutDurationSec)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := s.exec("UPDATE workout_items SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return err
	}
	return requireRow(res, "workout", id)
}

// Recovery checkpoints

func (s *Store) SaveCheckpoint(cp models.Checkpoint) error {
	_, err := s.exec(
		"INSERT INTO checkpoints (item_id, data, saved_at) VALUES (?, ?, ?) ON CONFLICT (item_id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at",
		cp.ItemID, cp.Data, formatTime(cp.SavedAt),
	)
	return err
}

func (s *Store) GetCheckpoint(itemID string) (models.Checkpoint, error) {
	var cp models.Checkpoint
	var savedAt string
	err := s.queryRow("SELECT item_id, data, saved_at FROM checkpoints WHERE item_id = ?", itemID).Scan(&cp.ItemID, &cp.Data, &savedAt)
	if err != nil {
		return models.Checkpoint{}, notFound(err, "checkpoint", itemID)
	}
	if cp.SavedAt, err = parseTime(savedAt); err != nil {
		return models.Checkpoint{}, fmt.Errorf("parsing saved_at for checkpoint %s: %w", itemID, err)
	}
	return cp, nil
}

// ClearCheckpoint removes the checkpoint for itemID. Missing rows are fine.
func (s *Store) ClearCheckpoint(itemID string) error {
	_, err := s.exec("DELETE FROM checkpoints WHERE item_id = ?", itemID)
	return err
}
