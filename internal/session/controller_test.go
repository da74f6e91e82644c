package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/errors"
	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/storage"
	"github.com/julianstephens/liftlit/internal/timer"
	"github.com/julianstephens/liftlit/internal/workout"
)

// fakeStore is an in-memory Store with switchable failures.
type fakeStore struct {
	mu sync.Mutex

	library     []models.PersonalExercise
	sessions    []models.WorkoutSession
	templates   []models.WorkoutTemplate
	checkpoints map[string]models.Checkpoint
	itemUpdates []models.WorkoutItemUpdate
	increments  []string

	saveErr    error
	historyErr error
	libraryErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{checkpoints: make(map[string]models.Checkpoint)}
}

func (f *fakeStore) GetPersonalExercises() ([]models.PersonalExercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.libraryErr != nil {
		return nil, f.libraryErr
	}
	return append([]models.PersonalExercise(nil), f.library...), nil
}

func (f *fakeStore) CreatePersonalExercise(pe models.PersonalExercise) (models.PersonalExercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.library = append(f.library, pe)
	return pe, nil
}

func (f *fakeStore) IncrementExerciseUse(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.increments = append(f.increments, id)
	return nil
}

func (f *fakeStore) GetWorkoutSessions(limit int) ([]models.WorkoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	sessions := f.sessions
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return append([]models.WorkoutSession(nil), sessions...), nil
}

func (f *fakeStore) SaveWorkoutSession(s models.WorkoutSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions = append([]models.WorkoutSession{s}, f.sessions...)
	return nil
}

func (f *fakeStore) CreateWorkoutTemplate(t models.WorkoutTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.templates = append(f.templates, t)
	return nil
}

func (f *fakeStore) UpdateWorkoutItem(id string, u models.WorkoutItemUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itemUpdates = append(f.itemUpdates, u)
	return nil
}

func (f *fakeStore) SaveCheckpoint(cp models.Checkpoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checkpoints[cp.ItemID] = cp
	return nil
}

func (f *fakeStore) GetCheckpoint(itemID string) (models.Checkpoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp, ok := f.checkpoints[itemID]
	if !ok {
		return models.Checkpoint{}, fmt.Errorf("checkpoint %s: %w", itemID, storage.ErrNotFound)
	}
	return cp, nil
}

func (f *fakeStore) ClearCheckpoint(itemID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.checkpoints, itemID)
	return nil
}

func (f *fakeStore) lastItemUpdate() models.WorkoutItemUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.itemUpdates) == 0 {
		return models.WorkoutItemUpdate{}
	}
	return f.itemUpdates[len(f.itemUpdates)-1]
}

type fakeAlerter struct {
	mu    sync.Mutex
	names []string
}

func (a *fakeAlerter) RestOver(ctx context.Context, name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.names = append(a.names, name)
	return nil
}

// clock is a manually advanced time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

var t0 = time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)

func settings(mod func(*models.Settings)) models.Settings {
	s := models.DefaultSettings()
	s.DefaultWorkoutGoal = models.GoalStrength
	s.WarmupPreference = models.PreferenceNever
	s.CooldownPreference = models.PreferenceNever
	if mod != nil {
		mod(&s)
	}
	return s
}

type harness struct {
	store *fakeStore
	clock *clock
	ctrl  *Controller
	ids   int
}

func start(t *testing.T, store *fakeStore, s models.Settings, seed ...models.Exercise) *harness {
	t.Helper()
	h := &harness{store: store, clock: &clock{now: t0}}
	ctrl, err := New(Config{
		Store:     store,
		Settings:  s,
		Item:      models.WorkoutItem{ID: "item-1", Title: "Push day"},
		Exercises: seed,
		Now:       h.clock.Now,
		NewID: func() string {
			h.ids++
			return fmt.Sprintf("id-%d", h.ids)
		},
	})
	require.NoError(t, err)
	h.ctrl = ctrl
	t.Cleanup(func() { ctrl.Close(context.Background()) })
	return h
}

func (h *harness) drain(t *testing.T) {
	t.Helper()
	require.NoError(t, h.ctrl.writer.Flush(context.Background()))
}

func TestNewRequiresStoreAndItem(t *testing.T) {
	_, err := New(Config{Item: models.WorkoutItem{ID: "x"}})
	assert.Error(t, err)

	_, err = New(Config{Store: newFakeStore()})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestGoalSelectWhenNoDefaultGoal(t *testing.T) {
	h := start(t, newFakeStore(), settings(func(s *models.Settings) { s.DefaultWorkoutGoal = "" }))
	c := h.ctrl

	assert.Equal(t, PhaseGoalSelect, c.Phase())
	assert.True(t, c.State().ModalOpen(workout.ModalGoal))

	assert.ErrorIs(t, c.ChooseGoal("powerlifting"), errors.ErrValidation)
	assert.ErrorIs(t, c.FinishWarmup(), errors.ErrIllegalTransition)

	require.NoError(t, c.ChooseGoal(models.GoalHypertrophy))
	assert.Equal(t, models.GoalHypertrophy, c.Goal())
	assert.Equal(t, PhaseExerciseLoop, c.Phase())
	assert.False(t, c.State().ModalOpen(workout.ModalGoal))
	assert.ErrorIs(t, c.ChooseGoal(models.GoalStrength), errors.ErrIllegalTransition)
}

func TestWarmupAskBehavesLikeAlways(t *testing.T) {
	for _, pref := range []models.Preference{models.PreferenceAsk, models.PreferenceAlways} {
		t.Run(string(pref), func(t *testing.T) {
			h := start(t, newFakeStore(), settings(func(s *models.Settings) { s.WarmupPreference = pref }))
			c := h.ctrl
			assert.Equal(t, PhaseWarmup, c.Phase())
			assert.True(t, c.State().ModalOpen(workout.ModalWarmup))
			assert.False(t, c.State().ShowSelector, "selector waits for the exercise loop")

			require.NoError(t, c.FinishWarmup())
			assert.Equal(t, PhaseExerciseLoop, c.Phase())
			assert.ErrorIs(t, c.FinishWarmup(), errors.ErrIllegalTransition)
		})
	}
}

func TestSelectorAutoOpensWhenEmpty(t *testing.T) {
	h := start(t, newFakeStore(), settings(nil))
	c := h.ctrl
	require.Equal(t, PhaseExerciseLoop, c.Phase())
	assert.True(t, c.State().ShowSelector)

	c.Dispatch(workout.AddExercise{Exercise: models.Exercise{ID: "a", Name: "Row"}})
	c.Dispatch(workout.CloseSelector{})
	assert.False(t, c.State().ShowSelector)

	st := c.Dispatch(workout.RemoveExercise{Index: 0})
	assert.Empty(t, st.Navigable())
	assert.True(t, st.ShowSelector, "removing the last exercise reopens the selector")

	st = c.Dispatch(workout.CloseSelector{})
	assert.True(t, st.ShowSelector, "selector cannot be closed with nothing to show")
}

func TestBenchPressScenario(t *testing.T) {
	h := start(t, newFakeStore(), settings(nil))
	c := h.ctrl
	assert.True(t, c.State().ShowSelector)

	st := c.Dispatch(workout.AddExercise{Exercise: models.Exercise{ID: "bench", Name: "Bench Press", TargetRestTime: 90}})
	require.Len(t, st.Exercises, 1)
	require.Len(t, st.Exercises[0].Sets, 1)
	assert.Equal(t, 0, st.CurrentExerciseIndex)

	c.Dispatch(workout.UpdateSet{Field: workout.FieldWeight, Value: 100})
	c.Dispatch(workout.UpdateSet{Field: workout.FieldReps, Value: 5})
	done := h.clock.Advance(2 * time.Minute)
	st = c.Dispatch(workout.CompleteSet{At: done})

	assert.True(t, st.Rest.Active)
	assert.Equal(t, done.Add(90*time.Second), st.Rest.EndTime)
	sets := st.Exercises[0].Sets
	require.Len(t, sets, 2)
	assert.True(t, sets[0].IsCompleted())
	assert.False(t, sets[1].IsCompleted())
	assert.Equal(t, 100.0, sets[1].Weight)
	assert.Equal(t, 5, sets[1].Reps)
	require.NotNil(t, st.PRCelebration, "first bench set is a record")

	require.NoError(t, c.RequestFinish())
	assert.Equal(t, PhaseConfirm, c.Phase(), "cooldown turned off goes straight to confirm")
	h.clock.Advance(time.Minute)
	summary, err := c.Finish(context.Background())
	require.NoError(t, err)

	require.Len(t, h.store.sessions, 1)
	saved := h.store.sessions[0]
	require.Len(t, saved.Exercises, 1)
	assert.Equal(t, "Bench Press", saved.Exercises[0].Name)
	require.Len(t, saved.Exercises[0].Sets, 1)
	assert.Equal(t, 100.0, saved.Exercises[0].Sets[0].Weight)
	assert.Equal(t, 5, saved.Exercises[0].Sets[0].Reps)
	assert.Equal(t, "item-1", saved.WorkoutItemID)
	assert.Equal(t, models.GoalStrength, saved.GoalType)

	assert.Equal(t, PhaseSaved, c.Phase())
	assert.Equal(t, 1, summary.Totals.CompletedSets)
	assert.Equal(t, 500.0, summary.Totals.TotalVolume)
	assert.Equal(t, 180, summary.ElapsedSec)
	require.Len(t, summary.Records, 1)
	assert.Empty(t, c.State().Exercises, "live state is cleared after save")

	h.drain(t)
	last := h.store.lastItemUpdate()
	require.NotNil(t, last.IsActiveWorkout)
	assert.False(t, *last.IsActiveWorkout)
	require.NotNil(t, last.WorkoutEndTime)
	assert.Equal(t, t0.Add(3*time.Minute), *last.WorkoutEndTime)
	_, err = h.store.GetCheckpoint("item-1")
	assert.ErrorIs(t, err, storage.ErrNotFound, "checkpoint cleared on finish")
}

func TestRenameEnrichesFromLibrary(t *testing.T) {
	store := newFakeStore()
	store.library = []models.PersonalExercise{{
		ID: "pe-1", Name: "Bench Press", MuscleGroup: "Chest", DefaultRestTime: 120, Tempo: "3-1-1",
	}}
	h := start(t, store, settings(nil))
	c := h.ctrl

	c.Dispatch(workout.AddExercise{Exercise: models.Exercise{ID: "x", TargetRestTime: 60}})
	st := c.Dispatch(workout.RenameExercise{Index: 0, Name: "  bench   press "})

	ex := st.Exercises[0]
	assert.Equal(t, "Chest", ex.MuscleGroup)
	assert.Equal(t, 120, ex.TargetRestTime)
	assert.Equal(t, "3-1-1", ex.Tempo)
}

func TestAddNamedExerciseEnriches(t *testing.T) {
	store := newFakeStore()
	store.library = []models.PersonalExercise{{ID: "pe-1", Name: "Squat", MuscleGroup: "Legs"}}
	h := start(t, store, settings(nil))

	st := h.ctrl.Dispatch(workout.AddExercise{Exercise: models.Exercise{ID: "s", Name: "squat", TargetRestTime: 180}})
	assert.Equal(t, "Legs", st.Exercises[0].MuscleGroup)
	assert.Equal(t, 180, st.Exercises[0].TargetRestTime, "library without a rest time keeps the exercise's")
}

func benchWithCompletedSet(t *testing.T, h *harness) {
	t.Helper()
	h.ctrl.Dispatch(workout.AddExercise{Exercise: models.Exercise{
		ID: "bench", Name: "Bench Press", TargetRestTime: 90,
		Sets: []models.Set{{Weight: 100, Reps: 5}},
	}})
	h.ctrl.Dispatch(workout.CompleteSet{At: h.clock.Advance(time.Minute)})
}

func TestFinishFailureKeepsLiveState(t *testing.T) {
	store := newFakeStore()
	h := start(t, store, settings(nil))
	c := h.ctrl
	benchWithCompletedSet(t, h)
	require.NoError(t, c.RequestFinish())

	before := c.State()
	store.saveErr = stderrors.New("disk full")
	_, err := c.Finish(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrPersistence)
	assert.True(t, errors.IsRetryable(err))
	assert.Equal(t, PhaseConfirm, c.Phase())
	assert.Equal(t, before, c.State())
	assert.Empty(t, store.sessions)

	store.saveErr = nil
	_, err = c.Finish(context.Background())
	require.NoError(t, err)
	assert.Len(t, store.sessions, 1)
}

func TestFinishRequiresCompletedSets(t *testing.T) {
	h := start(t, newFakeStore(), settings(nil))
	c := h.ctrl
	c.Dispatch(workout.AddExercise{Exercise: models.Exercise{ID: "a", Name: "Row"}})
	require.NoError(t, c.RequestFinish())

	_, err := c.Finish(context.Background())
	assert.ErrorIs(t, err, errors.ErrValidation)
	assert.Equal(t, PhaseConfirm, c.Phase())
}

func TestFinishOutsideConfirmIsIllegal(t *testing.T) {
	h := start(t, newFakeStore(), settings(nil))
	_, err := h.ctrl.Finish(context.Background())
	assert.ErrorIs(t, err, errors.ErrIllegalTransition)
	assert.ErrorIs(t, h.ctrl.Cancel(), errors.ErrIllegalTransition)
}

func TestCooldownFlow(t *testing.T) {
	h := start(t, newFakeStore(), settings(func(s *models.Settings) { s.CooldownPreference = models.PreferenceAsk }))
	c := h.ctrl
	benchWithCompletedSet(t, h)

	require.NoError(t, c.RequestFinish())
	assert.Equal(t, PhaseCooldown, c.Phase())
	assert.True(t, c.State().ModalOpen(workout.ModalCooldown))

	require.NoError(t, c.BackToWorkout())
	assert.Equal(t, PhaseExerciseLoop, c.Phase())
	assert.False(t, c.State().ModalOpen(workout.ModalCooldown))

	require.NoError(t, c.RequestFinish())
	require.NoError(t, c.FinishCooldown())
	assert.Equal(t, PhaseConfirm, c.Phase())
	assert.Equal(t, ConfirmFinish, c.Confirming())
	assert.True(t, c.State().ModalOpen(workout.ModalConfirm))
}

func TestCancelDiscardsWithoutSaving(t *testing.T) {
	store := newFakeStore()
	h := start(t, store, settings(nil))
	c := h.ctrl
	benchWithCompletedSet(t, h)
	h.drain(t)
	_, err := store.GetCheckpoint("item-1")
	require.NoError(t, err, "live workout is checkpointed")

	require.NoError(t, c.RequestCancel())
	assert.Equal(t, PhaseConfirm, c.Phase())
	assert.Equal(t, ConfirmCancel, c.Confirming())
	assert.ErrorIs(t, c.RequestCancel(), errors.ErrIllegalTransition)

	require.NoError(t, c.Cancel())
	assert.Equal(t, PhaseCancelled, c.Phase())
	assert.Empty(t, c.State().Exercises)

	h.drain(t)
	assert.Empty(t, store.sessions)
	_, err = store.GetCheckpoint("item-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	last := store.lastItemUpdate()
	require.NotNil(t, last.IsActiveWorkout)
	assert.False(t, *last.IsActiveWorkout)

	before := c.State()
	assert.Equal(t, before, c.Dispatch(workout.AddExercise{Exercise: models.Exercise{ID: "z", Name: "Curl"}}))
}

func TestResumeFromCheckpoint(t *testing.T) {
	store := newFakeStore()
	first := start(t, store, settings(nil))
	benchWithCompletedSet(t, first)
	first.ctrl.Dispatch(workout.Pause{At: first.clock.Advance(10 * time.Second)})
	require.NoError(t, first.ctrl.Close(context.Background()))
	want := first.ctrl.State()

	second := start(t, store, settings(nil))
	c := second.ctrl
	assert.True(t, c.Resumed())
	assert.Equal(t, PhaseExerciseLoop, c.Phase())
	got := c.State()
	assert.Equal(t, want.StartTimestamp.UnixNano(), got.StartTimestamp.UnixNano())
	assert.Equal(t, want.TotalPausedTime, got.TotalPausedTime)
	assert.True(t, got.IsPaused)
	require.Len(t, got.Exercises, 1)
	assert.Equal(t, "Bench Press", got.Exercises[0].Name)
	assert.Len(t, got.Exercises[0].CompletedSets(), 1)
}

func TestResumeKeepsRecordsSetBeforeRestart(t *testing.T) {
	store := newFakeStore()
	first := start(t, store, settings(nil))
	benchWithCompletedSet(t, first)
	require.Len(t, first.ctrl.SessionRecords(), 1)
	require.NoError(t, first.ctrl.Close(context.Background()))

	second := start(t, store, settings(nil))
	c := second.ctrl
	require.True(t, c.Resumed())
	hits := c.SessionRecords()
	require.Len(t, hits, 1)
	assert.Equal(t, 100.0, hits[0].MaxWeight)
	pr := c.PersonalRecord("Bench Press")
	require.NotNil(t, pr)
	assert.Equal(t, 5, pr.MaxWeightReps)

	c.Dispatch(workout.HidePRCelebration{})
	c.Dispatch(workout.UpdateSet{Field: workout.FieldWeight, Value: 90})
	st := c.Dispatch(workout.CompleteSet{At: second.clock.Advance(time.Minute)})
	assert.Nil(t, st.PRCelebration, "90x5 is weaker than the 100x5 done before the restart")

	require.NoError(t, c.RequestFinish())
	summary, err := c.Finish(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Records, 1)
	assert.Equal(t, 100.0, summary.Records[0].MaxWeight)
}

func TestStaleCheckpointIsDiscarded(t *testing.T) {
	store := newFakeStore()
	store.checkpoints["item-1"] = models.Checkpoint{
		ItemID:  "item-1",
		Data:    []byte(`{"version":1,"phase":2,"state":{"exercises":[]}}`),
		SavedAt: t0.Add(-13 * time.Hour),
	}
	h := start(t, store, settings(nil))
	assert.False(t, h.ctrl.Resumed())
	h.drain(t)
	cp, err := store.GetCheckpoint("item-1")
	require.NoError(t, err)
	assert.True(t, cp.SavedAt.Equal(t0), "stale checkpoint replaced by the new workout's")
}

func TestUnreadableCheckpointIsDiscarded(t *testing.T) {
	store := newFakeStore()
	store.checkpoints["item-1"] = models.Checkpoint{ItemID: "item-1", Data: []byte("{"), SavedAt: t0}
	h := start(t, store, settings(nil))
	assert.False(t, h.ctrl.Resumed())
	assert.Equal(t, PhaseExerciseLoop, h.ctrl.Phase())
}

func TestTickLatchesRestExpiryAndAlertsOnce(t *testing.T) {
	store := newFakeStore()
	alerter := &fakeAlerter{}
	clk := &clock{now: t0}
	c, err := New(Config{
		Store:    store,
		Settings: settings(nil),
		Item:     models.WorkoutItem{ID: "item-1"},
		Alerter:  alerter,
		Now:      clk.Now,
	})
	require.NoError(t, err)

	c.Dispatch(workout.AddExercise{Exercise: models.Exercise{ID: "b", Name: "Bench Press", TargetRestTime: 60, Sets: []models.Set{{Weight: 60, Reps: 8}}}})
	done := clk.Advance(5 * time.Second)
	c.Dispatch(workout.CompleteSet{At: done})

	snap := c.Tick(done.Add(30 * time.Second))
	assert.True(t, snap.RestActive)
	assert.Equal(t, 30, snap.RestLeft)
	assert.False(t, c.State().Rest.Expired)

	snap = c.Tick(done.Add(61 * time.Second))
	assert.True(t, snap.RestExpired)
	assert.Equal(t, 0, snap.RestLeft)
	assert.True(t, c.State().Rest.Active, "expired rest waits for skip")
	assert.True(t, c.State().Rest.Expired)
	c.Tick(done.Add(62 * time.Second))

	require.NoError(t, c.Close(context.Background()))
	assert.Equal(t, []string{"Bench Press"}, alerter.names)
}

func TestRestAlertRespectsNotificationSetting(t *testing.T) {
	alerter := &fakeAlerter{}
	clk := &clock{now: t0}
	c, err := New(Config{
		Store:    newFakeStore(),
		Settings: settings(func(s *models.Settings) { s.NotificationsEnabled = false }),
		Item:     models.WorkoutItem{ID: "item-1"},
		Alerter:  alerter,
		Now:      clk.Now,
	})
	require.NoError(t, err)
	c.Dispatch(workout.AddExercise{Exercise: models.Exercise{ID: "b", Name: "Row", TargetRestTime: 30}})
	c.Dispatch(workout.CompleteSet{At: t0})
	c.Tick(t0.Add(time.Minute))
	require.NoError(t, c.Close(context.Background()))
	assert.Empty(t, alerter.names)
}

func TestTickSyncsProgress(t *testing.T) {
	store := newFakeStore()
	h := start(t, store, settings(nil))
	h.drain(t)

	snap := h.ctrl.Tick(t0.Add(10 * time.Second))
	assert.Equal(t, 10, snap.Elapsed)
	h.drain(t)
	updates := len(store.itemUpdates)

	h.ctrl.Tick(t0.Add(31 * time.Second))
	h.drain(t)
	require.Len(t, store.itemUpdates, updates+1)
	last := store.lastItemUpdate()
	require.NotNil(t, last.WorkoutDurationSec)
	assert.Equal(t, 31, *last.WorkoutDurationSec)
	require.NotNil(t, last.WorkoutStartTime)
	assert.Equal(t, t0, *last.WorkoutStartTime)
	assert.True(t, *last.IsActiveWorkout)
}

func TestRunStopsWithContext(t *testing.T) {
	h := start(t, newFakeStore(), settings(nil))
	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan struct{}, 8)
	done := make(chan struct{})
	go func() {
		h.ctrl.Run(ctx, time.Millisecond, func(timer.Snapshot) {
			select {
			case ticks <- struct{}{}:
			default:
			}
		})
		close(done)
	}()
	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("no tick delivered")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestPRCelebrationOnlyOnImprovement(t *testing.T) {
	store := newFakeStore()
	past := t0.Add(-48 * time.Hour)
	store.sessions = []models.WorkoutSession{{
		ID: "old", StartTime: past,
		Exercises: []models.Exercise{{ID: "e", Name: "Bench Press", Sets: []models.Set{{Weight: 100, Reps: 5, CompletedAt: &past}}}},
	}}
	h := start(t, store, settings(nil))
	c := h.ctrl

	c.Dispatch(workout.AddExercise{Exercise: models.Exercise{ID: "b", Name: "bench press", Sets: []models.Set{{Weight: 100, Reps: 5}}}})
	st := c.Dispatch(workout.CompleteSet{At: h.clock.Advance(time.Minute)})
	assert.Nil(t, st.PRCelebration, "matching the record is not a new one")

	c.Dispatch(workout.UpdateSet{Field: workout.FieldReps, Value: 6})
	st = c.Dispatch(workout.CompleteSet{At: h.clock.Advance(time.Minute)})
	require.NotNil(t, st.PRCelebration)
	assert.Equal(t, 6, st.PRCelebration.MaxWeightReps)

	pr := c.PersonalRecord("Bench Press")
	require.NotNil(t, pr)
	assert.Equal(t, 6, pr.MaxWeightReps)
	assert.Len(t, c.SessionRecords(), 1)
}

func TestRecordsScanAllHistory(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < constants.HistoryLimit; i++ {
		at := t0.Add(-time.Duration(i+1) * time.Hour)
		store.sessions = append(store.sessions, models.WorkoutSession{
			ID: fmt.Sprintf("row-%d", i), StartTime: at,
			Exercises: []models.Exercise{{Name: "Row", Sets: []models.Set{{Weight: 60, Reps: 10, CompletedAt: &at}}}},
		})
	}
	old := t0.AddDate(-1, 0, 0)
	store.sessions = append(store.sessions, models.WorkoutSession{
		ID: "bench-best", StartTime: old,
		Exercises: []models.Exercise{{Name: "Bench Press", Sets: []models.Set{{Weight: 200, Reps: 5, CompletedAt: &old}}}},
	})

	h := start(t, store, settings(nil))
	c := h.ctrl
	pr := c.PersonalRecord("Bench Press")
	require.NotNil(t, pr, "record older than the ghost window is still known")
	assert.Equal(t, 200.0, pr.MaxWeight)

	c.Dispatch(workout.AddExercise{Exercise: models.Exercise{ID: "b", Name: "Bench Press", Sets: []models.Set{{Weight: 150, Reps: 5}}}})
	st := c.Dispatch(workout.CompleteSet{At: h.clock.Advance(time.Minute)})
	assert.Nil(t, st.PRCelebration)
	assert.Empty(t, c.SessionRecords())
	assert.Empty(t, c.Ghost("Bench Press"), "ghost values only look at recent sessions")
}

func TestSetEditsOnlyInExerciseLoop(t *testing.T) {
	h := start(t, newFakeStore(), settings(func(s *models.Settings) { s.CooldownPreference = models.PreferenceAsk }))
	c := h.ctrl
	c.Dispatch(workout.AddExercise{Exercise: models.Exercise{ID: "b", Name: "Bench Press", Sets: []models.Set{{Weight: 100, Reps: 5}}}})

	require.NoError(t, c.RequestFinish())
	require.Equal(t, PhaseCooldown, c.Phase())
	before := c.State()
	for _, ev := range []workout.Event{
		workout.UpdateSet{Field: workout.FieldWeight, Value: 120},
		workout.AdjustSet{Field: workout.FieldReps, Delta: 1},
		workout.AddSet{},
		workout.CompleteSet{At: h.clock.Advance(time.Minute)},
		workout.OpenNumpad{Target: workout.FieldWeight},
	} {
		assert.Equal(t, before, c.Dispatch(ev), "%T during cooldown", ev)
	}

	require.NoError(t, c.BackToWorkout())
	st := c.Dispatch(workout.CompleteSet{At: h.clock.Advance(time.Minute)})
	assert.Len(t, st.Exercises[0].CompletedSets(), 1)
}

func TestFinishRejectedWhileConfirmingCancel(t *testing.T) {
	h := start(t, newFakeStore(), settings(nil))
	c := h.ctrl
	benchWithCompletedSet(t, h)

	require.NoError(t, c.RequestCancel())
	_, err := c.Finish(context.Background())
	assert.ErrorIs(t, err, errors.ErrIllegalTransition)
	assert.Empty(t, h.store.sessions)

	require.NoError(t, c.BackToWorkout())
	require.NoError(t, c.RequestFinish())
	_, err = c.Finish(context.Background())
	require.NoError(t, err)
}

func TestNoAlertsAfterClose(t *testing.T) {
	alerter := &fakeAlerter{}
	clk := &clock{now: t0}
	c, err := New(Config{
		Store:    newFakeStore(),
		Settings: settings(nil),
		Item:     models.WorkoutItem{ID: "item-1"},
		Alerter:  alerter,
		Now:      clk.Now,
	})
	require.NoError(t, err)
	c.Dispatch(workout.AddExercise{Exercise: models.Exercise{ID: "b", Name: "Row", TargetRestTime: 30, Sets: []models.Set{{Weight: 50, Reps: 10}}}})
	c.Dispatch(workout.CompleteSet{At: t0})

	require.NoError(t, c.Close(context.Background()))
	c.Tick(t0.Add(time.Minute))
	assert.True(t, c.State().Rest.Expired)
	assert.Empty(t, alerter.names)
}

func TestGhostAndSuggestions(t *testing.T) {
	store := newFakeStore()
	older, newer := t0.Add(-96*time.Hour), t0.Add(-24*time.Hour)
	store.sessions = []models.WorkoutSession{
		{ID: "new", StartTime: newer, Exercises: []models.Exercise{{Name: "Squat", Sets: []models.Set{{Weight: 140, Reps: 3, CompletedAt: &newer}}}}},
		{ID: "old", StartTime: older, Exercises: []models.Exercise{{Name: "Squat", Sets: []models.Set{{Weight: 120, Reps: 5, CompletedAt: &older}}}}},
	}
	store.library = []models.PersonalExercise{
		{ID: "1", Name: "Bench Press", UseCount: 2},
		{ID: "2", Name: "Incline Bench", UseCount: 9},
		{ID: "3", Name: "Squat", UseCount: 4},
		{ID: "4", Name: "Bent Over Row", UseCount: 2},
	}
	h := start(t, store, settings(nil))
	c := h.ctrl

	ghost := c.Ghost(" SQUAT ")
	require.Len(t, ghost, 1)
	assert.Equal(t, 140.0, ghost[0].Weight)
	assert.Nil(t, c.Ghost("Deadlift"))

	var names []string
	for _, pe := range c.Suggestions("be") {
		names = append(names, pe.Name)
	}
	assert.Equal(t, []string{"Incline Bench", "Bench Press", "Bent Over Row"}, names)
	assert.Len(t, c.Suggestions(""), 4)
}

func TestDataFetchFailuresDegrade(t *testing.T) {
	store := newFakeStore()
	store.historyErr = stderrors.New("timeout")
	store.libraryErr = stderrors.New("timeout")
	h := start(t, store, settings(nil))
	c := h.ctrl

	assert.Empty(t, c.Suggestions("b"))
	assert.Nil(t, c.Ghost("Bench Press"))
	benchWithCompletedSet(t, h)
	assert.NotNil(t, c.State().PRCelebration, "no history means every set is a first record")
}

func TestFinishLearnsLibrary(t *testing.T) {
	store := newFakeStore()
	store.library = []models.PersonalExercise{{ID: "pe-row", Name: "Row", UseCount: 3}}
	h := start(t, store, settings(nil))
	c := h.ctrl

	c.Dispatch(workout.AddExercise{Exercise: models.Exercise{ID: "r", Name: "Row", Sets: []models.Set{{Weight: 50, Reps: 10}}}})
	c.Dispatch(workout.CompleteSet{At: h.clock.Advance(time.Minute)})
	c.Dispatch(workout.AddExercise{Exercise: models.Exercise{ID: "d", Name: "Dips", MuscleGroup: "Chest", TargetRestTime: 75, Sets: []models.Set{{Reps: 12, Weight: 10}}}})
	c.Dispatch(workout.ChangeExercise{Index: 1})
	c.Dispatch(workout.CompleteSet{At: h.clock.Advance(time.Minute)})
	require.NoError(t, c.RequestFinish())
	_, err := c.Finish(context.Background())
	require.NoError(t, err)
	h.drain(t)

	assert.Equal(t, []string{"pe-row"}, store.increments)
	require.Len(t, store.library, 2)
	dips := store.library[1]
	assert.Equal(t, "Dips", dips.Name)
	assert.Equal(t, "Chest", dips.MuscleGroup)
	assert.Equal(t, 75, dips.DefaultRestTime)
	assert.Equal(t, 1, dips.UseCount)
}

func TestSaveAsTemplate(t *testing.T) {
	store := newFakeStore()
	h := start(t, store, settings(nil))
	c := h.ctrl

	_, err := c.SaveAsTemplate("Push")
	assert.ErrorIs(t, err, errors.ErrValidation, "empty workout")

	benchWithCompletedSet(t, h)
	_, err = c.SaveAsTemplate("   ")
	assert.ErrorIs(t, err, errors.ErrValidation)

	tmpl, err := c.SaveAsTemplate(" Push ")
	require.NoError(t, err)
	assert.Equal(t, "Push", tmpl.Name)
	require.Len(t, tmpl.Exercises, 1)
	for _, set := range tmpl.Exercises[0].Sets {
		assert.False(t, set.IsCompleted())
		assert.Equal(t, 100.0, set.Weight)
	}
	assert.NotEqual(t, "bench", tmpl.Exercises[0].ID)
	assert.Len(t, store.templates, 1)

	store.saveErr = stderrors.New("locked")
	_, err = c.SaveAsTemplate("Pull")
	assert.ErrorIs(t, err, errors.ErrPersistence)
}

func TestTemplateSeedGetsFreshIDsAndSets(t *testing.T) {
	done := t0.Add(-time.Hour)
	seed := []models.Exercise{
		{ID: "tmpl-1", Name: "Press", Sets: []models.Set{{Weight: 40, Reps: 8, CompletedAt: &done}}},
		{ID: "tmpl-2", Name: "Curl"},
	}
	h := start(t, newFakeStore(), settings(nil), seed...)
	st := h.ctrl.State()

	require.Len(t, st.Exercises, 2)
	assert.NotEqual(t, "tmpl-1", st.Exercises[0].ID)
	assert.False(t, st.Exercises[0].Sets[0].IsCompleted())
	assert.Len(t, st.Exercises[1].Sets, 1)
	assert.Equal(t, 0, st.CurrentExerciseIndex)
	assert.False(t, st.ShowSelector)
	assert.NotNil(t, seed[0].Sets[0].CompletedAt, "seed is not mutated")
}

func TestSettingsChangeFlowsBack(t *testing.T) {
	var got []models.Settings
	clk := &clock{now: t0}
	c, err := New(Config{
		Store:            newFakeStore(),
		Settings:         settings(nil),
		Item:             models.WorkoutItem{ID: "item-1"},
		Now:              clk.Now,
		OnSettingsChange: func(s models.Settings) { got = append(got, s) },
	})
	require.NoError(t, err)
	defer c.Close(context.Background())

	rest := 150
	c.Dispatch(workout.UpdateSettings{Patch: models.SettingsPatch{DefaultRestTime: &rest}})
	require.Len(t, got, 1)
	assert.Equal(t, 150, got[0].DefaultRestTime)
	assert.Equal(t, 150, c.State().Settings.DefaultRestTime)
}
