// Package session owns a live workout from goal selection to save or cancel.
// It is the only holder of the reducer state: callers dispatch events and read
// copies, and the controller executes the intents the reducer emits.
package session

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/errors"
	"github.com/julianstephens/liftlit/internal/logger"
	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/persist"
	"github.com/julianstephens/liftlit/internal/records"
	"github.com/julianstephens/liftlit/internal/timer"
	"github.com/julianstephens/liftlit/internal/workout"
)

// Store is the persistence the controller talks to. storage.Provider
// satisfies it.
type Store interface {
	GetPersonalExercises() ([]models.PersonalExercise, error)
	CreatePersonalExercise(models.PersonalExercise) (models.PersonalExercise, error)
	IncrementExerciseUse(id string) error
	GetWorkoutSessions(limit int) ([]models.WorkoutSession, error)
	SaveWorkoutSession(models.WorkoutSession) error
	CreateWorkoutTemplate(models.WorkoutTemplate) error
	UpdateWorkoutItem(id string, update models.WorkoutItemUpdate) error
	SaveCheckpoint(models.Checkpoint) error
	GetCheckpoint(itemID string) (models.Checkpoint, error)
	ClearCheckpoint(itemID string) error
}

// Alerter delivers the rest-over alert. *notifier.Notifier satisfies it.
type Alerter interface {
	RestOver(ctx context.Context, exerciseName string) error
}

// Config is everything the controller needs, passed in explicitly.
type Config struct {
	Store    Store
	Settings models.Settings
	Item     models.WorkoutItem
	// Exercises seeds a fresh workout, usually from a template.
	Exercises []models.Exercise
	Alerter   Alerter
	// Writer runs background writes. Nil gives the controller its own.
	Writer *persist.Writer
	Now    func() time.Time
	NewID  func() string
	// OnSettingsChange receives settings edited from inside the workout.
	OnSettingsChange func(models.Settings)
}

type Controller struct {
	mu sync.Mutex

	store      Store
	item       models.WorkoutItem
	alerter    Alerter
	writer     *persist.Writer
	ownsWriter bool
	now        func() time.Time
	newID      func() string
	onSettings func(models.Settings)

	state   workout.State
	phase   Phase
	confirm ConfirmAction
	goal    models.GoalType
	resumed bool

	library  map[string]models.PersonalExercise
	history  []models.WorkoutSession
	prs      map[string]models.PersonalRecord
	prsHit   []models.PersonalRecord
	lastSync time.Time
	summary  *Summary

	ctx    context.Context
	cancel context.CancelFunc
	alerts sync.WaitGroup
	closed bool
}

// New starts a workout for cfg.Item, resuming from a recent checkpoint when
// one exists.
func New(cfg Config) (*Controller, error) {
	if cfg.Store == nil {
		return nil, stderrors.New("session: store is required")
	}
	if cfg.Item.ID == "" {
		return nil, errors.Wrapf(errors.ErrValidation, "workout item has no id")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	models.ApplyDefaultSettings(&cfg.Settings)

	c := &Controller{
		store:      cfg.Store,
		item:       cfg.Item,
		alerter:    cfg.Alerter,
		writer:     cfg.Writer,
		now:        cfg.Now,
		newID:      cfg.NewID,
		onSettings: cfg.OnSettingsChange,
	}
	if c.writer == nil {
		c.writer = persist.NewWriter(persist.Options{
			OnFailure: func(key string, err error) {
				logger.Error("Background write abandoned", "key", key, "error", err)
			},
		})
		c.ownsWriter = true
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())

	c.loadHistory()
	c.loadLibrary()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resume(cfg.Settings) {
		logger.Info("Resumed workout from checkpoint", "item", c.item.ID, "phase", c.phase)
		return c, nil
	}

	start := c.now()
	c.state = workout.NewState(cfg.Settings, start, c.freshExercises(cfg.Exercises))
	c.lastSync = start
	active := true
	c.queueItemUpdate(models.WorkoutItemUpdate{IsActiveWorkout: &active, WorkoutStartTime: &start})

	c.goal = cfg.Settings.DefaultWorkoutGoal
	if c.goal == "" {
		c.enter(PhaseGoalSelect)
	} else {
		c.enter(c.afterGoal())
	}
	return c, nil
}

// freshExercises gives seed exercises new ids and pending sets.
func (c *Controller) freshExercises(seed []models.Exercise) []models.Exercise {
	out := make([]models.Exercise, 0, len(seed))
	for _, ex := range seed {
		ex = ex.Clone()
		ex.ID = c.newID()
		for i, set := range ex.Sets {
			ex.Sets[i] = set.Fresh()
		}
		if len(ex.Sets) == 0 {
			ex.Sets = []models.Set{{}}
		}
		out = append(out, ex)
	}
	return out
}

// loadHistory scans every saved session for records and keeps the newest
// HistoryLimit of them for ghost values.
func (c *Controller) loadHistory() {
	sessions, err := c.store.GetWorkoutSessions(0)
	if err != nil {
		logger.Warn("Workout history unavailable", "error", errors.Wrap(errors.ErrDataFetch, err))
		sessions = nil
	}
	c.prs = records.FromHistory(sessions)
	if len(sessions) > constants.HistoryLimit {
		sessions = sessions[:constants.HistoryLimit]
	}
	c.history = sessions
}

func (c *Controller) loadLibrary() {
	c.library = make(map[string]models.PersonalExercise)
	entries, err := c.store.GetPersonalExercises()
	if err != nil {
		logger.Warn("Exercise library unavailable", "error", errors.Wrap(errors.ErrDataFetch, err))
		return
	}
	for _, pe := range entries {
		c.library[models.NormalizeName(pe.Name)] = pe
	}
}

// Dispatch applies ev and runs the intents it produces. Events are applied
// one at a time in call order. Dispatch after the workout ended is a no-op,
// as is a set edit while a goal, warmup, cooldown or confirm step is up.
func (c *Controller) Dispatch(ev workout.Event) workout.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase.Terminal() {
		return c.state.Clone()
	}
	if c.phase != PhaseExerciseLoop && editsSets(ev) {
		logger.Debug("Ignoring set edit outside the exercise loop", "phase", c.phase)
		return c.state.Clone()
	}
	c.apply(ev)
	c.ensureSelector()
	return c.state.Clone()
}

func editsSets(ev workout.Event) bool {
	switch ev.(type) {
	case workout.UpdateSet, workout.AdjustSet, workout.AddSet, workout.RemoveSet,
		workout.UpdateSetRPE, workout.UpdateSetNotes, workout.CompleteSet,
		workout.OpenNumpad, workout.NumpadInput, workout.NumpadDelete, workout.NumpadSubmit:
		return true
	}
	return false
}

func (c *Controller) apply(ev workout.Event) {
	next, intents := workout.Reduce(c.state, ev)
	c.state = next
	for _, it := range intents {
		c.run(it)
	}
}

func (c *Controller) run(it workout.Intent) {
	switch it := it.(type) {
	case workout.Persist:
		c.checkpoint()
	case workout.CheckPR:
		c.checkPR(it)
	case workout.EnrichExercise:
		c.enrich(it)
	case workout.RestAlert:
		c.alert(it)
	case workout.SaveSettings:
		if c.onSettings != nil {
			c.onSettings(it.Settings)
		}
	}
}

// ensureSelector keeps the exercise loop from showing an empty workout.
func (c *Controller) ensureSelector() {
	if c.phase != PhaseExerciseLoop {
		return
	}
	if len(c.state.Navigable()) == 0 && !c.state.ShowSelector {
		c.apply(workout.OpenSelector{})
	}
}

func (c *Controller) checkPR(it workout.CheckPR) {
	current := records.Lookup(c.prs, it.ExerciseName)
	if !records.IsNewPR(it.Set, current) {
		return
	}
	pr := models.PersonalRecord{ExerciseName: it.ExerciseName}
	if current != nil {
		pr = *current
	}
	at := c.now()
	if it.Set.CompletedAt != nil {
		at = *it.Set.CompletedAt
	}
	if !records.Apply(&pr, it.Set, at) {
		return
	}
	key := models.NormalizeName(it.ExerciseName)
	c.prs[key] = pr
	c.notePR(key, pr)
	logger.Debug("Personal record", "exercise", it.ExerciseName, "weight", pr.MaxWeight, "reps", pr.MaxWeightReps)
	c.apply(workout.ShowPRCelebration{Record: pr})
}

// notePR keeps the best record hit this workout per exercise.
func (c *Controller) notePR(key string, pr models.PersonalRecord) {
	for i, hit := range c.prsHit {
		if models.NormalizeName(hit.ExerciseName) == key {
			c.prsHit[i] = pr
			return
		}
	}
	c.prsHit = append(c.prsHit, pr)
}

// enrich copies library metadata onto an exercise whose name now matches a
// library entry.
func (c *Controller) enrich(it workout.EnrichExercise) {
	pe, ok := c.library[models.NormalizeName(it.Name)]
	if !ok {
		return
	}
	idx := c.state.IndexOf(it.ExerciseID)
	if idx < 0 {
		return
	}
	meta := workout.UpdateExerciseMeta{Index: idx}
	if pe.MuscleGroup != "" {
		meta.MuscleGroup = &pe.MuscleGroup
	}
	if pe.Tempo != "" {
		meta.Tempo = &pe.Tempo
	}
	if pe.DefaultRestTime > 0 {
		meta.TargetRestTime = &pe.DefaultRestTime
	}
	if pe.TutorialText != "" {
		meta.TutorialText = &pe.TutorialText
	}
	c.apply(meta)
}

func (c *Controller) alert(it workout.RestAlert) {
	if c.closed || c.alerter == nil || !c.state.Settings.NotificationsEnabled {
		return
	}
	c.alerts.Add(1)
	go func() {
		defer c.alerts.Done()
		ctx, cancel := context.WithTimeout(c.ctx, 5*time.Second)
		defer cancel()
		if err := c.alerter.RestOver(ctx, it.ExerciseName); err != nil {
			logger.Debug("Rest alert not delivered", "error", err)
		}
	}()
}

// Tick re-reads the clock, latches rest expiry and periodically tells the
// owning item how long the workout has run. The returned Snapshot is kept
// apart from the reducer state.
func (c *Controller) Tick(now time.Time) timer.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.phase.Terminal() {
		if r := c.state.Rest; r.Active && !r.Expired && !now.Before(r.EndTime) {
			c.apply(workout.RestExpired{At: now})
		}
		if now.Sub(c.lastSync) >= constants.ProgressSyncInterval {
			c.lastSync = now
			active := true
			secs := c.clock().Elapsed(now)
			c.queueItemUpdate(models.WorkoutItemUpdate{IsActiveWorkout: &active, WorkoutDurationSec: &secs})
		}
	}
	return timer.Compute(c.clock(), c.rest(), now)
}

// Run ticks every interval until ctx is done, handing each snapshot to onTick.
func (c *Controller) Run(ctx context.Context, interval time.Duration, onTick func(timer.Snapshot)) {
	timer.Loop(ctx, interval, func(now time.Time) {
		snap := c.Tick(now)
		if onTick != nil {
			onTick(snap)
		}
	})
}

func (c *Controller) clock() timer.Workout {
	return timer.Workout{
		Start:       c.state.StartTimestamp,
		TotalPaused: c.state.TotalPausedTime,
		PausedAt:    c.state.PausedAt,
	}
}

func (c *Controller) rest() timer.Rest {
	return timer.Rest{
		Active:   c.state.Rest.Active,
		End:      c.state.Rest.EndTime,
		Duration: c.state.Rest.Duration,
	}
}

// State returns a copy of the live state.
func (c *Controller) State() workout.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Confirming reports what the confirm phase is asking about.
func (c *Controller) Confirming() ConfirmAction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirm
}

func (c *Controller) Goal() models.GoalType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.goal
}

// Resumed reports whether the workout was restored from a checkpoint.
func (c *Controller) Resumed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resumed
}

// Item returns the owning workout item as last reported to the store.
func (c *Controller) Item() models.WorkoutItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.item
}

// PendingWrites is the number of background writes not yet applied.
func (c *Controller) PendingWrites() int {
	return c.writer.Pending()
}

// Close waits for outstanding alerts and, when the controller owns its
// writer, drains it.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.alerts.Wait()
	if c.ownsWriter {
		return c.writer.Close(ctx)
	}
	return c.writer.Flush(ctx)
}

// queueItemUpdate folds update into the cached item and queues the whole
// item state, so a coalesced write never loses an earlier field.
func (c *Controller) queueItemUpdate(update models.WorkoutItemUpdate) {
	c.item = update.Apply(c.item)
	item := c.item
	full := models.WorkoutItemUpdate{
		IsActiveWorkout:    &item.IsActiveWorkout,
		WorkoutStartTime:   item.WorkoutStartTime,
		WorkoutEndTime:     item.WorkoutEndTime,
		WorkoutDurationSec: &item.WorkoutDurationSec,
	}
	c.writer.Enqueue("item:"+item.ID, func() error {
		return c.store.UpdateWorkoutItem(item.ID, full)
	})
}
