package workout

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/models"
)

// Reduce applies one event and returns the next state with the intents it
// requests. It is total: events that do not apply return s unchanged and no
// intents. The input state is never mutated.
func Reduce(s State, e Event) (State, []Intent) {
	switch ev := e.(type) {
	case AddExercise:
		return addExercise(s, ev)
	case RemoveExercise:
		return removeExercise(s, ev)
	case ReorderExercises:
		return reorderExercises(s, ev)
	case RenameExercise:
		return renameExercise(s, ev)
	case UpdateExerciseMeta:
		return updateExerciseMeta(s, ev)
	case ChangeExercise:
		if ev.Index < 0 || ev.Index >= len(s.Navigable()) || ev.Index == s.CurrentExerciseIndex {
			return s, nil
		}
		next := s.Clone()
		next.CurrentExerciseIndex = ev.Index
		next.Numpad = Numpad{}
		return next, []Intent{Persist{}}

	case UpdateSet:
		return editActiveSet(s, func(set *models.Set) bool {
			return setField(set, ev.Field, ev.Value)
		})
	case AdjustSet:
		return editActiveSet(s, func(set *models.Set) bool {
			switch ev.Field {
			case FieldWeight:
				return setField(set, ev.Field, set.Weight+ev.Delta)
			case FieldReps:
				return setField(set, ev.Field, float64(set.Reps)+ev.Delta)
			}
			return false
		})
	case UpdateSetRPE:
		if ev.Value < 0 || ev.Value > 10 {
			return s, nil
		}
		return editActiveSet(s, func(set *models.Set) bool {
			set.RPE = ev.Value
			return true
		})
	case UpdateSetNotes:
		return editActiveSet(s, func(set *models.Set) bool {
			set.Notes = strings.TrimSpace(ev.Notes)
			return true
		})
	case AddSet:
		raw, ok := s.CurrentRaw()
		if !ok {
			return s, nil
		}
		next := s.Clone()
		ex := &next.Exercises[raw]
		ex.Sets = append(ex.Sets, trailingSet(*ex))
		return next, []Intent{Persist{}}
	case RemoveSet:
		raw, ok := s.CurrentRaw()
		if !ok {
			return s, nil
		}
		sets := s.Exercises[raw].Sets
		if ev.SetIndex < 0 || ev.SetIndex >= len(sets) || len(sets) == 1 || sets[ev.SetIndex].IsCompleted() {
			return s, nil
		}
		next := s.Clone()
		ex := &next.Exercises[raw]
		ex.Sets = append(ex.Sets[:ev.SetIndex], ex.Sets[ev.SetIndex+1:]...)
		return next, []Intent{Persist{}}
	case CompleteSet:
		return completeSet(s, ev)

	case OpenNumpad:
		if !ev.Target.Valid() || s.Rest.Active {
			return s, nil
		}
		if _, ok := s.CurrentRaw(); !ok {
			return s, nil
		}
		next := s.Clone()
		next.Numpad = Numpad{Open: true, Target: ev.Target}
		return next, nil
	case NumpadInput:
		return numpadInput(s, ev)
	case NumpadDelete:
		if !s.Numpad.Open || s.Numpad.Value == "" {
			return s, nil
		}
		next := s.Clone()
		next.Numpad.Value = next.Numpad.Value[:len(next.Numpad.Value)-1]
		return next, nil
	case NumpadSubmit:
		return numpadSubmit(s)
	case CloseNumpad:
		if !s.Numpad.Open {
			return s, nil
		}
		next := s.Clone()
		next.Numpad = Numpad{}
		return next, nil

	case SkipRest:
		if !s.Rest.Active {
			return s, nil
		}
		next := s.Clone()
		next.Rest = RestTimer{}
		return next, []Intent{Persist{}}
	case AddRestTime:
		return addRestTime(s, ev)
	case RestExpired:
		if !s.Rest.Active || s.Rest.Expired || ev.At.Before(s.Rest.EndTime) {
			return s, nil
		}
		next := s.Clone()
		next.Rest.Expired = true
		ex, _ := s.Current()
		return next, []Intent{RestAlert{ExerciseName: ex.Name}}

	case Pause:
		if s.IsPaused {
			return s, nil
		}
		next := s.Clone()
		at := ev.At
		next.IsPaused = true
		next.PausedAt = &at
		return next, []Intent{Persist{}}
	case Resume:
		if !s.IsPaused {
			return s, nil
		}
		next := s.Clone()
		if next.PausedAt != nil {
			if span := ev.At.Sub(*next.PausedAt); span > 0 {
				next.TotalPausedTime += span
			}
		}
		next.IsPaused = false
		next.PausedAt = nil
		return next, []Intent{Persist{}}

	case ToggleDrawer:
		next := s.Clone()
		next.IsDrawerOpen = ev.Open
		return next, nil
	case ToggleSettings:
		next := s.Clone()
		next.ShowSettings = ev.Open
		return next, nil
	case OpenSelector:
		next := s.Clone()
		next.ShowSelector = true
		return next, nil
	case CloseSelector:
		next := s.Clone()
		next.ShowSelector = false
		return next, nil
	case OpenQuickForm:
		next := s.Clone()
		next.ShowQuickForm = true
		return next, nil
	case CloseQuickForm:
		next := s.Clone()
		next.ShowQuickForm = false
		return next, nil
	case SetModalState:
		if !knownModals[ev.Modal] {
			return s, nil
		}
		next := s.Clone()
		if next.Modals == nil {
			next.Modals = make(map[Modal]bool)
		}
		if ev.Open {
			next.Modals[ev.Modal] = true
		} else {
			delete(next.Modals, ev.Modal)
		}
		return next, nil

	case UpdateSettings:
		next := s.Clone()
		next.Settings = ev.Patch.Merge(s.Settings)
		return next, []Intent{SaveSettings{Settings: next.Settings}}
	case ShowPRCelebration:
		next := s.Clone()
		pr := ev.Record
		next.PRCelebration = &pr
		return next, nil
	case HidePRCelebration:
		if s.PRCelebration == nil {
			return s, nil
		}
		next := s.Clone()
		next.PRCelebration = nil
		return next, nil
	}
	return s, nil
}

func addExercise(s State, ev AddExercise) (State, []Intent) {
	ex := ev.Exercise.Clone()
	if ex.ID == "" || s.IndexOf(ex.ID) >= 0 {
		return s, nil
	}
	ex.Name = strings.TrimSpace(ex.Name)
	if len(ex.Sets) == 0 {
		ex.Sets = []models.Set{{}}
	}
	id := s.currentID()
	next := s.Clone()
	next.Exercises = append(next.Exercises, ex)
	next = anchor(next, id, 0)

	intents := []Intent{Persist{}}
	if ex.HasName() {
		intents = append(intents, EnrichExercise{ExerciseID: ex.ID, Name: ex.Name})
	}
	return next, intents
}

func removeExercise(s State, ev RemoveExercise) (State, []Intent) {
	if ev.Index < 0 || ev.Index >= len(s.Exercises) {
		return s, nil
	}
	id := s.currentID()
	fallback := s.CurrentExerciseIndex
	next := s.Clone()
	next.Exercises = append(next.Exercises[:ev.Index], next.Exercises[ev.Index+1:]...)
	next = anchor(next, id, fallback)
	if next.currentID() != id {
		next.Numpad = Numpad{}
	}
	return next, []Intent{Persist{}}
}

func reorderExercises(s State, ev ReorderExercises) (State, []Intent) {
	if len(ev.Order) == 0 {
		return s, nil
	}
	id := s.currentID()
	next := s.Clone()

	used := make([]bool, len(next.Exercises))
	ordered := make([]models.Exercise, 0, len(next.Exercises))
	for _, want := range ev.Order {
		for i, ex := range next.Exercises {
			if !used[i] && ex.ID == want {
				used[i] = true
				ordered = append(ordered, ex)
				break
			}
		}
	}
	for i, ex := range next.Exercises {
		if !used[i] {
			ordered = append(ordered, ex)
		}
	}
	next.Exercises = ordered
	return anchor(next, id, s.CurrentExerciseIndex), []Intent{Persist{}}
}

func renameExercise(s State, ev RenameExercise) (State, []Intent) {
	name := strings.TrimSpace(ev.Name)
	if name == "" || ev.Index < 0 || ev.Index >= len(s.Exercises) {
		return s, nil
	}
	if s.Exercises[ev.Index].Name == name {
		return s, nil
	}
	id := s.currentID()
	next := s.Clone()
	next.Exercises[ev.Index].Name = name
	next = anchor(next, id, s.CurrentExerciseIndex)
	return next, []Intent{
		Persist{},
		EnrichExercise{ExerciseID: next.Exercises[ev.Index].ID, Name: name},
	}
}

func updateExerciseMeta(s State, ev UpdateExerciseMeta) (State, []Intent) {
	if ev.Index < 0 || ev.Index >= len(s.Exercises) {
		return s, nil
	}
	next := s.Clone()
	ex := &next.Exercises[ev.Index]
	if ev.MuscleGroup != nil {
		ex.MuscleGroup = *ev.MuscleGroup
	}
	if ev.Tempo != nil {
		ex.Tempo = *ev.Tempo
	}
	if ev.TargetRestTime != nil && *ev.TargetRestTime >= 0 {
		ex.TargetRestTime = *ev.TargetRestTime
	}
	if ev.TutorialText != nil {
		ex.TutorialText = *ev.TutorialText
	}
	if ev.Notes != nil {
		ex.Notes = *ev.Notes
	}
	return next, []Intent{Persist{}}
}

// editActiveSet applies edit to the active set of the current exercise. When
// every set is complete a fresh trailing set becomes the target.
func editActiveSet(s State, edit func(*models.Set) bool) (State, []Intent) {
	raw, ok := s.CurrentRaw()
	if !ok {
		return s, nil
	}
	next := s.Clone()
	ex := &next.Exercises[raw]
	idx := ex.ActiveSetIndex()
	if idx < 0 {
		ex.Sets = append(ex.Sets, trailingSet(*ex))
		idx = len(ex.Sets) - 1
	}
	if !edit(&ex.Sets[idx]) {
		return s, nil
	}
	return next, []Intent{Persist{}}
}

// setField writes a clamped value. NaN and infinities are rejected.
func setField(set *models.Set, field SetField, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	if value < 0 {
		value = 0
	}
	switch field {
	case FieldWeight:
		set.Weight = value
	case FieldReps:
		set.Reps = int(math.Round(value))
	default:
		return false
	}
	return true
}

// trailingSet is the pending set appended after the last one: same weight
// and reps, nothing else.
func trailingSet(ex models.Exercise) models.Set {
	if len(ex.Sets) == 0 {
		return models.Set{}
	}
	return ex.Sets[len(ex.Sets)-1].Fresh()
}

// restSeconds picks the exercise target, then the configured default, then
// the fallback.
func restSeconds(ex models.Exercise, settings models.Settings) int {
	if ex.TargetRestTime > 0 {
		return ex.TargetRestTime
	}
	if settings.DefaultRestTime > 0 {
		return settings.DefaultRestTime
	}
	return constants.FallbackRestTimeSec
}

func completeSet(s State, ev CompleteSet) (State, []Intent) {
	raw, ok := s.CurrentRaw()
	if !ok {
		return s, nil
	}
	next := s.Clone()
	ex := &next.Exercises[raw]
	idx := ex.ActiveSetIndex()

	if ev.SetIndex != nil && *ev.SetIndex != idx {
		return s, nil
	}
	if idx < 0 {
		// Nothing left to stamp; only open a new target.
		ex.Sets = append(ex.Sets, trailingSet(*ex))
		return next, []Intent{Persist{}}
	}

	rest := restSeconds(*ex, s.Settings)
	at := ev.At
	set := &ex.Sets[idx]
	set.CompletedAt = &at
	set.RestTime = rest
	completed := *set

	if idx == len(ex.Sets)-1 {
		ex.Sets = append(ex.Sets, completed.Fresh())
	}

	duration := time.Duration(rest) * time.Second
	next.Rest = RestTimer{Active: true, EndTime: at.Add(duration), Duration: duration}
	next.Numpad = Numpad{}

	return next, []Intent{
		CheckPR{ExerciseName: ex.Name, Set: completed},
		Persist{},
	}
}

func numpadInput(s State, ev NumpadInput) (State, []Intent) {
	if !s.Numpad.Open || len(s.Numpad.Value) >= constants.NumpadMaxLength {
		return s, nil
	}
	switch {
	case len(ev.Digit) == 1 && ev.Digit[0] >= '0' && ev.Digit[0] <= '9':
	case ev.Digit == ".":
		if s.Numpad.Target != FieldWeight || strings.Contains(s.Numpad.Value, ".") {
			return s, nil
		}
	default:
		return s, nil
	}
	next := s.Clone()
	next.Numpad.Value += ev.Digit
	return next, nil
}

func numpadSubmit(s State) (State, []Intent) {
	if !s.Numpad.Open {
		return s, nil
	}
	value, err := strconv.ParseFloat(s.Numpad.Value, 64)
	if err != nil {
		return s, nil
	}
	next, intents := Reduce(s, UpdateSet{Field: s.Numpad.Target, Value: value})
	if len(intents) == 0 {
		return s, nil
	}
	next.Numpad = Numpad{}
	return next, intents
}

func addRestTime(s State, ev AddRestTime) (State, []Intent) {
	if !s.Rest.Active || ev.Delta == 0 {
		return s, nil
	}
	next := s.Clone()
	end := next.Rest.EndTime.Add(ev.Delta)
	if end.Before(ev.Now) {
		end = ev.Now
	}
	next.Rest.EndTime = end
	next.Rest.Duration += ev.Delta
	if next.Rest.Duration < 0 {
		next.Rest.Duration = 0
	}
	if end.After(ev.Now) {
		next.Rest.Expired = false
	}
	return next, []Intent{Persist{}}
}
