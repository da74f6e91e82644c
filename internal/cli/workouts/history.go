package workouts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/constants"
	"github.com/julianstephens/liftlit/internal/models"
	"github.com/julianstephens/liftlit/internal/records"
	"github.com/julianstephens/liftlit/internal/stats"
	"github.com/julianstephens/liftlit/internal/storage"
	"github.com/julianstephens/liftlit/internal/timer"
	"github.com/julianstephens/liftlit/internal/utils"
)

type HistoryCmd struct {
	ID      string `arg:"" optional:"" help:"Show one session in detail."`
	Limit   int    `help:"Number of sessions to list." default:"10"`
	Since   string `help:"Only list workouts since a date (YYYY-MM-DD, today, yesterday, 10d, 2w)."`
	ShowIDs bool   `help:"Show session IDs." name:"show-ids"`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	if c.ID != "" {
		return c.show(ctx)
	}

	limit := c.Limit
	if c.Since != "" {
		limit = 0
	}
	sessions, err := ctx.Store.GetWorkoutSessions(limit)
	if err != nil {
		return fmt.Errorf("failed to get sessions: %w", err)
	}
	if c.Since != "" {
		since, err := utils.ParseSince(c.Since, time.Now())
		if err != nil {
			return err
		}
		sessions = sessionsSince(sessions, since, c.Limit)
	}
	if len(sessions) == 0 {
		fmt.Println("No workouts logged yet")
		return nil
	}

	fmt.Println("Workouts:")
	for _, s := range sessions {
		sum := stats.Compute(s.Exercises)
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", s.ID)
		}
		goal := string(s.GoalType)
		if goal == "" {
			goal = "-"
		}
		fmt.Printf("  %s%s  %s  %s  %d exercises, %d sets, volume %s\n",
			s.StartTime.Local().Format(constants.DateFormat), idStr,
			timer.FormatDuration(int(s.Duration().Seconds())), goal,
			len(s.Exercises), sum.CompletedSets, cli.FormatWeight(sum.TotalVolume))
	}
	return nil
}

// sessionsSince keeps sessions started at or after since, newest first,
// up to limit when it is positive.
func sessionsSince(sessions []models.WorkoutSession, since time.Time, limit int) []models.WorkoutSession {
	var out []models.WorkoutSession
	for _, s := range sessions {
		if s.StartTime.Before(since) {
			continue
		}
		out = append(out, s)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func (c *HistoryCmd) show(ctx *cli.Context) error {
	s, err := ctx.Store.GetWorkoutSession(c.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("session not found: %s", c.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	sum := stats.Compute(s.Exercises)
	fmt.Printf("Workout on %s\n", s.StartTime.Local().Format("2006-01-02 15:04"))
	fmt.Printf("  Duration: %s\n", timer.FormatDuration(int(s.Duration().Seconds())))
	if s.GoalType != "" {
		fmt.Printf("  Goal:     %s\n", s.GoalType)
	}
	fmt.Printf("  Volume:   %s\n\n", cli.FormatWeight(sum.TotalVolume))
	for _, ex := range s.Exercises {
		fmt.Printf("  %s\n", ex.Name)
		fmt.Printf("      %s\n", cli.FormatSets(ex.CompletedSets()))
	}
	return nil
}

type PRsCmd struct {
	Exercise string `arg:"" optional:"" help:"Only show the record for this exercise."`
}

func (c *PRsCmd) Run(ctx *cli.Context) error {
	sessions, err := ctx.Store.GetWorkoutSessions(0)
	if err != nil {
		return fmt.Errorf("failed to get sessions: %w", err)
	}
	prs := records.FromHistory(sessions)

	if c.Exercise != "" {
		pr := records.Lookup(prs, c.Exercise)
		if pr == nil {
			return fmt.Errorf("no record for %s", c.Exercise)
		}
		printRecord(*pr)
		return nil
	}

	if len(prs) == 0 {
		fmt.Println("No personal records yet")
		return nil
	}
	list := make([]models.PersonalRecord, 0, len(prs))
	for _, pr := range prs {
		list = append(list, pr)
	}
	sort.Slice(list, func(i, j int) bool {
		return strings.ToLower(list[i].ExerciseName) < strings.ToLower(list[j].ExerciseName)
	})

	fmt.Println("Personal records:")
	for _, pr := range list {
		printRecord(pr)
	}
	return nil
}

func printRecord(pr models.PersonalRecord) {
	fmt.Printf("  %-24s %sx%d  (est. 1RM %.1f)  %s\n",
		pr.ExerciseName, cli.FormatWeight(pr.MaxWeight), pr.MaxWeightReps,
		pr.OneRepMax, pr.Date.Local().Format(constants.DateFormat))
}
