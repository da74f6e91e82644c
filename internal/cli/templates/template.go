package templates

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/liftlit/internal/cli"
	"github.com/julianstephens/liftlit/internal/models"
)

// document is the YAML shape templates are exported and imported in.
type document struct {
	Name      string            `yaml:"name"`
	Exercises []models.Exercise `yaml:"exercises"`
}

type TemplateListCmd struct {
	ShowIDs bool `help:"Show template IDs." name:"show-ids"`
}

func (c *TemplateListCmd) Run(ctx *cli.Context) error {
	list, err := ctx.Store.GetWorkoutTemplates()
	if err != nil {
		return fmt.Errorf("failed to get templates: %w", err)
	}
	if len(list) == 0 {
		fmt.Println("No templates found")
		return nil
	}

	fmt.Println("Templates:")
	for _, t := range list {
		idStr := ""
		if c.ShowIDs {
			idStr = fmt.Sprintf(" (ID: %s)", t.ID)
		}
		names := make([]string, 0, len(t.Exercises))
		sets := 0
		for _, ex := range t.Exercises {
			names = append(names, ex.Name)
			sets += len(ex.Sets)
		}
		fmt.Printf("  %s%s - %d exercises, %d sets\n", t.Name, idStr, len(t.Exercises), sets)
		if len(names) > 0 {
			fmt.Printf("      %s\n", strings.Join(names, ", "))
		}
	}
	return nil
}

type TemplateDeleteCmd struct {
	Template string `arg:"" help:"Template name or ID."`
}

func (c *TemplateDeleteCmd) Run(ctx *cli.Context) error {
	t, err := cli.FindTemplate(ctx.Store, c.Template)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteWorkoutTemplate(t.ID); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	fmt.Printf("✓ Deleted template: %s\n", t.Name)
	return nil
}

type TemplateExportCmd struct {
	Template string `arg:"" help:"Template name or ID."`
	Output   string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

func (c *TemplateExportCmd) Run(ctx *cli.Context) error {
	t, err := cli.FindTemplate(ctx.Store, c.Template)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if c.Output != "" {
		f, err := os.Create(c.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", c.Output, err)
		}
		defer f.Close()
		out = f
	}

	if err := Encode(out, t); err != nil {
		return fmt.Errorf("failed to export template: %w", err)
	}
	if c.Output != "" {
		fmt.Printf("✓ Exported template %q to %s\n", t.Name, c.Output)
	}
	return nil
}

type TemplateImportCmd struct {
	File string `arg:"" help:"YAML file to import." type:"existingfile"`
	Name string `help:"Override the template name."`
}

func (c *TemplateImportCmd) Run(ctx *cli.Context) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", c.File, err)
	}
	defer f.Close()

	t, err := Decode(f)
	if err != nil {
		return fmt.Errorf("invalid template file: %w", err)
	}
	if name := strings.TrimSpace(c.Name); name != "" {
		t.Name = name
	}

	if err := ctx.Store.CreateWorkoutTemplate(t); err != nil {
		return fmt.Errorf("failed to import template: %w", err)
	}
	fmt.Printf("✓ Imported template: %s (ID: %s)\n", t.Name, t.ID)
	return nil
}

// Encode writes t as YAML.
func Encode(w io.Writer, t models.WorkoutTemplate) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Name: t.Name, Exercises: t.Exercises}); err != nil {
		return err
	}
	return enc.Close()
}

// Decode reads a YAML template and gives it and its exercises fresh ids.
// Sets are reset to pending and unnamed exercises are dropped.
func Decode(r io.Reader) (models.WorkoutTemplate, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return models.WorkoutTemplate{}, err
	}

	t := models.WorkoutTemplate{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(doc.Name),
		CreatedAt: time.Now(),
	}
	if t.Name == "" {
		return models.WorkoutTemplate{}, fmt.Errorf("template name is required")
	}

	for _, ex := range doc.Exercises {
		if !ex.HasName() {
			continue
		}
		ex.ID = uuid.NewString()
		ex.Name = strings.TrimSpace(ex.Name)
		if ex.TargetRestTime < 0 {
			return models.WorkoutTemplate{}, fmt.Errorf("exercise %q: rest cannot be negative", ex.Name)
		}
		sets := make([]models.Set, 0, len(ex.Sets))
		for i, s := range ex.Sets {
			if s.Weight < 0 || s.Reps < 0 {
				return models.WorkoutTemplate{}, fmt.Errorf("exercise %q set %d: weight and reps must not be negative", ex.Name, i+1)
			}
			sets = append(sets, s.Fresh())
		}
		ex.Sets = sets
		t.Exercises = append(t.Exercises, ex)
	}
	if len(t.Exercises) == 0 {
		return models.WorkoutTemplate{}, fmt.Errorf("template %q has no named exercises", t.Name)
	}
	return t, nil
}
