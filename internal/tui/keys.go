package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Prev       key.Binding
	Next       key.Binding
	Complete   key.Binding
	WeightDown key.Binding
	WeightUp   key.Binding
	RepsDown   key.Binding
	RepsUp     key.Binding
	EditWeight key.Binding
	EditReps   key.Binding
	SkipRest   key.Binding
	RestMore   key.Binding
	RestLess   key.Binding
	Add        key.Binding
	Rename     key.Binding
	Delete     key.Binding
	AddSet     key.Binding
	Pause      key.Binding
	Template   key.Binding
	Drawer     key.Binding
	Finish     key.Binding
	Cancel     key.Binding
	Confirm    key.Binding
	Back       key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Complete, k.SkipRest, k.Finish, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.Complete, k.AddSet},
		{k.WeightDown, k.WeightUp, k.RepsDown, k.RepsUp, k.EditWeight, k.EditReps},
		{k.SkipRest, k.RestLess, k.RestMore, k.Pause},
		{k.Add, k.Rename, k.Delete, k.Template, k.Drawer},
		{k.Finish, k.Cancel, k.Quit, k.Help},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit (workout keeps running)"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Prev: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "prev exercise"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next exercise"),
		),
		Complete: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "complete set"),
		),
		WeightDown: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "weight -2.5"),
		),
		WeightUp: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "weight +2.5"),
		),
		RepsDown: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "reps -1"),
		),
		RepsUp: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "reps +1"),
		),
		EditWeight: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "type weight"),
		),
		EditReps: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "type reps"),
		),
		SkipRest: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip rest"),
		),
		RestMore: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "rest +15s"),
		),
		RestLess: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "rest -15s"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add exercise"),
		),
		Rename: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "remove exercise"),
		),
		AddSet: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "add set"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause/resume"),
		),
		Template: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "save as template"),
		),
		Drawer: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "exercise list"),
		),
		Finish: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "finish"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "discard workout"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Back: key.NewBinding(
			key.WithKeys("n", "N", "esc", "b"),
			key.WithHelp("n/esc", "back"),
		),
	}
}
