package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding used by the views
type KeyMap struct {
	Quit     key.Binding
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Enter    key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Help     key.Binding

	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Save   key.Binding
	Retry  key.Binding

	Search         key.Binding
	StatusFilter   key.Binding
	PriorityFilter key.Binding
	ProjectFilter  key.Binding
	ClearFilters   key.Binding
	CycleStatus    key.Binding

	SortTitle    key.Binding
	SortPriority key.Binding
	SortDueDate  key.Binding

	Confirm key.Binding
	Cancel  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous option")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next option")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "select")),
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		ShiftTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous field")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),

		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),

		Search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		StatusFilter:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status filter")),
		PriorityFilter: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "priority filter")),
		ProjectFilter:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "project filter")),
		ClearFilters:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear filters")),
		CycleStatus:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "advance status")),

		SortTitle:    key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "sort by title")),
		SortPriority: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "sort by priority")),
		SortDueDate:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "sort by due date")),

		Confirm: key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
	}
}
