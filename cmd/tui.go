package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/suderio/loot-table/internal/parser"
	"github.com/suderio/loot-table/internal/persistence"
	"github.com/suderio/loot-table/internal/session"
)

var (
	stateBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	autocompleteStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#F25D94"))
)

type suggestion string

func (s suggestion) Title() string       { return string(s) }
func (s suggestion) Description() string { return "" }
func (s suggestion) FilterValue() string { return string(s) }

type rollModel struct {
	sess        *session.Session
	seeds       map[string]string
	textInput   textinput.Model
	viewport    viewport.Model
	suggestions list.Model
	logContent  string
	showList    bool
	width       int
	height      int
}

const tuiWelcome = "Press enter to roll an item.\nType Name=Value to seed a variable, 'clear' to drop seeds, 'exit' to quit."

func newRollModel(sess *session.Session) rollModel {
	ti := textinput.New()
	ti.Placeholder = "enter to roll, or Name=Value..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	vp := viewport.New(0, 0)
	vp.SetContent(tuiWelcome)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	sugList := list.New([]list.Item{}, delegate, 50, 7)
	sugList.SetShowTitle(false)
	sugList.SetShowStatusBar(false)
	sugList.SetFilteringEnabled(false)
	sugList.SetShowHelp(false)

	return rollModel{
		sess:        sess,
		seeds:       map[string]string{},
		textInput:   ti,
		viewport:    vp,
		suggestions: sugList,
		logContent:  tuiWelcome,
	}
}

func (m *rollModel) Init() tea.Cmd {
	return textinput.Blink
}

// updateSuggestions completes variable names while the input has no '=' yet.
func (m *rollModel) updateSuggestions() {
	val := m.textInput.Value()
	var items []list.Item
	if val != "" && !strings.ContainsAny(val, "=:") {
		for _, v := range m.sess.Definition().Tree.Variables {
			if strings.HasPrefix(strings.ToLower(v.Name), strings.ToLower(val)) {
				items = append(items, suggestion(v.Name+"="))
			}
		}
	}
	m.suggestions.SetItems(items)
	m.showList = len(items) > 0
	if m.showList {
		m.suggestions.SetHeight(min(max(len(items), 4), 10))
		m.suggestions.ResetSelected()
	}
}

// submit handles one input line and returns the text to append to the log.
func (m *rollModel) submit(val string) string {
	switch val {
	case "", "roll":
		inputs := make([]string, 0, len(m.seeds))
		for _, in := range m.seeds {
			inputs = append(inputs, in)
		}
		sort.Strings(inputs)
		rec, err := m.sess.GenerateInput(inputs)
		if err != nil {
			return "Error: " + err.Error()
		}
		return renderItem(rec, false)
	case "clear":
		m.seeds = map[string]string{}
		return "Seeds cleared."
	}

	name, _, err := parser.ParseAssignment(val)
	if err != nil {
		return "Error: " + err.Error()
	}
	m.seeds[name] = val
	return "Seeded " + val
}

func (m *rollModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		lsCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyUp, tea.KeyDown:
			if m.showList {
				m.suggestions, lsCmd = m.suggestions.Update(msg)
			}

		case tea.KeyTab:
			if m.showList {
				if i, ok := m.suggestions.SelectedItem().(suggestion); ok {
					m.textInput.SetValue(string(i))
					m.textInput.SetCursor(len(string(i)))
					m.updateSuggestions()
				}
			}

		case tea.KeyEnter:
			val := strings.TrimSpace(m.textInput.Value())
			if val == "exit" || val == "quit" {
				return m, tea.Quit
			}
			m.textInput.SetValue("")
			m.updateSuggestions()

			m.logContent += fmt.Sprintf("\n\n> %s\n%s", val, m.submit(val))
			m.viewport.SetContent(m.logContent)
			m.viewport.GotoBottom()

		default:
			m.textInput, tiCmd = m.textInput.Update(msg)
			m.updateSuggestions()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width - 4
		m.suggestions.SetWidth(msg.Width - 6)
	}

	m.viewport, vpCmd = m.viewport.Update(msg)

	listAreaHeight := 0
	if m.showList {
		listAreaHeight = m.suggestions.Height() + 2
	}
	overhead := lipgloss.Height(titleStyle.Render("x")) + lipgloss.Height(m.renderSeeds()) + listAreaHeight + 8
	m.viewport.Height = max(m.height-overhead, 4)

	return m, tea.Batch(tiCmd, vpCmd, lsCmd)
}

func (m *rollModel) renderSeeds() string {
	view := "Seeds: "
	if len(m.seeds) == 0 {
		view += "(table defaults)"
	} else {
		names := make([]string, 0, len(m.seeds))
		for name := range m.seeds {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = m.seeds[name]
		}
		view += strings.Join(parts, "  ")
	}
	return stateBoxStyle.Width(max(m.width-4, 10)).Render(view)
}

func (m *rollModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	title := titleStyle.Render(fmt.Sprintf(" loot-table | %s ", m.sess.Definition().Name))
	logBox := logBoxStyle.Width(m.width - 4).Render(m.viewport.View())

	inputArea := m.textInput.View()
	if m.showList {
		inputArea = fmt.Sprintf("%s\n%s", inputArea, autocompleteStyle.Render(m.suggestions.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.renderSeeds(),
		logBox,
		inputArea,
		infoStyle.Render("(esc to quit, tab to complete a variable name)"),
	)
}

var tuiCmd = &cobra.Command{
	Use:   "tui [table]",
	Short: "Roll items interactively",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ref := "weapons"
		if len(args) == 1 {
			ref = args[0]
		}
		save, _ := cmd.Flags().GetBool("save")

		cfg := settings()
		def := loadDefinition(cfg, ref)

		var store session.Store
		if save {
			s, err := persistence.NewStore(cfg.History)
			if err != nil {
				fmt.Printf("Error opening item log: %v\n", err)
				os.Exit(1)
			}
			defer s.Close()
			store = s
		}

		// Warnings go to the item view; the logger would draw over the screen.
		cfg.LogLevel = "error"
		sess, err := session.NewSession(def, store, session.Options{
			Seed:     cfg.Seed,
			MaxRolls: cfg.MaxRolls,
			Logger:   newLogger(cfg),
		})
		if err != nil {
			printFault(err)
			os.Exit(1)
		}

		m := newRollModel(sess)
		p := tea.NewProgram(&m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().Bool("save", false, "append generated items to the item log")
}
