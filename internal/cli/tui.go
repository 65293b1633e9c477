package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/levelforge/levelforge/pkg/gen"
	"github.com/levelforge/levelforge/pkg/render/ascii"
)

// Browser styles
var (
	browserFrameStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
	browserSeedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	browserHelpStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BrowserModel - Interactive seed browser
// =============================================================================

// BrowserModel is the bubbletea model for stepping through seeds and
// previewing the level each one produces.
type BrowserModel struct {
	Params  gen.Params
	Seed    uint64
	Level   *gen.Level
	Preview string
	Saved   []uint64 // seeds the user marked while browsing
	Width   int
	Height  int
}

// NewBrowserModel creates a browser starting at the given seed.
func NewBrowserModel(params gen.Params, seed uint64) BrowserModel {
	m := BrowserModel{Params: params, Seed: seed}
	m.regenerate()
	return m
}

// regenerate produces the level for the current seed and mode.
func (m *BrowserModel) regenerate() {
	seed := m.Seed
	m.Params.Seed = &seed
	m.Level = gen.Generate(m.Params)
	if m.Params.Mode == gen.ModeMarble && m.Level.MarbleTiles != nil {
		m.Preview = ascii.RenderMarble(m.Level)
	} else {
		m.Preview = ascii.Render(m.Level)
	}
}

// cycleMode advances classic -> marble -> wfc -> classic.
func (m *BrowserModel) cycleMode() {
	switch m.Params.Mode {
	case gen.ModeClassic:
		m.Params.Mode = gen.ModeMarble
	case gen.ModeMarble:
		m.Params.Mode = gen.ModeWFC
	default:
		m.Params.Mode = gen.ModeClassic
	}
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n":
			m.Seed++
			m.regenerate()
		case "left", "h", "p":
			if m.Seed > 0 {
				m.Seed--
				m.regenerate()
			}
		case "m":
			m.cycleMode()
			m.regenerate()
		case "enter", "s":
			m.Saved = append(m.Saved, m.Seed)
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}
	return m, nil
}

func (m BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Seed Browser"))
	b.WriteString("  ")
	b.WriteString(browserSeedStyle.Render(fmt.Sprintf("seed %d", m.Seed)))
	b.WriteString(StyleDim.Render(fmt.Sprintf(" · %s · %d rooms", m.Params.Mode, len(m.Level.Rooms))))
	b.WriteString("\n")
	b.WriteString(browserHelpStyle.Render("←/→ seed  m mode  ⏎ mark  q quit"))
	b.WriteString("\n")

	b.WriteString(browserFrameStyle.Render(m.Preview))
	b.WriteString("\n")

	if len(m.Saved) > 0 {
		marked := make([]string, len(m.Saved))
		for i, s := range m.Saved {
			marked[i] = fmt.Sprintf("%d", s)
		}
		b.WriteString(StyleSuccess.Render("marked: " + strings.Join(marked, ", ")))
		b.WriteString("\n")
	}

	return b.String()
}

// =============================================================================
// browse command
// =============================================================================

// browseCommand creates the browse command, an interactive seed explorer.
func (c *CLI) browseCommand() *cobra.Command {
	var seed uint64
	var mode string
	var width, height int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse seeds and preview levels",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := gen.DefaultParams()
			params.Width = width
			params.Height = height

			m, ok := gen.ParseMode(mode)
			if !ok {
				return fmt.Errorf("invalid mode: %s", mode)
			}
			params.Mode = m

			model := NewBrowserModel(params, seed)
			final, err := tea.NewProgram(model).Run()
			if err != nil {
				return err
			}

			if browser, ok := final.(BrowserModel); ok && len(browser.Saved) > 0 {
				printInfo("Marked seeds:")
				for _, s := range browser.Saved {
					printNextStep(fmt.Sprintf("  seed %d", s),
						fmt.Sprintf("levelforge generate --mode %s --seed %d", browser.Params.Mode, s))
				}
			}
			return nil
		},
	}

	cmd.Flags().Uint64VarP(&seed, "seed", "s", 1, "starting seed")
	cmd.Flags().StringVar(&mode, "mode", string(gen.ModeClassic), "generation mode: classic, marble, wfc")
	cmd.Flags().IntVarP(&width, "width", "w", 60, "map width in tiles")
	cmd.Flags().IntVarP(&height, "height", "H", 20, "map height in tiles")

	return cmd
}
