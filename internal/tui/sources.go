// SPDX-License-Identifier: MIT
// Package tui implements the interactive source picker: a terminal
// listing of audio capture devices and serial ports that can feed the
// scope.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"scope/internal/source"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#25A065")).
			Padding(0, 1).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#25A065")).
			Bold(true)
)

// sourceEntry is one selectable row: an audio device or a serial port.
type sourceEntry struct {
	kind    string // "audio" or "serial"
	label   string
	details string
}

// SourceListModel is the Bubble Tea model for the picker.
type SourceListModel struct {
	entries       []sourceEntry
	selectedIndex int
	viewport      viewport.Model
	ready         bool
	err           error
}

type sourcesMsg struct {
	entries []sourceEntry
}

type errMsg struct {
	err error
}

// Init starts the source scan.
func (m SourceListModel) Init() tea.Cmd {
	return fetchSources
}

func fetchSources() tea.Msg {
	var entries []sourceEntry

	devices, err := source.AudioDevices()
	if err != nil {
		return errMsg{err}
	}
	for _, d := range devices {
		if d.MaxInputChannels == 0 {
			continue
		}
		entries = append(entries, sourceEntry{
			kind:  "audio",
			label: fmt.Sprintf("[%d] %s", d.ID, d.Name),
			details: fmt.Sprintf("Input channels: %d, default sample rate: %.0f Hz",
				d.MaxInputChannels, d.DefaultSampleRate),
		})
	}

	ports, err := source.SerialPorts()
	if err != nil {
		return errMsg{err}
	}
	for _, p := range ports {
		entries = append(entries, sourceEntry{
			kind:    "serial",
			label:   p,
			details: "RAM bus bridge candidate",
		})
	}

	return sourcesMsg{entries}
}

// Update handles input and refreshes the viewport.
func (m SourceListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.viewport.Style = lipgloss.NewStyle()
			m.ready = true
			if len(m.entries) > 0 {
				m.viewport.SetContent(m.renderSources())
			}
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}

	case sourcesMsg:
		m.entries = msg.entries
		if m.ready {
			m.viewport.SetContent(m.renderSources())
		}

	case errMsg:
		m.err = msg.err

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("q", "ctrl+c"))):
			return m, tea.Quit

		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if m.selectedIndex > 0 {
				m.selectedIndex--
				m.viewport.SetContent(m.renderSources())
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if m.selectedIndex < len(m.entries)-1 {
				m.selectedIndex++
				m.viewport.SetContent(m.renderSources())
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if len(m.entries) > 0 {
				// Print the flag invocation for the selection and exit.
				e := m.entries[m.selectedIndex]
				if e.kind == "audio" {
					fmt.Printf("\nRun with: --source audio --device %s\n", strings.Fields(e.label)[0])
				} else {
					fmt.Printf("\nRun with: --source serial --port %s\n", e.label)
				}
				return m, tea.Quit
			}
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the picker.
func (m SourceListModel) View() string {
	if !m.ready {
		return "Scanning sources..."
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to exit.", m.err)
	}

	title := titleStyle.Render("Sample Sources")
	help := infoStyle.Render("↑/↓: Navigate • Enter: Select • q: Quit")
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.viewport.View(), help)
}

func (m SourceListModel) renderSources() string {
	if len(m.entries) == 0 {
		return "No sample sources found."
	}

	var sb strings.Builder
	for i, e := range m.entries {
		entry := fmt.Sprintf("%s (%s)\n    %s\n", e.label, e.kind, e.details)
		if i == m.selectedIndex {
			entry = highlightStyle.Render(entry)
		}
		sb.WriteString(entry)
		sb.WriteString("\n")
	}
	return sb.String()
}

// RunSourcePicker opens the picker and blocks until the user exits.
func RunSourcePicker() error {
	_, err := tea.NewProgram(SourceListModel{}, tea.WithAltScreen()).Run()
	return err
}
