package main

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vibesync/sigprint/fingerprint"
)

type spinnerModel struct {
	s  spinner.Model
	mu sync.Mutex
}

func (m *spinnerModel) tick() tea.Msg {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.Tick()
}

func (m *spinnerModel) update(msg tea.Msg) tea.Cmd {
	s, cmd := m.s.Update(msg)
	m.s = s
	return cmd
}

func (m *spinnerModel) view() string {
	return m.s.View()
}

func newSpinner() spinnerModel {
	return spinnerModel{s: spinner.New(spinner.WithSpinner(spinner.Dot))}
}

type msgProgress struct {
	fed, total int
}

type msgSignature struct {
	sig fingerprint.Signature
}

type msgDone struct {
	sigs []fingerprint.Signature
}

// signModel drives the progress readout for the sign CLI subcommand:
// a spinner plus a running count of samples fed while
// generateSignatures works through the file in the background, and the
// number of signatures emitted once it finishes.
type signModel struct {
	path    string
	total   int
	fed     int
	sigs    []fingerprint.Signature
	spinner spinnerModel
	done    bool

	updates chan tea.Msg
}

func newSignModel(path string, samples []int16, opts ...fingerprint.GeneratorOption) *signModel {
	m := &signModel{
		path:    path,
		total:   len(samples),
		spinner: newSpinner(),
		updates: make(chan tea.Msg, 64),
	}
	go func() {
		sigs := generateSignatures(samples, func(fed, total int) {
			m.updates <- msgProgress{fed, total}
		}, opts...)
		m.updates <- msgDone{sigs}
	}()
	return m
}

func (m *signModel) cmdWaitForUpdate() tea.Cmd {
	return func() tea.Msg { return <-m.updates }
}

func (m *signModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.tick, m.cmdWaitForUpdate())
}

func (m *signModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		cmd := m.spinner.update(msg)
		return m, tea.Batch(cmd, m.spinner.tick)
	case msgProgress:
		m.fed = msg.fed
		return m, m.cmdWaitForUpdate()
	case msgDone:
		m.sigs = msg.sigs
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *signModel) View() string {
	bold := lipgloss.NewStyle().Bold(true).Render
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("046")).Render

	if m.done {
		return green(fmt.Sprintf("done: %s -> %d signature(s) from %d samples\n", m.path, len(m.sigs), m.total))
	}
	pct := 0
	if m.total > 0 {
		pct = 100 * m.fed / m.total
	}
	return fmt.Sprintf("%s %s  %s (%d%%)\n", m.spinner.view(), bold(m.path), fmt.Sprintf("%d/%d samples", m.fed, m.total), pct)
}

// runSign runs the sign progress UI to completion and returns every
// signature emitted. If quiet is set, no UI is drawn and the work runs
// synchronously instead.
func runSign(path string, samples []int16, quiet bool, opts ...fingerprint.GeneratorOption) ([]fingerprint.Signature, error) {
	if quiet {
		return generateSignatures(samples, nil, opts...), nil
	}
	m := newSignModel(path, samples, opts...)
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	return final.(*signModel).sigs, nil
}
