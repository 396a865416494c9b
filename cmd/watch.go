package cmd

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/svelte-tools/svelte-check-go/internal/config"
	"github.com/svelte-tools/svelte-check-go/internal/logging"
	"github.com/svelte-tools/svelte-check-go/internal/registry"
	"github.com/svelte-tools/svelte-check-go/internal/watcher"
)

const watchDebounce = 300 * time.Millisecond

var (
	watchTitleStyle  = lipgloss.NewStyle().Bold(true)
	watchOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	watchErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	watchDimStyle    = lipgloss.NewStyle().Faint(true)
	watchStatusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)

// rerunMsg asks the model to start a new check for a watcher generation.
type rerunMsg struct {
	generation uint64
	changed    []string
}

// checkDoneMsg carries one completed run's rendered report back to the
// model.
type checkDoneMsg struct {
	generation uint64
	report     string
	err        error
	duration   time.Duration
}

// watchModel is the bubbletea status-line model for --watch: the latest
// report plus a one-line footer describing what the session is doing.
type watchModel struct {
	cfg *config.Config
	log logging.Logger

	files *registry.FileRegistry
	fw    *watcher.FileWatcher

	running    bool
	pending    bool
	generation uint64
	report     string
	status     string
	lastErr    error

	cancel context.CancelFunc
}

func (m *watchModel) Init() tea.Cmd {
	return func() tea.Msg {
		return rerunMsg{generation: m.fw.Generation()}
	}
}

func (m *watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case rerunMsg:
		m.trackChanges(msg.changed)
		if m.running {
			m.pending = true
			return m, nil
		}
		return m, m.startRun(msg.generation)

	case checkDoneMsg:
		m.running = false
		if msg.generation < m.fw.Generation() {
			// A newer batch superseded this run while it was in flight;
			// its results are stale and a rerun is already queued.
			m.status = "superseded, re-checking"
			m.pending = true
		} else {
			m.report = msg.report
			m.lastErr = nil
			if msg.err != nil && !errors.Is(msg.err, ErrFindings) {
				m.lastErr = msg.err
			}
			m.status = fmt.Sprintf("checked %d file(s) in %s", m.files.Count(), msg.duration.Round(time.Millisecond))
		}
		if m.pending {
			m.pending = false
			return m, m.startRun(m.fw.Generation())
		}
		return m, nil
	}
	return m, nil
}

func (m *watchModel) View() string {
	var b bytes.Buffer
	b.WriteString(watchTitleStyle.Render("svelte-check --watch"))
	b.WriteString("\n\n")
	if m.report != "" {
		b.WriteString(m.report)
		b.WriteString("\n")
	}
	switch {
	case m.lastErr != nil:
		b.WriteString(watchErrStyle.Render("error: " + m.lastErr.Error()))
	case m.running:
		b.WriteString(watchStatusStyle.Render("checking..."))
	default:
		b.WriteString(watchOKStyle.Render(m.status))
	}
	b.WriteString(watchDimStyle.Render("  (q to quit)"))
	b.WriteString("\n")
	return b.String()
}

// startRun launches one pipeline run for generation in the background.
func (m *watchModel) startRun(generation uint64) tea.Cmd {
	m.running = true
	m.generation = generation
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	cfg, log := m.cfg, m.log
	return func() tea.Msg {
		defer cancel()
		started := time.Now()
		var buf bytes.Buffer
		err := runCheck(ctx, &buf, cfg, log, generation)
		return checkDoneMsg{
			generation: generation,
			report:     buf.String(),
			err:        err,
			duration:   time.Since(started),
		}
	}
}

// trackChanges folds a debounced change batch into the file registry.
func (m *watchModel) trackChanges(paths []string) {
	for _, path := range paths {
		rel, err := filepath.Rel(m.cfg.Workspace, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		info, statErr := os.Stat(path)
		if statErr != nil {
			m.files.Remove(rel)
			continue
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}
		sum := sha256.Sum256(data)
		m.files.Register(registry.ComponentFile{
			Path:    rel,
			Hash:    hex.EncodeToString(sum[:]),
			LastMod: info.ModTime(),
			Size:    info.Size(),
		})
	}
}

// runWatch enters watch mode: a filesystem watcher feeding debounced,
// generation-stamped change batches into re-checks, with a live status
// line. Stale generations are discarded rather than reported.
func runWatch(cmd *cobra.Command, cfg *config.Config, log logging.Logger) error {
	fw, err := watcher.NewFileWatcher(watchDebounce)
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer fw.Stop()

	fw.AddFilter(watcher.SvelteFilter)
	fw.AddFilter(watcher.NoNodeModulesFilter)
	if err := fw.AddRecursive(cfg.Workspace); err != nil {
		return fmt.Errorf("watch workspace: %w", err)
	}

	// Watch sessions keep a log file alongside the live status line;
	// everything logged also lands there.
	sessionLog := log
	if fileLog, err := logging.NewFileLogger(logging.DefaultConfig(), filepath.Join(resolveCacheDir(cfg.Workspace, cfg.CacheDir), "logs")); err == nil {
		defer fileLog.Close()
		sessionLog = logging.NewMultiLogger(log, fileLog)
	}

	model := &watchModel{
		cfg:   cfg,
		log:   sessionLog.WithComponent("watcher"),
		files: registry.NewFileRegistry(),
		fw:    fw,
	}

	program := tea.NewProgram(model, tea.WithOutput(cmd.OutOrStdout()))

	fw.AddHandler(func(events []watcher.ChangeEvent) error {
		changed := make([]string, 0, len(events))
		var generation uint64
		for _, ev := range events {
			changed = append(changed, ev.Path)
			generation = ev.Generation
		}
		program.Send(rerunMsg{generation: generation, changed: changed})
		return nil
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := fw.Start(ctx); err != nil {
		return fmt.Errorf("start file watcher: %w", err)
	}

	_, err = program.Run()
	return err
}
