// Package display is the terminal front end: a Bubble Tea model that reads
// session snapshots every frame and turns key presses into session calls.
package display

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/vegasjack/internal/deck"
	"github.com/lox/vegasjack/internal/game"
	"github.com/lox/vegasjack/internal/minigame"
	"github.com/lox/vegasjack/internal/randutil"
	"github.com/lox/vegasjack/internal/session"
)

const (
	DefaultHouseDuration = 3 * time.Second
	DefaultIntroDuration = 5 * time.Second
	DefaultFrameInterval = time.Second / 30

	betStep    = 10
	barWidth   = 40
	logHeight  = 6
	paneMargin = 4
)

// Options configure the TUI
type Options struct {
	PlayerName    string // skips the login screen when set
	Opponent      string // "named" or "dealer"
	Theme         string
	NoColor       bool
	IntroDuration time.Duration
	HouseDuration time.Duration
	FrameInterval time.Duration
	Clock         quartz.Clock
	Rng           *rand.Rand
	Logger        *log.Logger
	Output        io.Writer
}

type screen int

const (
	screenLogin screen = iota
	screenWelcome
	screenBetting
	screenRound
	screenSummary
	screenResult
	screenHouse
	screenBankrupt
	screenIntro
	screenRecovery
	screenLoanMan
	screenGameOver
)

func (s screen) String() string {
	switch s {
	case screenLogin:
		return "login"
	case screenWelcome:
		return "welcome"
	case screenBetting:
		return "betting"
	case screenRound:
		return "round"
	case screenSummary:
		return "summary"
	case screenResult:
		return "result"
	case screenHouse:
		return "house"
	case screenBankrupt:
		return "bankrupt"
	case screenIntro:
		return "intro"
	case screenRecovery:
		return "recovery"
	case screenLoanMan:
		return "loan_man"
	case screenGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// frameMsg drives time-based work: dealer pacing, timed screens and the
// recovery challenge
type frameMsg time.Time

// Model is the Bubble Tea model for a vegasjack session
type Model struct {
	ctx     context.Context
	session *session.Session
	opts    Options
	clock   quartz.Clock
	rng     *rand.Rand
	logger  *log.Logger
	styles  *Styles

	screen       screen
	playerName   string
	opponentName string

	// UI components
	nameInput   textinput.Model
	betInput    textinput.Model
	logViewport viewport.Model
	gameLog     []string
	notice      string

	// Current round
	handle        *session.RoundHandle
	round         game.Snapshot
	dealerComment string
	dealerCards   int

	// Pending intermissions, set by session events
	housePending    bool
	bankruptPending bool
	recoveryGame    minigame.Kind
	recovery        minigame.Snapshot
	until           time.Time
	overReason      session.OverReason

	width    int
	height   int
	quitting bool
}

// NewModel creates a model driving sess. The model subscribes to the
// session's event bus for the log pane and screen changes.
func NewModel(ctx context.Context, sess *session.Session, opts Options) *Model {
	if sess == nil {
		panic("session is required for model creation")
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Rng == nil {
		opts.Rng = randutil.New(opts.Clock.Now().UnixNano())
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.IntroDuration == 0 {
		opts.IntroDuration = DefaultIntroDuration
	}
	if opts.HouseDuration == 0 {
		opts.HouseDuration = DefaultHouseDuration
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}

	styles := NewStyles(NewRenderer(opts.Output, opts.NoColor), opts.Theme)

	ni := textinput.New()
	ni.Placeholder = "Your name"
	ni.CharLimit = 24
	ni.Width = 24
	ni.Prompt = "> "
	ni.PromptStyle = styles.Success
	ni.Focus()

	bi := textinput.New()
	bi.Placeholder = "0"
	bi.CharLimit = 9
	bi.Width = 12
	bi.Prompt = "$ "
	bi.PromptStyle = styles.Money

	vp := viewport.New(80, logHeight)
	vp.SetContent("")

	m := &Model{
		ctx:         ctx,
		session:     sess,
		opts:        opts,
		clock:       opts.Clock,
		rng:         opts.Rng,
		logger:      opts.Logger.WithPrefix("display"),
		styles:      styles,
		screen:      screenLogin,
		nameInput:   ni,
		betInput:    bi,
		logViewport: vp,
	}
	sess.Bus().Subscribe(session.SubscriberFunc(m.onEvent))

	if name := strings.TrimSpace(opts.PlayerName); name != "" {
		m.setPlayer(name)
		m.screen = screenWelcome
	}
	return m
}

// Init starts the frame loop
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.tick())
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.opts.FrameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()
		return m, nil

	case frameMsg:
		if m.quitting {
			return m, nil
		}
		return m, tea.Batch(m.onFrame(), m.tick())

	case tea.MouseMsg:
		if m.screen == screenRecovery && m.recoveryGame == minigame.Strength &&
			msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m, m.pressRecovery()
		}
		var cmd tea.Cmd
		m.logViewport, cmd = m.logViewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, m.quit()
		case tea.KeyPgUp:
			m.logViewport.HalfPageUp()
			return m, nil
		case tea.KeyPgDown:
			m.logViewport.HalfPageDown()
			return m, nil
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.screen {
	case screenLogin:
		return m.updateLogin(msg)
	case screenWelcome:
		m.enterBetting()
	case screenBetting:
		return m.updateBetting(msg)
	case screenRound:
		m.updateRound(msg)
	case screenSummary:
		if msg.Type == tea.KeyEnter {
			m.screen = screenResult
		}
	case screenResult:
		if msg.Type == tea.KeyEnter {
			m.afterResult()
		}
	case screenBankrupt:
		if msg.Type == tea.KeyEnter {
			m.bankruptPending = false
			m.screen = screenIntro
			m.until = m.clock.Now().Add(m.opts.IntroDuration)
		}
	case screenRecovery:
		if msg.Type == tea.KeySpace {
			return m.pressRecovery()
		}
	case screenLoanMan:
		if msg.Type == tea.KeyEnter {
			m.enterBetting()
		}
	case screenGameOver:
		if msg.Type == tea.KeyEnter || msg.Type == tea.KeyEsc || msg.String() == "q" {
			return m.quit()
		}
	}
	return nil
}

func (m *Model) updateLogin(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEnter {
		name := strings.TrimSpace(m.nameInput.Value())
		if name == "" {
			m.notice = "Please enter a name"
			return nil
		}
		m.setPlayer(name)
		m.screen = screenWelcome
		return nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return cmd
}

func (m *Model) setPlayer(name string) {
	m.playerName = name
	m.opponentName = PickOpponent(m.rng, m.opts.Opponent)
	m.notice = ""
	m.nameInput.Blur()
	m.logger.Info("Player seated", "player", name, "opponent", m.opponentName)
	m.AddLogEntry(fmt.Sprintf("%s sits down against %s", name, m.opponentName))
}

func (m *Model) enterBetting() {
	m.screen = screenBetting
	m.handle = nil
	m.notice = ""
	m.setBet(m.bet())
	m.betInput.Focus()
}

func (m *Model) updateBetting(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyUp:
		m.setBet(m.bet() + betStep)
		return nil
	case tea.KeyDown:
		m.setBet(m.bet() - betStep)
		return nil
	case tea.KeyEsc:
		if err := m.session.Quit(); err != nil {
			m.logger.Warn("Quit failed", "error", err)
		}
		m.betInput.Blur()
		m.screen = screenGameOver
		return nil
	case tea.KeyEnter:
		bet := m.bet()
		if bet <= 0 {
			m.notice = "Bet must be more than $0"
			return nil
		}
		h, err := m.session.StartRound(bet)
		if err != nil {
			m.logger.Warn("Bet rejected", "bet", bet, "error", err)
			m.notice = err.Error()
			return nil
		}
		m.betInput.Blur()
		m.startRound(h)
		return nil
	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if r < '0' || r > '9' {
				return nil
			}
		}
	}

	var cmd tea.Cmd
	m.betInput, cmd = m.betInput.Update(msg)
	m.setBet(m.bet())
	return cmd
}

func (m *Model) bet() int {
	v, err := strconv.Atoi(m.betInput.Value())
	if err != nil {
		return 0
	}
	return v
}

// setBet writes a bet clamped to [0, bankroll] back into the input
func (m *Model) setBet(v int) {
	v = clampBet(v, m.session.Bankroll())
	if v == 0 {
		m.betInput.SetValue("")
	} else {
		m.betInput.SetValue(strconv.Itoa(v))
	}
	m.betInput.CursorEnd()
}

func clampBet(v, bankroll int) int {
	return max(min(v, bankroll), 0)
}

func (m *Model) startRound(h *session.RoundHandle) {
	m.handle = h
	m.dealerComment = ""
	m.dealerCards = 0
	m.notice = ""
	m.screen = screenRound
	m.refreshRound()
}

func (m *Model) updateRound(msg tea.KeyMsg) {
	var action game.Action
	switch strings.ToLower(msg.String()) {
	case "h":
		action = game.Hit
	case "s":
		action = game.Stand
	default:
		return
	}

	if err := m.session.SubmitIntent(m.handle, action); err != nil {
		m.logger.Error("Intent rejected", "action", action, "error", err)
		m.notice = err.Error()
		return
	}
	m.refreshRound()
}

// refreshRound re-reads the round and moves to the summary once it resolves
func (m *Model) refreshRound() {
	snap, err := m.session.Snapshot(m.handle)
	if err != nil {
		m.logger.Error("Snapshot failed", "error", err)
		return
	}
	m.round = snap

	if snap.Resolved() {
		m.dealerComment = ""
		if snap.Outcome != game.PlayerBust && snap.DealerTotal <= game.BlackjackTotal {
			m.dealerComment = DealerStandLine
		}
		m.screen = screenSummary
		return
	}

	if snap.Phase == game.DealerTurn && (len(snap.Dealer) != m.dealerCards || m.dealerComment == "") {
		m.dealerCards = len(snap.Dealer)
		if action, ok := m.session.NextDealerAction(); ok {
			m.dealerComment = DealerComment(m.rng, action)
		}
	}
}

func (m *Model) afterResult() {
	switch {
	case m.housePending:
		m.housePending = false
		m.screen = screenHouse
		m.until = m.clock.Now().Add(m.opts.HouseDuration)
	case m.bankruptPending:
		m.screen = screenBankrupt
	default:
		m.enterBetting()
	}
}

func (m *Model) onFrame() tea.Cmd {
	now := m.clock.Now()

	switch m.screen {
	case screenRound:
		if err := m.session.Advance(m.ctx); err != nil {
			return m.fail(err)
		}
		m.refreshRound()

	case screenRecovery:
		if err := m.session.Advance(m.ctx); err != nil {
			return m.fail(err)
		}
		m.refreshRecovery()

	case screenHouse:
		if !now.Before(m.until) {
			if m.bankruptPending {
				m.screen = screenBankrupt
			} else {
				m.enterBetting()
			}
		}

	case screenIntro:
		if !now.Before(m.until) {
			if err := m.session.BeginRecovery(); err != nil {
				return m.fail(err)
			}
			m.screen = screenRecovery
			m.refreshRecovery()
		}
	}
	return nil
}

func (m *Model) pressRecovery() tea.Cmd {
	if _, err := m.session.PressRecovery(); err != nil {
		return m.fail(err)
	}
	m.refreshRecovery()
	return nil
}

// refreshRecovery re-reads the challenge and leaves the screen once the
// session has moved on
func (m *Model) refreshRecovery() {
	if snap, ok := m.session.Recovery(); ok {
		m.recovery = snap
		return
	}
	switch m.session.State() {
	case session.Over:
		m.screen = screenGameOver
	case session.Betting:
		m.screen = screenLoanMan
	}
}

func (m *Model) fail(err error) tea.Cmd {
	if errors.Is(err, session.ErrSessionOver) {
		m.screen = screenGameOver
		return nil
	}
	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		m.logger.Error("Session failed", "screen", m.screen, "error", err)
	}
	return m.quit()
}

func (m *Model) quit() tea.Cmd {
	if m.session.State() != session.Over {
		if err := m.session.Quit(); err != nil {
			m.logger.Warn("Quit failed", "error", err)
		}
	}
	m.quitting = true
	return tea.Sequence(tea.ClearScreen, tea.Quit)
}

func (m *Model) onEvent(event session.Event) {
	switch e := event.(type) {
	case session.RoundStartedEvent:
		m.AddLogEntry(fmt.Sprintf("%s deals. Bet $%d", m.opponentName, e.Bet))
	case session.RoundSettledEvent:
		m.AddLogEntry(fmt.Sprintf("%s (%+d) Bankroll $%d", m.outcomeText(e.Outcome), e.Delta, e.Bankroll))
	case session.WealthThresholdReachedEvent:
		m.housePending = true
		m.AddLogEntry(fmt.Sprintf("Bankroll passed $%d: you bought a house!", e.Threshold))
	case session.UpkeepChargedEvent:
		m.AddLogEntry(fmt.Sprintf("House upkeep -$%d, bankroll $%d", e.Amount, e.Bankroll))
	case session.BankruptcyEvent:
		m.bankruptPending = true
		m.recoveryGame = e.MiniGame
		m.AddLogEntry(fmt.Sprintf("Broke! Recovery attempt %d: %s", e.Attempt, e.MiniGame))
	case session.RecoveryGrantedEvent:
		m.AddLogEntry(fmt.Sprintf("The loan man hands over $%d", e.Bankroll))
	case session.SessionOverEvent:
		m.overReason = e.Reason
		m.AddLogEntry(fmt.Sprintf("Session over after %d rounds", e.Rounds))
	}
}

func (m *Model) outcomeText(o game.Outcome) string {
	switch o {
	case game.PlayerBust:
		return fmt.Sprintf("%s, you went bust! You lose.", m.playerName)
	case game.DealerBust:
		return fmt.Sprintf("%s went bust! You win!", m.opponentName)
	case game.DealerWins:
		return fmt.Sprintf("%s wins!", m.opponentName)
	case game.PlayerWins:
		return fmt.Sprintf("You win, %s!", m.playerName)
	case game.Push:
		return "Push. Your bet is returned."
	default:
		return ""
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.styles.Panel.Width(m.paneWidth()).Render(m.renderScreen()),
		m.styles.LogPane.Width(m.paneWidth()).Render(m.logViewport.View()),
		m.styles.Info.Render("PgUp/PgDn scroll log • Ctrl+C to quit"),
	)
}

func (m *Model) paneWidth() int {
	return max(m.width-paneMargin, 0)
}

func (m *Model) renderHeader() string {
	title := m.styles.Header.Render(" ♠ ♥ vegasjack ♦ ♣ ")
	if m.playerName == "" {
		return title
	}

	info := fmt.Sprintf("  Player: %s  Opponent: %s  Bankroll: %s",
		m.playerName, m.opponentName, m.styles.Money.Render(fmt.Sprintf("$%d", m.session.Bankroll())))
	if m.session.AssetOwned() {
		info += "  " + m.styles.Success.Render("House owned")
	}
	return title + info
}

func (m *Model) renderScreen() string {
	var b strings.Builder

	switch m.screen {
	case screenLogin:
		b.WriteString(m.styles.Title.Render("Log in") + "\n\n")
		b.WriteString("Enter your name:\n")
		b.WriteString(m.nameInput.View() + "\n\n")
		b.WriteString(m.styles.Info.Render("Press Enter when done"))

	case screenWelcome:
		b.WriteString(m.styles.Title.Render(fmt.Sprintf("Welcome, %s!", m.playerName)) + "\n\n")
		b.WriteString(fmt.Sprintf("Opponent: %s\n\n", m.opponentName))
		b.WriteString(m.styles.Info.Render("Press any key to start"))

	case screenBetting:
		b.WriteString(m.styles.Title.Render("Place your bet") + "\n\n")
		b.WriteString(fmt.Sprintf("Bankroll: %s\n", m.styles.Money.Render(fmt.Sprintf("$%d", m.session.Bankroll()))))
		b.WriteString(m.betInput.View() + "\n\n")
		b.WriteString(m.styles.Info.Render("Type an amount • ↑/↓ ±10 • Enter to deal • Esc to leave the table"))

	case screenRound:
		b.WriteString(m.renderTable())
		b.WriteString("\n\n")
		if m.round.Phase == game.PlayerTurn {
			b.WriteString(m.styles.Actions.Render("[H]it   [S]tand"))
		} else {
			b.WriteString(m.styles.Info.Render(fmt.Sprintf("%s is playing...", m.opponentName)))
		}

	case screenSummary:
		b.WriteString(m.renderTable())
		b.WriteString("\n\n")
		b.WriteString(m.styles.Title.Render(m.outcomeText(m.round.Outcome)) + "\n\n")
		b.WriteString(m.styles.Info.Render("Press Enter to continue"))

	case screenResult:
		b.WriteString(m.renderResult())

	case screenHouse:
		b.WriteString(m.styles.Title.Render("Congratulations, you bought a new house!") + "\n\n")
		b.WriteString(m.styles.Warning.Render(houseArt) + "\n\n")
		b.WriteString(fmt.Sprintf("Upkeep: $%d per round from now on", m.session.Rules().Upkeep))

	case screenBankrupt:
		b.WriteString(m.styles.Error.Render("You're broke!") + "\n\n")
		b.WriteString(fmt.Sprintf("Win the %s challenge to get a loan.\n\n", m.recoveryGame))
		b.WriteString(m.styles.Info.Render("Press Enter to head for Las Vegas"))

	case screenIntro:
		b.WriteString(m.styles.Title.Render("Welcome to Las Vegas") + "\n\n")
		left := max(m.until.Sub(m.clock.Now()), 0)
		b.WriteString(m.styles.Info.Render(fmt.Sprintf("Your challenge starts in %.0fs", left.Seconds())))

	case screenRecovery:
		b.WriteString(m.renderRecovery())

	case screenLoanMan:
		b.WriteString(m.styles.Title.Render("Congratulations, you get a loan!") + "\n\n")
		b.WriteString(fmt.Sprintf("Bankroll: %s\n\n", m.styles.Money.Render(fmt.Sprintf("$%d", m.session.Bankroll()))))
		b.WriteString(m.styles.Actions.Render("[ Get loan ]") + m.styles.Info.Render("  press Enter"))

	case screenGameOver:
		b.WriteString(m.renderGameOver())
	}

	if m.notice != "" {
		b.WriteString("\n" + m.styles.Error.Render(m.notice))
	}
	return b.String()
}

func (m *Model) renderTable() string {
	var b strings.Builder

	dealerTotal := strconv.Itoa(m.round.DealerTotal)
	if m.round.DealerFirstCardHidden {
		dealerTotal = "? + " + dealerTotal
	}
	b.WriteString(m.styles.HandInfo.Render(fmt.Sprintf("%s's hand: %s  (%s)",
		m.opponentName, m.formatCards(m.round.Dealer, m.round.DealerFirstCardHidden), dealerTotal)))
	if m.dealerComment != "" {
		b.WriteString("\n" + m.styles.Dealer.Render(fmt.Sprintf("%s: \"%s\"", m.opponentName, m.dealerComment)))
	}

	soft := ""
	if m.round.PlayerSoft {
		soft = " soft"
	}
	b.WriteString("\n\n")
	b.WriteString(m.styles.HandInfo.Render(fmt.Sprintf("%s's hand: %s  (%d%s)",
		m.playerName, m.formatCards(m.round.Player, false), m.round.PlayerTotal, soft)))
	b.WriteString(fmt.Sprintf("\nBet: %s", m.styles.Money.Render(fmt.Sprintf("$%d", m.round.Bet))))
	return b.String()
}

func (m *Model) renderResult() string {
	var b strings.Builder
	s, ok := m.session.LastSettlement()
	if !ok {
		return ""
	}

	b.WriteString(m.styles.Title.Render("Round result") + "\n\n")
	b.WriteString(fmt.Sprintf("Outcome:  %s\n", m.outcomeText(s.Outcome)))
	b.WriteString(fmt.Sprintf("Bet:      $%d\n", s.Bet))
	switch {
	case s.Delta > 0:
		b.WriteString(m.styles.Success.Render(fmt.Sprintf("Won:      $%d", s.Delta)) + "\n")
	case s.Delta < 0:
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Lost:     $%d", -s.Delta)) + "\n")
	default:
		b.WriteString("Returned: $0 won or lost\n")
	}
	if s.Upkeep > 0 {
		b.WriteString(m.styles.Warning.Render(fmt.Sprintf("Upkeep:   $%d", s.Upkeep)) + "\n")
	}
	b.WriteString(fmt.Sprintf("Bankroll: %s\n\n", m.styles.Money.Render(fmt.Sprintf("$%d", s.Bankroll))))
	b.WriteString(m.styles.Info.Render("Press Enter to continue"))
	return b.String()
}

func (m *Model) renderRecovery() string {
	var b strings.Builder

	switch m.recovery.Kind {
	case minigame.Strength:
		b.WriteString(m.styles.Title.Render("Arm wrestling! Click or press Space as fast as you can") + "\n\n")
	default:
		b.WriteString(m.styles.Title.Render("Mash Space to fill the bar!") + "\n\n")
	}
	b.WriteString(m.renderBar(m.recovery.Fraction()) + "\n\n")
	b.WriteString(fmt.Sprintf("%.0f / %.0f  •  %d presses  •  %.1fs left",
		m.recovery.Progress, m.recovery.Threshold, m.recovery.Presses, m.recovery.Remaining.Seconds()))
	return b.String()
}

func (m *Model) renderBar(fraction float64) string {
	full := int(fraction * barWidth)
	full = max(min(full, barWidth), 0)
	return m.styles.BarFull.Render(strings.Repeat("█", full)) +
		m.styles.BarEmpty.Render(strings.Repeat("░", barWidth-full))
}

func (m *Model) renderGameOver() string {
	var b strings.Builder
	stats := m.session.Stats()

	b.WriteString(m.styles.Error.Render("Game over") + "\n\n")
	switch m.overReason {
	case session.OverRecoveryFailed:
		b.WriteString("You lost the recovery challenge.\n\n")
	case session.OverQuit:
		b.WriteString("You left the table.\n\n")
	}

	low, high := stats.ConfidenceInterval95()
	b.WriteString(fmt.Sprintf("Rounds played:  %d\n", stats.Rounds))
	b.WriteString(fmt.Sprintf("Won/lost/push:  %d/%d/%d (%.0f%% won)\n", stats.Wins, stats.Losses, stats.Pushes, stats.WinRate()*100))
	b.WriteString(fmt.Sprintf("Net per round:  %.1f (95%% CI %.1f to %.1f)\n", stats.Mean(), low, high))
	b.WriteString(fmt.Sprintf("Peak bankroll:  $%d\n", stats.PeakBankroll))
	b.WriteString(fmt.Sprintf("Upkeep paid:    $%d\n", stats.UpkeepPaid))
	b.WriteString(fmt.Sprintf("Recoveries:     %d of %d\n", stats.Recoveries, stats.Bankruptcies))
	b.WriteString(fmt.Sprintf("Final bankroll: $%d\n\n", m.session.Bankroll()))
	b.WriteString(m.styles.Info.Render("Press Enter to exit"))
	return b.String()
}

// formatCards formats cards with colors, drawing the first one face down
// when hidden is set
func (m *Model) formatCards(cards []deck.Card, hidden bool) string {
	if len(cards) == 0 {
		return ""
	}

	formatted := make([]string, 0, len(cards))
	for i, card := range cards {
		switch {
		case hidden && i == 0:
			formatted = append(formatted, m.styles.CardBack.Render("??"))
		case card.IsRed():
			formatted = append(formatted, m.styles.RedCard.Render(card.String()))
		default:
			formatted = append(formatted, m.styles.BlackCard.Render(card.String()))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}

// updateDimensions updates component dimensions based on terminal size
func (m *Model) updateDimensions() {
	if m.height <= 0 || m.width <= 0 {
		return
	}
	m.logViewport.Width = max(m.width-paneMargin-2, 10)
	m.logViewport.Height = logHeight
	m.logViewport.GotoBottom()
}

// AddLogEntry adds an entry to the game log
func (m *Model) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))

	// Only call GotoBottom if viewport has valid dimensions
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}

const houseArt = `      /\
     /  \
    /____\
    | [] |
    |____|`
