// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Owns every screen model, gates navigation and routes input to children

package tui

import (
	"context"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/facepunch/internal/client"
	"github.com/markalston/facepunch/internal/device"
	"github.com/markalston/facepunch/internal/logger"
	"github.com/markalston/facepunch/internal/route"
	"github.com/markalston/facepunch/internal/session"
	"github.com/markalston/facepunch/internal/submit"
	"github.com/markalston/facepunch/internal/tui/dashboard"
	"github.com/markalston/facepunch/internal/tui/icons"
	"github.com/markalston/facepunch/internal/tui/menu"
	"github.com/markalston/facepunch/internal/tui/recentfiles"
	"github.com/markalston/facepunch/internal/tui/samples"
	"github.com/markalston/facepunch/internal/tui/snapshot"
	"github.com/markalston/facepunch/internal/tui/styles"
	"github.com/markalston/facepunch/internal/tui/widgets"
	"github.com/markalston/facepunch/internal/tui/wizard"
)

// Layout constants
const (
	minTerminalWidth = 80 // Frame never renders narrower than this
	frameOverhead    = 8  // header, footer, notice line and panel chrome
)

// Messages shown by the root model
const (
	MsgLoginSuccessful = "Login successful!"
	MsgSignedOut       = "Signed out"
	MsgSignOutFailed   = "Could not clear the stored session"
)

// API is the subset of the service client the TUI calls directly
type API interface {
	SignIn(ctx context.Context, username, password string) (session.Credential, error)
	ListUsers(ctx context.Context, token string) ([]client.User, error)
	UpdateUser(ctx context.Context, token string, id int, update client.UserUpdate) error
	DeleteUser(ctx context.Context, token string, id int) error
	ListAttendanceRecords(ctx context.Context, token string) ([]client.AttendanceRecord, error)
}

// Submitter runs capture-and-submit; *submit.Pipeline satisfies it
type Submitter interface {
	CaptureAndSubmitAttendance(ctx context.Context, source submit.FrameSource) submit.Outcome
	CaptureAndSubmitRegistration(ctx context.Context, source submit.FrameSource, profile submit.Profile, token string) submit.Outcome
}

// Deps are the collaborators the App is built from
type Deps struct {
	API        API
	Session    *session.Store
	Submitter  Submitter
	Enumerator device.Enumerator
	// Camera captures from the live device
	Camera submit.FrameSource
	// FromFile builds a source for a still image; nil hides the fallback
	FromFile func(path string) submit.FrameSource
	// Watcher streams hot-plug changes while a camera screen is open; optional
	Watcher    *device.Watcher
	SamplesDir string
	// Recent remembers images used in place of the camera; optional
	Recent *recentfiles.History
	Logger *slog.Logger
	// Start is the first screen to open; the route gate still applies
	Start route.Route
}

// App is the root model for the TUI
type App struct {
	deps   Deps
	logger *slog.Logger

	screen route.Route
	width  int
	height int

	// Screen models; at most the ones belonging to screen are non-nil
	menu     *menu.Menu
	signIn   *wizard.SignIn
	register *wizard.Register
	snap     *snapshot.Snapshot
	users    *dashboard.Users
	records  *dashboard.Records
	edit     *wizard.EditUser
	confirm  *wizard.ConfirmDelete

	notice    widgets.Notice
	resets    chan struct{}
	stopWatch context.CancelFunc

	// signInSeq numbers sign-in requests; only the latest one is applied
	signInSeq uint64
}

// New creates the application and registers its session reset hook
func New(deps Deps) *App {
	a := &App{
		deps:   deps,
		logger: logger.Component(deps.Logger, "tui"),
		screen: route.Home,
		resets: make(chan struct{}, 1),
	}
	a.menu = menu.New(a.authorized())

	if deps.Session != nil {
		deps.Session.OnClear(func() {
			select {
			case a.resets <- struct{}{}:
			default:
			}
		})
	}
	return a
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	if a.deps.Start == "" || a.deps.Start == route.Home {
		return a.waitForReset()
	}
	return tea.Batch(a.waitForReset(), a.navigate(a.deps.Start))
}

// tokenSource avoids handing the gate a typed nil
func (a *App) tokenSource() route.TokenSource {
	if a.deps.Session == nil {
		return nil
	}
	return a.deps.Session
}

func (a *App) authorized() bool {
	return route.IsAuthorized(a.tokenSource())
}

func (a *App) token() string {
	if a.deps.Session == nil {
		return ""
	}
	return a.deps.Session.Current()
}

// Screen returns the route currently shown
func (a *App) Screen() route.Route {
	return a.screen
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeChildren()
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.stopCamera()
			return a, tea.Quit
		}
		return a, a.handleKey(msg)

	case resetMsg:
		a.reset()
		return a, tea.Batch(a.notice.Show(MsgSignedOut, true), a.waitForReset())

	case navigateMsg:
		if msg.from != "" && msg.from != a.screen {
			return a, nil
		}
		return a, a.navigate(msg.to)

	case widgets.NoticeExpiredMsg:
		a.notice.Expire(msg)
		return a, nil

	// Home menu
	case menu.SelectedMsg:
		return a, a.navigate(msg.Route)
	case menu.SignOutMsg:
		return a, a.signOut()
	case menu.CancelledMsg:
		a.stopCamera()
		return a, tea.Quit

	// Sign in
	case wizard.SignInSubmittedMsg:
		return a, a.doSignIn(msg.Username, msg.Password)
	case signedInMsg:
		return a, a.handleSignedIn(msg)
	case signedOutMsg:
		if msg.err != nil {
			return a, a.notice.Show(MsgSignOutFailed, false)
		}
		return a, nil

	// Registration and attendance
	case wizard.ProfileCompleteMsg:
		return a, a.startRegistrationCapture(msg.Profile)
	case snapshot.SubmittedMsg:
		return a, a.handleSubmitted(msg)
	case snapshot.CancelledMsg:
		return a, a.navigate(route.Home)
	case cameraChangedMsg:
		if a.snap != nil {
			a.snap.SetAvailable(msg.available)
		}
		return a, a.waitForCamera(msg.ch)

	// Admin lists
	case usersLoadedMsg:
		a.handleUsersLoaded(msg)
		return a, a.noticeOnError(msg.err, client.MsgFetchUsersFailed)
	case recordsLoadedMsg:
		a.handleRecordsLoaded(msg)
		return a, a.noticeOnError(msg.err, client.MsgFetchRecordsFailed)
	case dashboard.RefreshMsg:
		return a, a.refresh()
	case dashboard.BackMsg:
		return a, a.navigate(route.Home)
	case dashboard.EditRequestedMsg:
		a.edit = wizard.NewEditUser(msg.User)
		return a, a.edit.Init()
	case dashboard.DeleteRequestedMsg:
		a.confirm = wizard.NewConfirmDelete(msg.User)
		return a, a.confirm.Init()
	case wizard.UserEditedMsg:
		a.edit = nil
		return a, a.doUpdateUser(msg.ID, msg.Update)
	case wizard.DeleteConfirmedMsg:
		a.confirm = nil
		return a, a.doDeleteUser(msg.ID)
	case userChangedMsg:
		return a, a.handleUserChanged(msg)

	case wizard.CancelledMsg:
		return a, a.handleFormCancelled()
	}

	// Forward anything else (huh internals, spinner ticks, cursor blink)
	return a, a.forward(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if active := a.activeChild(); active != nil {
		_, cmd := active.Update(msg)
		return cmd
	}

	switch a.screen {
	case route.Home:
		_, cmd := a.menu.Update(msg)
		return cmd
	case route.Users:
		if a.users != nil {
			return a.users.Update(msg)
		}
	case route.AttendanceRecords:
		if a.records != nil {
			return a.records.Update(msg)
		}
	}
	return nil
}

// activeChild is the model that receives every message, if any
func (a *App) activeChild() tea.Model {
	switch {
	case a.edit != nil:
		return a.edit
	case a.confirm != nil:
		return a.confirm
	case a.signIn != nil:
		return a.signIn
	case a.snap != nil:
		return a.snap
	case a.register != nil:
		return a.register
	}
	return nil
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	if active := a.activeChild(); active != nil {
		_, cmd := active.Update(msg)
		return cmd
	}
	if a.screen == route.Home {
		_, cmd := a.menu.Update(msg)
		return cmd
	}
	return nil
}

// navigate swaps to r after the route gate has resolved it. Screen data is
// only requested once the target is known to be allowed.
func (a *App) navigate(r route.Route) tea.Cmd {
	target := route.Resolve(r, a.tokenSource())
	if target != r {
		a.logger.Debug("navigation redirected", "requested", r, "target", target)
	}

	a.dropScreens()
	a.screen = target

	switch target {
	case route.SignIn:
		a.signIn = wizard.NewSignIn()
		return a.signIn.Init()

	case route.Register:
		a.register = wizard.NewRegister()
		a.resizeChildren()
		return a.register.Init()

	case route.Attendance:
		a.snap = snapshot.New(a.snapshotConfig(snapshot.ModeAttendance, submit.Profile{}))
		a.resizeChildren()
		return tea.Batch(a.snap.Init(), a.watchCamera())

	case route.Users:
		a.users = dashboard.NewUsers()
		a.resizeChildren()
		return a.loadUsers()

	case route.AttendanceRecords:
		a.records = dashboard.NewRecords()
		a.resizeChildren()
		return a.loadRecords()
	}

	a.menu.SetAuthorized(a.authorized())
	return nil
}

func (a *App) dropScreens() {
	a.signInSeq++
	a.stopCamera()
	if a.snap != nil {
		a.snap.Stop()
	}
	a.signIn = nil
	a.register = nil
	a.snap = nil
	a.users = nil
	a.records = nil
	a.edit = nil
	a.confirm = nil
}

// reset discards all view state, as a fresh start would
func (a *App) reset() {
	a.dropScreens()
	a.notice.Clear()
	a.screen = route.Home
	a.menu = menu.New(a.authorized())
	a.resizeChildren()
}

func (a *App) snapshotConfig(mode snapshot.Mode, profile submit.Profile) snapshot.Config {
	cfg := snapshot.Config{
		Mode:     mode,
		Camera:   a.deps.Camera,
		FromFile: a.deps.FromFile,
	}
	if a.deps.Enumerator != nil {
		enumerator := a.deps.Enumerator
		log := a.deps.Logger
		cfg.Probe = func(ctx context.Context) bool {
			return device.Probe(ctx, enumerator, log)
		}
	}
	if a.deps.FromFile != nil {
		cfg.Samples, _ = samples.Discover(a.deps.SamplesDir)
		if recent := a.deps.Recent; recent != nil {
			cfg.Recent = recent.List()
			log := a.logger
			cfg.Remember = func(path string) {
				if err := recent.Add(path); err != nil {
					log.Warn("remembering image failed", "path", path, "error", err)
				}
			}
		}
	}

	submitter := a.deps.Submitter
	if submitter == nil {
		return cfg
	}
	switch mode {
	case snapshot.ModeRegistration:
		token := a.token()
		cfg.Submit = func(ctx context.Context, source submit.FrameSource) submit.Outcome {
			return submitter.CaptureAndSubmitRegistration(ctx, source, profile, token)
		}
	default:
		cfg.Submit = submitter.CaptureAndSubmitAttendance
	}
	return cfg
}

func (a *App) startRegistrationCapture(profile submit.Profile) tea.Cmd {
	if a.screen != route.Register {
		return nil
	}
	a.register = nil
	a.snap = snapshot.New(a.snapshotConfig(snapshot.ModeRegistration, profile))
	a.resizeChildren()
	return tea.Batch(a.snap.Init(), a.watchCamera())
}

func (a *App) handleSubmitted(msg snapshot.SubmittedMsg) tea.Cmd {
	if a.snap == nil || a.snap.ID() != msg.Screen {
		a.logger.Debug("discarding submission result for a closed screen", "screen", msg.Screen)
		return nil
	}
	a.snap.Update(msg)
	cmds := []tea.Cmd{a.notice.Show(msg.Outcome.Message, msg.Outcome.Success)}
	if msg.Outcome.Success && msg.Mode == snapshot.ModeRegistration {
		cmds = append(cmds, navigateAfter(submit.RegistrationSuccessDelay, route.Register, route.Home))
	}
	return tea.Batch(cmds...)
}

func (a *App) handleSignedIn(msg signedInMsg) tea.Cmd {
	if a.signIn == nil || msg.seq != a.signInSeq {
		a.logger.Debug("discarding sign-in result for a closed screen")
		return nil
	}
	if msg.err != nil {
		text := signInErrorText(msg.err)
		var cmd tea.Cmd
		if a.signIn != nil {
			cmd = a.signIn.Fail(text)
		}
		return tea.Batch(cmd, a.notice.Show(text, false))
	}

	if a.deps.Session == nil {
		return a.notice.Show("Could not store the session", false)
	}
	if err := a.deps.Session.Save(msg.cred); err != nil {
		a.logger.Error("saving credential failed", "error", err)
		var cmd tea.Cmd
		if a.signIn != nil {
			cmd = a.signIn.Fail("Could not store the session")
		}
		return tea.Batch(cmd, a.notice.Show("Could not store the session", false))
	}
	return tea.Batch(
		a.notice.Show(MsgLoginSuccessful, true),
		navigateAfter(submit.SignInSuccessDelay, route.SignIn, route.Home),
	)
}

func (a *App) handleUsersLoaded(msg usersLoadedMsg) {
	if a.users == nil {
		return
	}
	if msg.err != nil {
		a.users.SetError(client.MsgFetchUsersFailed)
		return
	}
	a.users.SetUsers(msg.users)
}

func (a *App) handleRecordsLoaded(msg recordsLoadedMsg) {
	if a.records == nil {
		return
	}
	if msg.err != nil {
		a.records.SetError(client.MsgFetchRecordsFailed)
		return
	}
	a.records.SetRecords(msg.records, msg.registered)
}

func (a *App) handleUserChanged(msg userChangedMsg) tea.Cmd {
	if msg.err != nil {
		return a.notice.Show(msg.failure, false)
	}
	cmds := []tea.Cmd{a.notice.Show(msg.success, true)}
	if a.users != nil {
		cmds = append(cmds, a.refresh())
	}
	return tea.Batch(cmds...)
}

func (a *App) handleFormCancelled() tea.Cmd {
	switch {
	case a.edit != nil:
		a.edit = nil
		return nil
	case a.confirm != nil:
		a.confirm = nil
		return nil
	}
	return a.navigate(route.Home)
}

func (a *App) noticeOnError(err error, text string) tea.Cmd {
	if err == nil {
		return nil
	}
	return a.notice.Show(text, false)
}

func (a *App) refresh() tea.Cmd {
	switch {
	case a.users != nil:
		return a.loadUsers()
	case a.records != nil:
		return a.loadRecords()
	}
	return nil
}

func (a *App) resizeChildren() {
	w, h := a.contentWidth(), a.contentHeight()
	if a.users != nil {
		a.users.SetSize(w, h)
	}
	if a.records != nil {
		a.records.SetSize(w, h)
	}
	if a.snap != nil {
		a.snap.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
	if a.register != nil {
		a.register.Update(tea.WindowSizeMsg{Width: w, Height: h})
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string

	switch {
	case a.edit != nil:
		content = a.edit.View()
	case a.confirm != nil:
		content = a.confirm.View()
	case a.signIn != nil:
		content = a.signIn.View()
	case a.snap != nil:
		content = a.snap.View()
	case a.register != nil:
		content = a.register.View()
	case a.users != nil:
		content = a.users.View()
	case a.records != nil:
		content = a.records.View()
	default:
		content = a.menu.View()
	}

	return a.wrapWithFrame(styles.ActivePanel.Width(a.contentWidth()).Render(content))
}

// frameWidth is the terminal width minus one column to avoid wrapping,
// clamped to the minimum usable width
func (a *App) frameWidth() int {
	return max(minTerminalWidth, a.width-1)
}

func (a *App) contentWidth() int {
	return a.frameWidth() - 4
}

func (a *App) contentHeight() int {
	return max(0, a.height-frameOverhead)
}

// renderHeader creates the header bar with app branding and context
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)

	leftText := " " + icons.App.String() + " " + titleStyle.Render("Face Attendance") + " "
	if a.screen != route.Home {
		leftText += lipgloss.NewStyle().Foreground(styles.Muted).Render(a.screen.Title()) + " "
	}
	rightText := " " + widgets.SessionBadge(a.authorized()) + " "

	fillWidth := max(0, width-4-lipgloss.Width(leftText)-lipgloss.Width(rightText))
	header := borderStyle.Render("╭─") + leftText +
		borderStyle.Render(strings.Repeat("─", fillWidth)) + rightText + borderStyle.Render("─╮")
	return header
}

// shortcuts lists the footer key hints for the current screen
func (a *App) shortcuts() []string {
	switch {
	case a.edit != nil, a.confirm != nil, a.signIn != nil, a.register != nil:
		return []string{"Tab Next", "Enter Confirm", "Esc Cancel"}
	case a.snap != nil:
		if a.snap.Picking() {
			return []string{"↑↓ Navigate", "Enter Select", "Esc Back"}
		}
		return []string{"Enter Capture", "f File", "Esc Back"}
	case a.users != nil:
		return []string{"↑↓ Navigate", "e Edit", "d Delete", "r Refresh", "b Back"}
	case a.records != nil:
		return []string{"↑↓ Navigate", "r Refresh", "b Back"}
	}
	return []string{"↑↓ Navigate", "Enter Select", "q Quit"}
}

// renderFooter creates the footer with keyboard shortcuts
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	shortcuts := a.shortcuts()
	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ") + " "
	leftPlain := " " + strings.Join(shortcuts, "  ") + " "

	fillWidth := max(0, width-4-lipgloss.Width(leftPlain))
	return borderStyle.Render("╰─") + leftText + borderStyle.Render(strings.Repeat("─", fillWidth)+"─╯")
}

// wrapWithFrame wraps content with header, notice line and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.notice.View())
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}

// Run starts the TUI and blocks until it exits
func Run(deps Deps) error {
	app := New(deps)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	app.stopCamera()
	return err
}
