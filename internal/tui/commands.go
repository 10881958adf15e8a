// ABOUTME: Asynchronous commands the root model issues and the messages they return
// ABOUTME: Network calls, session changes and camera hot-plug waits live here

package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/markalston/facepunch/internal/client"
	"github.com/markalston/facepunch/internal/route"
	"github.com/markalston/facepunch/internal/session"
)

// requestTimeout bounds calls issued from the TUI on top of the client timeout
const requestTimeout = 30 * time.Second

// resetMsg rebuilds all view state after the session was cleared
type resetMsg struct{}

// navigateMsg moves to `to`, but only if still on `from` ("" means anywhere)
type navigateMsg struct {
	from route.Route
	to   route.Route
}

type signedInMsg struct {
	seq  uint64
	cred session.Credential
	err  error
}

type signedOutMsg struct {
	err error
}

type usersLoadedMsg struct {
	users []client.User
	err   error
}

type recordsLoadedMsg struct {
	records    []client.AttendanceRecord
	registered int
	err        error
}

type userChangedMsg struct {
	success string
	failure string
	err     error
}

type cameraChangedMsg struct {
	available bool
	ch        <-chan bool
}

func navigateAfter(d time.Duration, from, to route.Route) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return navigateMsg{from: from, to: to}
	})
}

// waitForReset blocks until a session reset hook fires
func (a *App) waitForReset() tea.Cmd {
	resets := a.resets
	return func() tea.Msg {
		<-resets
		return resetMsg{}
	}
}

func (a *App) signOut() tea.Cmd {
	store := a.deps.Session
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return signedOutMsg{err: store.Clear()}
	}
}

func (a *App) doSignIn(username, password string) tea.Cmd {
	api := a.deps.API
	a.signInSeq++
	seq := a.signInSeq
	return func() tea.Msg {
		if api == nil {
			return signedInMsg{seq: seq, err: errors.New("no service configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		cred, err := api.SignIn(ctx, username, password)
		return signedInMsg{seq: seq, cred: cred, err: err}
	}
}

func signInErrorText(err error) string {
	if errors.Is(err, client.ErrInvalidCredentials) {
		return client.ErrInvalidCredentials.Error()
	}
	return err.Error()
}

func (a *App) loadUsers() tea.Cmd {
	api := a.deps.API
	token := a.token()
	return func() tea.Msg {
		if api == nil {
			return usersLoadedMsg{err: errors.New("no service configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		users, err := api.ListUsers(ctx, token)
		return usersLoadedMsg{users: users, err: err}
	}
}

// loadRecords fetches records and the user list concurrently. A failed user
// fetch only hides the summary; a failed records fetch fails the screen.
func (a *App) loadRecords() tea.Cmd {
	api := a.deps.API
	token := a.token()
	log := a.logger
	return func() tea.Msg {
		if api == nil {
			return recordsLoadedMsg{err: errors.New("no service configured")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var (
			records    []client.AttendanceRecord
			registered = -1
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			records, err = api.ListAttendanceRecords(gctx, token)
			return err
		})
		g.Go(func() error {
			users, err := api.ListUsers(gctx, token)
			if err != nil {
				log.Warn("user count unavailable", "error", err)
				return nil
			}
			registered = len(users)
			return nil
		})
		if err := g.Wait(); err != nil {
			return recordsLoadedMsg{err: err}
		}
		return recordsLoadedMsg{records: records, registered: registered}
	}
}

func (a *App) doUpdateUser(id int, update client.UserUpdate) tea.Cmd {
	api := a.deps.API
	token := a.token()
	return func() tea.Msg {
		msg := userChangedMsg{success: client.MsgUserUpdated, failure: client.MsgUpdateUserFailed}
		if api == nil {
			msg.err = errors.New("no service configured")
			return msg
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		msg.err = api.UpdateUser(ctx, token, id, update)
		return msg
	}
}

func (a *App) doDeleteUser(id int) tea.Cmd {
	api := a.deps.API
	token := a.token()
	return func() tea.Msg {
		msg := userChangedMsg{success: client.MsgUserDeleted, failure: client.MsgDeleteUserFailed}
		if api == nil {
			msg.err = errors.New("no service configured")
			return msg
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		msg.err = api.DeleteUser(ctx, token, id)
		return msg
	}
}

// watchCamera subscribes to hot-plug changes for the open camera screen
func (a *App) watchCamera() tea.Cmd {
	if a.deps.Watcher == nil {
		return nil
	}
	a.stopCamera()
	ctx, cancel := context.WithCancel(context.Background())
	a.stopWatch = cancel
	return a.waitForCamera(a.deps.Watcher.Watch(ctx))
}

func (a *App) waitForCamera(ch <-chan bool) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		available, ok := <-ch
		if !ok {
			return nil
		}
		return cameraChangedMsg{available: available, ch: ch}
	}
}

func (a *App) stopCamera() {
	if a.stopWatch != nil {
		a.stopWatch()
		a.stopWatch = nil
	}
}
