// ABOUTME: Session commands: signin, signout and whoami
// ABOUTME: The stored access token is the only signal of being signed in

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/markalston/facepunch/internal/route"
	"github.com/markalston/facepunch/internal/session"
	"github.com/markalston/facepunch/internal/tui"
)

var (
	signInUsername string
	signInPassword string
)

var signInCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in as an administrator",
	Long: `Exchange a username and password for a session. Missing credentials are
prompted for when running on a terminal.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, e *env, w io.Writer) int {
			username, password := signInUsername, signInPassword
			if username == "" || password == "" {
				if err := promptCredentials(&username, &password); err != nil {
					return writeError(w, err)
				}
			}
			return runSignIn(ctx, e, username, password, w)
		})
	},
}

var signOutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, e *env, w io.Writer) int {
			return runSignOut(e, w)
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show whether a session is stored",
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, e *env, w io.Writer) int {
			return runWhoami(e, w)
		})
	},
}

func init() {
	signInCmd.Flags().StringVarP(&signInUsername, "username", "u", "", "Username")
	signInCmd.Flags().StringVarP(&signInPassword, "password", "p", "", "Password")
	rootCmd.AddCommand(signInCmd, signOutCmd, whoamiCmd)
}

// promptCredentials asks for whichever of username and password is missing
func promptCredentials(username, password *string) error {
	if !stdinIsTerminal() {
		return errors.New("username and password are required (use --username and --password)")
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Username").Value(username),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password),
	))
	if err := form.Run(); err != nil {
		return err
	}
	if strings.TrimSpace(*username) == "" || *password == "" {
		return errors.New("username and password are required")
	}
	return nil
}

// runSignIn exchanges credentials for a token pair and stores it
func runSignIn(ctx context.Context, e *env, username, password string, w io.Writer) int {
	cred, err := e.client.SignIn(ctx, username, password)
	if err != nil {
		return writeError(w, err)
	}
	if err := e.session.Save(cred); err != nil {
		fmt.Fprintf(w, "Error: saving session: %v\n", err)
		return exitError
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]any{"success": true, "message": tui.MsgLoginSuccessful})
	} else {
		fmt.Fprintln(w, statusWord(w, tui.MsgLoginSuccessful, true))
	}
	return exitOK
}

// runSignOut clears both stored tokens
func runSignOut(e *env, w io.Writer) int {
	if err := e.session.Clear(); err != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", tui.MsgSignOutFailed, err)
		return exitError
	}
	if IsJSONOutput() {
		writeJSON(w, map[string]any{"success": true, "message": tui.MsgSignedOut})
	} else {
		fmt.Fprintln(w, tui.MsgSignedOut)
	}
	return exitOK
}

// runWhoami reports session presence. Tokens are never decoded.
func runWhoami(e *env, w io.Writer) int {
	authorized := route.IsAuthorized(e.session)
	if IsJSONOutput() {
		writeJSON(w, map[string]any{
			"authorized": authorized,
			"service":    e.cfg.APIURL,
		})
		return exitOK
	}

	state := statusWord(w, "Anonymous", false)
	if authorized {
		state = statusWord(w, "Signed in", true)
	}
	fmt.Fprintf(w, "Service:  %s\nSession:  %s\n", e.cfg.APIURL, state)
	return exitOK
}

// requireSession returns the access token, or prints the authorization
// error when none is stored. Callers must not touch the network without it.
func requireSession(store *session.Store, w io.Writer) (string, bool) {
	if !route.IsAuthorized(store) {
		fmt.Fprintf(w, "Error: %v (run facepunch signin)\n", route.ErrNotAuthorized)
		return "", false
	}
	return store.Current(), true
}
