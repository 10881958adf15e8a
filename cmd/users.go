// ABOUTME: Admin commands for registered users: list, update and delete
// ABOUTME: All of them require a signed-in session

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/markalston/facepunch/internal/client"
)

var (
	userUpdate client.UserUpdate
	deleteYes  bool
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage registered users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered users",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(runUsersList)
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a registered user",
	Long: `Update a registered user. Only the fields given as flags change; the rest
keep their current values.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		changed := changedFields(cmd)
		runCommand(func(ctx context.Context, e *env, w io.Writer) int {
			return runUsersUpdate(ctx, e, args[0], userUpdate, changed, w)
		})
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a registered user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, e *env, w io.Writer) int {
			confirm := confirmDelete
			if deleteYes {
				confirm = nil
			}
			return runUsersDelete(ctx, e, args[0], confirm, w)
		})
	},
}

func init() {
	usersUpdateCmd.Flags().StringVar(&userUpdate.Name, "name", "", "New name")
	usersUpdateCmd.Flags().StringVar(&userUpdate.Email, "email", "", "New email")
	usersUpdateCmd.Flags().StringVar(&userUpdate.Gender, "gender", "", "New gender (male, female or other)")
	usersUpdateCmd.Flags().StringVar(&userUpdate.DOB, "dob", "", "New date of birth (YYYY-MM-DD)")
	usersDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Delete without asking")

	usersCmd.AddCommand(usersListCmd, usersUpdateCmd, usersDeleteCmd)
	rootCmd.AddCommand(usersCmd)
}

// changedFields records which update flags were given explicitly
func changedFields(cmd *cobra.Command) map[string]bool {
	changed := make(map[string]bool)
	for _, name := range []string{"name", "email", "gender", "dob"} {
		changed[name] = cmd.Flags().Changed(name)
	}
	return changed
}

// runUsersList prints every registered user
func runUsersList(ctx context.Context, e *env, w io.Writer) int {
	token, ok := requireSession(e.session, w)
	if !ok {
		return exitError
	}

	users, err := e.client.ListUsers(ctx, token)
	if err != nil {
		return writeError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, users)
	} else {
		fmt.Fprintln(w, formatUsersHuman(users))
	}
	return exitOK
}

func formatUsersHuman(users []client.User) string {
	if len(users) == 0 {
		return "No registered users."
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{strconv.Itoa(u.ID), u.Name, u.Email, u.Gender, u.DOB})
	}
	return fmt.Sprintf("%d registered\n%s", len(users),
		renderTable([]string{"ID", "Name", "Email", "Gender", "Date of birth"}, rows,
			[]columnAlignment{alignRight}))
}

// runUsersUpdate merges the changed fields into the current record and
// sends the full record back.
func runUsersUpdate(ctx context.Context, e *env, rawID string, update client.UserUpdate, changed map[string]bool, w io.Writer) int {
	token, ok := requireSession(e.session, w)
	if !ok {
		return exitError
	}
	id, err := parseUserID(rawID)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	users, err := e.client.ListUsers(ctx, token)
	if err != nil {
		return writeError(w, err)
	}
	current, found := findUser(users, id)
	if !found {
		fmt.Fprintf(w, "Error: user %d not found\n", id)
		return exitError
	}

	merged, err := mergeUpdate(current, update, changed)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	if err := e.client.UpdateUser(ctx, token, id, merged); err != nil {
		return writeError(w, err)
	}
	return writeMessage(w, client.MsgUserUpdated)
}

func mergeUpdate(current client.User, update client.UserUpdate, changed map[string]bool) (client.UserUpdate, error) {
	merged := client.UserUpdate{
		Name:   current.Name,
		Email:  current.Email,
		Gender: current.Gender,
		DOB:    current.DOB,
	}
	if changed["name"] {
		merged.Name = update.Name
	}
	if changed["email"] {
		merged.Email = update.Email
	}
	if changed["gender"] {
		gender := strings.ToLower(strings.TrimSpace(update.Gender))
		if !slices.Contains(genders, gender) {
			return merged, fmt.Errorf("--gender must be one of %s", strings.Join(genders, ", "))
		}
		merged.Gender = gender
	}
	if changed["dob"] {
		dob := strings.TrimSpace(update.DOB)
		if dob != "" {
			if _, err := time.Parse(dateLayout, dob); err != nil {
				return merged, fmt.Errorf("--dob must be YYYY-MM-DD, got %q", dob)
			}
		}
		merged.DOB = dob
	}
	return merged, nil
}

// runUsersDelete removes a user after confirm (nil skips the question)
func runUsersDelete(ctx context.Context, e *env, rawID string, confirm func(id int) (bool, error), w io.Writer) int {
	token, ok := requireSession(e.session, w)
	if !ok {
		return exitError
	}
	id, err := parseUserID(rawID)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	if confirm != nil {
		yes, err := confirm(id)
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
		if !yes {
			fmt.Fprintln(w, "Kept")
			return exitOK
		}
	}

	if err := e.client.DeleteUser(ctx, token, id); err != nil {
		return writeError(w, err)
	}
	return writeMessage(w, client.MsgUserDeleted)
}

func confirmDelete(id int) (bool, error) {
	if !stdinIsTerminal() {
		return false, errors.New("refusing to delete without --yes when not on a terminal")
	}
	var yes bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete user %d?", id)).
		Affirmative("Delete").
		Negative("Keep").
		Value(&yes).
		Run()
	return yes, err
}

func parseUserID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("user id must be a positive number, got %q", raw)
	}
	return id, nil
}

func findUser(users []client.User, id int) (client.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return client.User{}, false
}

// writeMessage prints a success line for admin mutations
func writeMessage(w io.Writer, msg string) int {
	if IsJSONOutput() {
		writeJSON(w, map[string]any{"success": true, "message": msg})
	} else {
		fmt.Fprintln(w, statusWord(w, msg, true))
	}
	return exitOK
}
