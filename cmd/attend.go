// ABOUTME: Capture commands: attend (public) and register (signed in)
// ABOUTME: Each run captures exactly one frame and makes one submission

package cmd

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/markalston/facepunch/internal/submit"
)

// dateLayout is the date-of-birth format the service expects
const dateLayout = "2006-01-02"

var genders = []string{"male", "female", "other"}

var registerProfile submit.Profile

var attendCmd = &cobra.Command{
	Use:   "attend",
	Short: "Mark attendance with one camera capture",
	Long: `Capture one frame from the camera (or --image) and submit it to mark
attendance. No sign-in is required.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, e *env, w io.Writer) int {
			return runAttend(ctx, e, imagePath, w)
		})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a person with one camera capture",
	Long: `Capture one frame from the camera (or --image) and submit it with the
person's profile. Requires a signed-in session.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context, e *env, w io.Writer) int {
			return runRegister(ctx, e, registerProfile, imagePath, w)
		})
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerProfile.Name, "name", "", "Full name")
	registerCmd.Flags().StringVar(&registerProfile.Email, "email", "", "Email address")
	registerCmd.Flags().StringVar(&registerProfile.Gender, "gender", "male", "male, female or other")
	registerCmd.Flags().StringVar(&registerProfile.DOB, "dob", "", "Date of birth (YYYY-MM-DD)")
	rootCmd.AddCommand(attendCmd, registerCmd)
}

// runAttend captures and submits one attendance frame
func runAttend(ctx context.Context, e *env, image string, w io.Writer) int {
	source, err := e.frameSource(ctx, image)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	return writeOutcome(w, e.pipeline.CaptureAndSubmitAttendance(ctx, source))
}

// runRegister checks the session before the camera or the network is touched
func runRegister(ctx context.Context, e *env, profile submit.Profile, image string, w io.Writer) int {
	token, ok := requireSession(e.session, w)
	if !ok {
		return exitError
	}

	profile, err := normalizeProfile(profile)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	source, err := e.frameSource(ctx, image)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	return writeOutcome(w, e.pipeline.CaptureAndSubmitRegistration(ctx, source, profile, token))
}

// normalizeProfile trims fields and rejects the choices the form would not offer
func normalizeProfile(p submit.Profile) (submit.Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Gender = strings.ToLower(strings.TrimSpace(p.Gender))
	p.DOB = strings.TrimSpace(p.DOB)

	if !slices.Contains(genders, p.Gender) {
		return p, fmt.Errorf("--gender must be one of %s", strings.Join(genders, ", "))
	}
	if p.DOB != "" {
		if _, err := time.Parse(dateLayout, p.DOB); err != nil {
			return p, fmt.Errorf("--dob must be YYYY-MM-DD, got %q", p.DOB)
		}
	}
	return p, nil
}
