// Package main provides profilectl, a command line tool for working
// with marketplace profiles: validate a profile file locally, check its
// completeness verdict, or submit it to the API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gebeyahub/profile-engine/internal/models"
	"github.com/gebeyahub/profile-engine/internal/schema"
)

var (
	flagRole    string
	flagMode    string
	flagBaseURL string
	flagToken   string
)

var rootCmd = &cobra.Command{
	Use:   "profilectl",
	Short: "Marketplace profile tool",
	Long:  "profilectl validates, checks and submits role-conditional marketplace profiles using the same engine the web forms run.",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagRole, "role", "", "account role (contractor, supplier, ...)")
	rootCmd.PersistentFlags().StringVar(&flagMode, "mode", string(schema.ModeEdit), "screen variant: edit or onboarding")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "API base URL (overrides API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "API bearer token (overrides API_TOKEN)")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(submitCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseRole() (models.Role, error) {
	role := models.Role(flagRole)
	if _, ok := models.ValidRoles[role]; !ok {
		return "", fmt.Errorf("--role must be one of the known roles, got %q", flagRole)
	}
	return role, nil
}

func parseMode() (schema.Mode, error) {
	switch schema.Mode(flagMode) {
	case schema.ModeEdit:
		return schema.ModeEdit, nil
	case schema.ModeOnboarding:
		return schema.ModeOnboarding, nil
	default:
		return "", fmt.Errorf("--mode must be edit or onboarding, got %q", flagMode)
	}
}

func loadSnapshotFile(path string) (*models.ProfileSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", path, err)
	}
	snap, err := models.DecodeProfile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snap, nil
}
