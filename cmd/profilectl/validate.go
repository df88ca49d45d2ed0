package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gebeyahub/profile-engine/internal/models"
	"github.com/gebeyahub/profile-engine/internal/schema"
	"github.com/gebeyahub/profile-engine/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate <profile.json>",
	Short: "Validate a profile file and report its completeness verdict",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	role, err := parseRole()
	if err != nil {
		return err
	}
	mode, err := parseMode()
	if err != nil {
		return err
	}

	snap, err := loadSnapshotFile(args[0])
	if err != nil {
		return err
	}

	errs := validation.ValidateSnapshot(role, mode, snap, models.DefaultCatalog())
	if len(errs) == 0 {
		fmt.Println("valid: every field rule passed")
	} else {
		fmt.Printf("invalid: %d field(s) failed\n", len(errs))
		for _, e := range errs {
			fmt.Printf("  %-40s %-15s %s\n", e.Field, e.Code, e.Message)
		}
	}

	if schema.IsComplete(role, snap) {
		fmt.Println("completeness: complete")
	} else {
		fmt.Println("completeness: incomplete")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed")
	}
	return nil
}
