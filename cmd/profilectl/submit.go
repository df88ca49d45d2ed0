package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gebeyahub/profile-engine/internal/models"
	"github.com/gebeyahub/profile-engine/internal/session"
)

var submitCmd = &cobra.Command{
	Use:   "submit <profile.json>",
	Short: "Validate a profile file and submit it to the API",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubmit,
}

func runSubmit(cmd *cobra.Command, args []string) error {
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

	transport, err := buildTransport()
	if err != nil {
		return err
	}

	sess := session.New(role, mode, models.DefaultCatalog(), transport, nil)
	sess.Restore(snap)

	err = sess.Submit(cmd.Context())
	if err == nil {
		fmt.Println("profile saved")
		if sess.IsComplete() {
			fmt.Println("completeness: complete")
		} else {
			fmt.Println("completeness: incomplete")
		}
		return nil
	}

	var validationErr *session.ValidationError
	if errors.As(err, &validationErr) {
		fmt.Printf("blocked before sending: %d field(s) failed\n", len(validationErr.Errors))
		for _, e := range validationErr.Errors {
			fmt.Printf("  %-40s %s\n", e.Field, e.Message)
		}
		return fmt.Errorf("validation failed")
	}

	var submitErr *session.SubmitError
	if errors.As(err, &submitErr) {
		for _, msg := range submitErr.Aggregate {
			fmt.Println(msg)
		}
		for field, messages := range submitErr.FieldErrors {
			for _, msg := range messages {
				fmt.Printf("  %-40s %s\n", field, msg)
			}
		}
		return fmt.Errorf("the server rejected the submission")
	}

	return err
}
