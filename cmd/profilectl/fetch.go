package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gebeyahub/profile-engine/internal/config"
	"github.com/gebeyahub/profile-engine/internal/models"
	"github.com/gebeyahub/profile-engine/internal/session"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the current profile from the API and print it",
	Args:  cobra.NoArgs,
	RunE:  runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	role, err := parseRole()
	if err != nil {
		return err
	}
	mode, err := parseMode()
	if err != nil {
		return err
	}

	transport, err := buildTransport()
	if err != nil {
		return err
	}

	sess := session.New(role, mode, models.DefaultCatalog(), transport, nil)
	if err := sess.Load(cmd.Context()); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sess.Snapshot(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func buildTransport() (*session.HTTPTransport, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	baseURL := cfg.APIBaseURL
	if flagBaseURL != "" {
		baseURL = flagBaseURL
	}
	token := cfg.APIToken
	if flagToken != "" {
		token = flagToken
	}

	return session.NewHTTPTransport(baseURL, token, cfg.HTTPTimeout), nil
}
