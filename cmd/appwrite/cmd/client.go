// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	appwritecli "github.com/nvidia/appwrite-cli/cmd/appwrite/pkg"
)

func newClientCmd(o *rootOptions) *cobra.Command {
	cmd := consoleCmd(&cobra.Command{
		Use:   "client",
		Short: "Show or update the stored client settings",
		Long: `Show or update the stored client settings.

Without flags the current settings are printed. --endpoint, --key and
--self-signed are saved to the preferences file; a new endpoint is checked
against the server first.`,
		Example: `  appwrite client --endpoint https://appwrite.example.com/v1 --self-signed
  appwrite client --reset`,
		Args: cobra.NoArgs,
	})
	cmd.Flags().Bool("reset", false, "Clear every stored setting, including the session")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		reset, _ := flags.GetBool("reset")
		if !reset && !flags.Changed("endpoint") && !flags.Changed("key") && !flags.Changed("self-signed") {
			return o.print(cmd, map[string]any{
				"endpoint":   o.v.GetString(appwritecli.ConfigEndpoint),
				"projectId":  o.v.GetString(appwritecli.ConfigProject),
				"selfSigned": o.v.GetBool(appwritecli.ConfigSelfSigned),
				"email":      o.prefs.Email(),
				"loggedIn":   o.prefs.Cookie() != "",
				"config":     o.prefs.Path(),
			})
		}

		if reset {
			o.prefs.Reset()
		}
		if flags.Changed("endpoint") {
			client, err := o.client(cmd)
			if err != nil {
				return err
			}
			if _, err := client.Call(cmd.Context(), http.MethodGet, "/health/version", nil, nil); err != nil {
				return fmt.Errorf("endpoint %s did not answer as an Appwrite server: %w", client.Endpoint, err)
			}
			o.prefs.Set(appwritecli.ConfigEndpoint, client.Endpoint)
		}
		if flags.Changed("key") {
			o.prefs.Set(appwritecli.ConfigKey, o.v.GetString(appwritecli.ConfigKey))
		}
		if flags.Changed("self-signed") {
			o.prefs.Set(appwritecli.ConfigSelfSigned, o.v.GetBool(appwritecli.ConfigSelfSigned))
		}

		if err := o.prefs.Save(); err != nil {
			return err
		}
		appwritecli.Success(cmd.ErrOrStderr(), "client settings saved to %s", o.prefs.Path())
		return nil
	}
	return cmd
}

func newInitCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize local Appwrite configuration",
	}
	cmd.AddCommand(newInitProjectCmd(o))
	return cmd
}

func newInitProjectCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Link the current directory to a project by writing appwrite.json",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().String("project-id", "", "Project ID")
	validateAs(cmd, "project-id", ruleID)
	required(cmd, "project-id")
	cmd.Flags().String("project-name", "", "Project name")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if _, _, err := buildRequest(cmd, ""); err != nil {
			return err
		}
		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		project := &appwritecli.Project{}
		project.ProjectID, _ = cmd.Flags().GetString("project-id")
		project.ProjectName, _ = cmd.Flags().GetString("project-name")
		if cmd.Flags().Changed("endpoint") {
			project.Endpoint = o.v.GetString(appwritecli.ConfigEndpoint)
		}

		if err := appwritecli.SaveProject(wd, project); err != nil {
			return err
		}
		appwritecli.Success(cmd.ErrOrStderr(), "project %s written to %s", project.ProjectID, appwritecli.ProjectFileName)
		return nil
	}
	return cmd
}
