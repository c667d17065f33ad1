// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	appwritecli "github.com/nvidia/appwrite-cli/cmd/appwrite/pkg"
)

const (
	configPath    = "config"
	configOutput  = "output"
	configJSON    = "json"
	configNoColor = "no_color"
	configDebug   = "debug"

	consoleProject = "console"
)

// rootOptions is the state shared by every command: resolved settings,
// stored preferences and the logger.
type rootOptions struct {
	v     *viper.Viper
	prefs *appwritecli.Preferences
	log   *logrus.Entry
}

// NewRootCmd builds the appwrite command tree.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "appwrite",
		Short: "Command line client for the Appwrite API",
		Long: `appwrite talks to the Appwrite REST API.

Examples:
  appwrite login --email me@example.com
  appwrite client --endpoint https://cloud.appwrite.io/v1
  appwrite storage create-file --bucket-id photos --file-id unique() --file ./cat.png
  appwrite sites create-deployment --site-id web --code ./dist --activate --wait`,
		Version:       appwritecli.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.init(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("endpoint", "", "API endpoint, e.g. https://cloud.appwrite.io/v1")
	pf.String("project-id", "", "Project ID used by project-scoped commands")
	pf.String("key", "", "API key")
	pf.Bool("self-signed", false, "Accept self-signed TLS certificates")
	pf.String("config", appwritecli.PreferencesPath(), "Path to the preferences file")
	pf.StringP("output", "o", "json", "Output format: json, yaml, table")
	pf.Bool("json", false, "Output JSON (same as --output json)")
	pf.Bool("no-color", false, "Disable colored output")
	pf.Bool("debug", false, "Log requests and responses to stderr")

	for key, flag := range map[string]string{
		appwritecli.ConfigEndpoint:   "endpoint",
		appwritecli.ConfigProject:    "project-id",
		appwritecli.ConfigKey:        "key",
		appwritecli.ConfigSelfSigned: "self-signed",
		configPath:                   "config",
		configOutput:                 "output",
		configJSON:                   "json",
		configNoColor:                "no-color",
		configDebug:                  "debug",
	} {
		_ = o.v.BindPFlag(key, pf.Lookup(flag))
	}
	o.v.SetEnvPrefix("APPWRITE")
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	o.v.AutomaticEnv()

	cmd.AddCommand(
		newClientCmd(o),
		newInitCmd(o),
		newLoginCmd(o),
		newLogoutCmd(o),
		newWhoamiCmd(o),
		newHealthCmd(o),
		newAccountCmd(o),
		newProjectsCmd(o),
		newSitesCmd(o),
		newStorageCmd(o),
		newTokensCmd(o),
		newUsersCmd(o),
	)
	return cmd
}

// init resolves settings from .env, prefs.json and appwrite.json. Flags and
// APPWRITE_* variables take precedence over both files.
func (o *rootOptions) init(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)
	if o.v.GetBool(configDebug) {
		logger.SetLevel(logrus.DebugLevel)
	}
	o.log = logrus.NewEntry(logger)

	prefs, err := appwritecli.LoadPreferences(o.v.GetString(configPath))
	if err != nil {
		return err
	}
	o.prefs = prefs

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	project, err := appwritecli.LoadProject(wd)
	if err != nil {
		return err
	}

	o.v.SetDefault(appwritecli.ConfigEndpoint, lo.CoalesceOrEmpty(project.Endpoint, prefs.Endpoint(), appwritecli.DefaultEndpoint))
	o.v.SetDefault(appwritecli.ConfigProject, project.ProjectID)
	o.v.SetDefault(appwritecli.ConfigKey, prefs.Key())
	o.v.SetDefault(appwritecli.ConfigSelfSigned, prefs.SelfSigned())

	if format := o.format(); !appwritecli.OutputFormats.Contains(format) {
		return fmt.Errorf("unknown output format %q (want one of %v)", format, appwritecli.OutputFormats.ToSlice())
	}
	return nil
}

func (o *rootOptions) format() string {
	if o.v.GetBool(configJSON) {
		return "json"
	}
	return o.v.GetString(configOutput)
}

// client builds an API client for cmd. Commands under a console service talk
// to the console project; everything else needs a project ID.
func (o *rootOptions) client(cmd *cobra.Command) (*appwritecli.Client, error) {
	endpoint := o.v.GetString(appwritecli.ConfigEndpoint)
	if err := validation.Validate(endpoint, validation.Required, is.URL); err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}

	c := appwritecli.NewClient(endpoint, o.v.GetBool(appwritecli.ConfigSelfSigned), o.log)
	c.Key = o.v.GetString(appwritecli.ConfigKey)
	c.Cookie = o.prefs.Cookie()

	if isConsole(cmd) {
		c.Project = consoleProject
		return c, nil
	}

	c.Project = o.v.GetString(appwritecli.ConfigProject)
	if c.Project == "" {
		appwritecli.Hint(cmd.ErrOrStderr(), "run 'appwrite init project' in your project directory to store its ID in appwrite.json")
		return nil, errors.New("project is required: pass --project-id, set APPWRITE_PROJECT_ID or run 'appwrite init project'")
	}
	if c.Key == "" && c.Cookie != "" {
		c.Mode = "admin"
	}
	return c, nil
}

func (o *rootOptions) print(cmd *cobra.Command, v any) error {
	w := cmd.OutOrStdout()
	color := !o.v.GetBool(configNoColor) && appwritecli.IsTerminal(w)
	return appwritecli.FormatOutput(w, v, o.format(), color)
}
