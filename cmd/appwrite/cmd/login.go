// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	appwritecli "github.com/nvidia/appwrite-cli/cmd/appwrite/pkg"
)

var errNotLoggedIn = errors.New("not logged in: run 'appwrite login' or set an API key with --key")

func newLoginCmd(o *rootOptions) *cobra.Command {
	cmd := consoleCmd(&cobra.Command{
		Use:   "login",
		Short: "Log in to the Appwrite console",
		Long: `Log in to the Appwrite console with email and password.

The session cookie is stored in the preferences file and sent with every
later command. The password is prompted for when --password is omitted.`,
		Args: cobra.NoArgs,
	})
	required(cmd, stringField(cmd, "email", "email", "Account email"))
	validateAs(cmd, "email", ruleEmail)
	stringField(cmd, "password", "password", "Account password")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		_, params, err := buildRequest(cmd, "")
		if err != nil {
			return err
		}
		if cast.ToString(params["password"]) == "" {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			params["password"] = password
		}

		client, err := o.client(cmd)
		if err != nil {
			return err
		}
		client.Cookie = ""
		if _, err := client.Call(cmd.Context(), http.MethodPost, "/account/sessions/email", nil, params); err != nil {
			return fmt.Errorf("logging in: %w", err)
		}
		if client.Cookie == "" {
			return errors.New("logging in: server did not return a session cookie")
		}

		o.prefs.Set(appwritecli.ConfigEndpoint, client.Endpoint)
		o.prefs.Set(appwritecli.ConfigCookie, client.Cookie)
		o.prefs.Set(appwritecli.ConfigEmail, params["email"])
		if err := o.prefs.Save(); err != nil {
			return err
		}
		appwritecli.Success(cmd.ErrOrStderr(), "logged in as %s", params["email"])
		return nil
	}
	return cmd
}

func readPassword(cmd *cobra.Command) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--password is required when stdin is not a terminal")
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimSpace(string(pw)), nil
}

func newLogoutCmd(o *rootOptions) *cobra.Command {
	cmd := consoleCmd(&cobra.Command{
		Use:   "logout",
		Short: "End the current console session",
		Args:  cobra.NoArgs,
	})
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if o.prefs.Cookie() == "" {
			appwritecli.Warning(cmd.ErrOrStderr(), "not logged in")
			return nil
		}
		client, err := o.client(cmd)
		if err != nil {
			return err
		}
		if _, err := client.Call(cmd.Context(), http.MethodDelete, "/account/sessions/current", nil, nil); err != nil {
			// the stored session is dropped even if the server no longer knows it
			o.log.Debugf("deleting session: %v", err)
		}

		o.prefs.Set(appwritecli.ConfigCookie, "")
		if err := o.prefs.Save(); err != nil {
			return err
		}
		appwritecli.Success(cmd.ErrOrStderr(), "logged out")
		return nil
	}
	return cmd
}

func newWhoamiCmd(o *rootOptions) *cobra.Command {
	cmd := consoleCmd(&cobra.Command{
		Use:   "whoami",
		Short: "Print the logged in account",
		Args:  cobra.NoArgs,
	})
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		if o.prefs.Cookie() == "" && o.v.GetString(appwritecli.ConfigKey) == "" {
			appwritecli.Hint(cmd.ErrOrStderr(), "sign in with 'appwrite login --email <email>'")
			return errNotLoggedIn
		}
		client, err := o.client(cmd)
		if err != nil {
			return err
		}
		resp, err := client.Call(cmd.Context(), http.MethodGet, "/account", nil, nil)
		if err != nil {
			var apiErr *appwritecli.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
				return errNotLoggedIn
			}
			return err
		}
		return o.print(cmd, resp)
	}
	return cmd
}
