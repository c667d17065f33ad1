// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newAccountCmd(o *rootOptions) *cobra.Command {
	cmd := consoleCmd(&cobra.Command{
		Use:   "account",
		Short: "Manage the account of the logged in user",
	})

	get := apiCmd(o, "get", "Get the currently logged in user", http.MethodGet, "/account")

	create := apiCmd(o, "create", "Create a new account", http.MethodPost, "/account")
	idField(create, "user-id", "userId", "User ID")
	required(create, stringField(create, "email", "email", "User email"))
	validateAs(create, "email", ruleEmail)
	required(create, stringField(create, "password", "password", "New user password, at least 8 characters"))
	stringField(create, "name", "name", "User name, max 128 characters")

	updateName := apiCmd(o, "update-name", "Update the account name", http.MethodPatch, "/account/name")
	required(updateName, stringField(updateName, "name", "name", "User name, max 128 characters"))

	updateEmail := apiCmd(o, "update-email", "Update the account email", http.MethodPatch, "/account/email")
	required(updateEmail, stringField(updateEmail, "email", "email", "User email"))
	validateAs(updateEmail, "email", ruleEmail)
	required(updateEmail, stringField(updateEmail, "password", "password", "Current user password"))

	updatePassword := apiCmd(o, "update-password", "Update the account password", http.MethodPatch, "/account/password")
	required(updatePassword, stringField(updatePassword, "password", "password", "New user password, at least 8 characters"))
	stringField(updatePassword, "old-password", "oldPassword", "Current user password")

	updatePrefs := apiCmd(o, "update-prefs", "Replace the account preferences", http.MethodPatch, "/account/prefs")
	required(updatePrefs, jsonField(updatePrefs, "prefs", "prefs", "Preferences object"))

	listSessions := apiCmd(o, "list-sessions", "List the sessions of the account", http.MethodGet, "/account/sessions")

	deleteSession := apiCmd(o, "delete-session", "Log out a session", http.MethodDelete, "/account/sessions/{sessionId}")
	pathFlag(deleteSession, "session-id", "sessionId", `Session ID, or "current"`)

	deleteSessions := apiCmd(o, "delete-sessions", "Log out every session of the account", http.MethodDelete, "/account/sessions")

	createJWT := apiCmd(o, "create-jwt", "Create a JSON Web Token for the current session", http.MethodPost, "/account/jwts")

	listLogs := apiCmd(o, "list-logs", "List the latest security log entries of the account", http.MethodGet, "/account/logs")
	arrayField(listLogs, "queries", "queries", "Query string, repeatable")

	cmd.AddCommand(get, create, updateName, updateEmail, updatePassword, updatePrefs,
		listSessions, deleteSession, deleteSessions, createJWT, listLogs)
	return cmd
}
