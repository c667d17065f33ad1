// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newUsersCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage the users of a project",
	}

	list := apiCmd(o, "list", "List users", http.MethodGet, "/users")
	listFlags(list)

	get := apiCmd(o, "get", "Get a user", http.MethodGet, "/users/{userId}")
	pathFlag(get, "user-id", "userId", "User ID")

	create := apiCmd(o, "create", "Create a user", http.MethodPost, "/users")
	idField(create, "user-id", "userId", "User ID")
	stringField(create, "email", "email", "User email")
	validateAs(create, "email", ruleEmail)
	stringField(create, "phone", "phone", "Phone number in E.164 format")
	stringField(create, "password", "password", "Plain text user password, at least 8 characters")
	stringField(create, "name", "name", "User name, max 128 characters")

	updateName := apiCmd(o, "update-name", "Update a user name", http.MethodPatch, "/users/{userId}/name")
	pathFlag(updateName, "user-id", "userId", "User ID")
	required(updateName, stringField(updateName, "name", "name", "User name, max 128 characters"))

	updateEmail := apiCmd(o, "update-email", "Update a user email", http.MethodPatch, "/users/{userId}/email")
	pathFlag(updateEmail, "user-id", "userId", "User ID")
	required(updateEmail, stringField(updateEmail, "email", "email", "User email"))
	validateAs(updateEmail, "email", ruleEmail)

	updateStatus := apiCmd(o, "update-status", "Block or unblock a user", http.MethodPatch, "/users/{userId}/status")
	pathFlag(updateStatus, "user-id", "userId", "User ID")
	required(updateStatus, boolField(updateStatus, "status", "status", "false blocks the user, true unblocks"))

	updateLabels := apiCmd(o, "update-labels", "Replace the labels of a user", http.MethodPut, "/users/{userId}/labels")
	pathFlag(updateLabels, "user-id", "userId", "User ID")
	required(updateLabels, arrayField(updateLabels, "labels", "labels", "Label, repeatable"))

	updatePrefs := apiCmd(o, "update-prefs", "Replace the preferences of a user", http.MethodPatch, "/users/{userId}/prefs")
	pathFlag(updatePrefs, "user-id", "userId", "User ID")
	required(updatePrefs, jsonField(updatePrefs, "prefs", "prefs", "Preferences object"))

	listSessions := apiCmd(o, "list-sessions", "List the sessions of a user", http.MethodGet, "/users/{userId}/sessions")
	pathFlag(listSessions, "user-id", "userId", "User ID")

	deleteSessions := apiCmd(o, "delete-sessions", "Delete every session of a user", http.MethodDelete, "/users/{userId}/sessions")
	pathFlag(deleteSessions, "user-id", "userId", "User ID")

	del := apiCmd(o, "delete", "Delete a user", http.MethodDelete, "/users/{userId}")
	pathFlag(del, "user-id", "userId", "User ID")

	cmd.AddCommand(list, get, create, updateName, updateEmail, updateStatus, updateLabels,
		updatePrefs, listSessions, deleteSessions, del)
	return cmd
}
