// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newProjectsCmd(o *rootOptions) *cobra.Command {
	cmd := consoleCmd(&cobra.Command{
		Use:   "projects",
		Short: "Manage projects and their API keys",
	})

	list := apiCmd(o, "list", "List projects", http.MethodGet, "/projects")
	listFlags(list)

	get := apiCmd(o, "get", "Get a project", http.MethodGet, "/projects/{projectId}")
	pathFlag(get, "project-id", "projectId", "Project ID")

	create := apiCmd(o, "create", "Create a project", http.MethodPost, "/projects")
	idField(create, "project-id", "projectId", "Project ID")
	required(create, stringField(create, "name", "name", "Project name, max 128 characters"))
	required(create, stringField(create, "team-id", "teamId", "Team owning the project"))
	stringField(create, "region", "region", "Project region")
	stringField(create, "description", "description", "Project description")
	stringField(create, "logo", "logo", "Project logo")
	stringField(create, "url", "url", "Project URL")
	validateAs(create, "url", ruleURL)

	update := apiCmd(o, "update", "Update a project", http.MethodPatch, "/projects/{projectId}")
	pathFlag(update, "project-id", "projectId", "Project ID")
	required(update, stringField(update, "name", "name", "Project name, max 128 characters"))
	stringField(update, "description", "description", "Project description")
	stringField(update, "logo", "logo", "Project logo")
	stringField(update, "url", "url", "Project URL")
	validateAs(update, "url", ruleURL)

	del := apiCmd(o, "delete", "Delete a project", http.MethodDelete, "/projects/{projectId}")
	pathFlag(del, "project-id", "projectId", "Project ID")

	listKeys := apiCmd(o, "list-keys", "List the API keys of a project", http.MethodGet, "/projects/{projectId}/keys")
	pathFlag(listKeys, "project-id", "projectId", "Project ID")

	createKey := apiCmd(o, "create-key", "Create an API key", http.MethodPost, "/projects/{projectId}/keys")
	pathFlag(createKey, "project-id", "projectId", "Project ID")
	required(createKey, stringField(createKey, "name", "name", "Key name, max 128 characters"))
	required(createKey, arrayField(createKey, "scopes", "scopes", "Key scope, repeatable"))
	stringField(createKey, "expire", "expire", "Expiration time in ISO 8601 format")

	getKey := apiCmd(o, "get-key", "Get an API key", http.MethodGet, "/projects/{projectId}/keys/{keyId}")
	pathFlag(getKey, "project-id", "projectId", "Project ID")
	pathFlag(getKey, "key-id", "keyId", "Key ID")

	updateKey := apiCmd(o, "update-key", "Update an API key", http.MethodPut, "/projects/{projectId}/keys/{keyId}")
	pathFlag(updateKey, "project-id", "projectId", "Project ID")
	pathFlag(updateKey, "key-id", "keyId", "Key ID")
	required(updateKey, stringField(updateKey, "name", "name", "Key name, max 128 characters"))
	required(updateKey, arrayField(updateKey, "scopes", "scopes", "Key scope, repeatable"))
	stringField(updateKey, "expire", "expire", "Expiration time in ISO 8601 format")

	deleteKey := apiCmd(o, "delete-key", "Delete an API key", http.MethodDelete, "/projects/{projectId}/keys/{keyId}")
	pathFlag(deleteKey, "project-id", "projectId", "Project ID")
	pathFlag(deleteKey, "key-id", "keyId", "Key ID")

	cmd.AddCommand(list, get, create, update, del, listKeys, createKey, getKey, updateKey, deleteKey)
	return cmd
}
