// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"net/http"
	"os"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	appwritecli "github.com/nvidia/appwrite-cli/cmd/appwrite/pkg"
	"github.com/nvidia/appwrite-cli/cmd/appwrite/pkg/archive"
	"github.com/nvidia/appwrite-cli/cmd/appwrite/pkg/upload"
)

const deploymentsPath = "/sites/{siteId}/deployments"

func newSitesCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "Manage sites, their deployments and variables",
	}

	list := apiCmd(o, "list", "List sites", http.MethodGet, "/sites")
	listFlags(list)

	get := apiCmd(o, "get", "Get a site", http.MethodGet, "/sites/{siteId}")
	pathFlag(get, "site-id", "siteId", "Site ID")

	create := apiCmd(o, "create", "Create a site", http.MethodPost, "/sites")
	idField(create, "site-id", "siteId", "Site ID")
	siteFields(create)

	update := apiCmd(o, "update", "Update a site", http.MethodPut, "/sites/{siteId}")
	pathFlag(update, "site-id", "siteId", "Site ID")
	siteFields(update)

	del := apiCmd(o, "delete", "Delete a site", http.MethodDelete, "/sites/{siteId}")
	pathFlag(del, "site-id", "siteId", "Site ID")

	listDeployments := apiCmd(o, "list-deployments", "List the deployments of a site", http.MethodGet, deploymentsPath)
	pathFlag(listDeployments, "site-id", "siteId", "Site ID")
	listFlags(listDeployments)

	getDeployment := apiCmd(o, "get-deployment", "Get a deployment", http.MethodGet, deploymentsPath+"/{deploymentId}")
	pathFlag(getDeployment, "site-id", "siteId", "Site ID")
	pathFlag(getDeployment, "deployment-id", "deploymentId", "Deployment ID")

	deleteDeployment := apiCmd(o, "delete-deployment", "Delete a deployment", http.MethodDelete, deploymentsPath+"/{deploymentId}")
	pathFlag(deleteDeployment, "site-id", "siteId", "Site ID")
	pathFlag(deleteDeployment, "deployment-id", "deploymentId", "Deployment ID")

	updateSiteDeployment := apiCmd(o, "update-site-deployment", "Make a deployment the active one", http.MethodPatch, "/sites/{siteId}/deployment")
	pathFlag(updateSiteDeployment, "site-id", "siteId", "Site ID")
	required(updateSiteDeployment, stringField(updateSiteDeployment, "deployment-id", "deploymentId", "Deployment ID"))
	validateAs(updateSiteDeployment, "deployment-id", ruleID)

	getDeploymentDownload := downloadCmd(o, "get-deployment-download", "Download the source or build output of a deployment", deploymentsPath+"/{deploymentId}/download")
	pathFlag(getDeploymentDownload, "site-id", "siteId", "Site ID")
	pathFlag(getDeploymentDownload, "deployment-id", "deploymentId", "Deployment ID")
	stringField(getDeploymentDownload, "type", "type", "What to download: source or output")

	listVariables := apiCmd(o, "list-variables", "List the variables of a site", http.MethodGet, "/sites/{siteId}/variables")
	pathFlag(listVariables, "site-id", "siteId", "Site ID")

	createVariable := apiCmd(o, "create-variable", "Create a site variable", http.MethodPost, "/sites/{siteId}/variables")
	pathFlag(createVariable, "site-id", "siteId", "Site ID")
	required(createVariable, stringField(createVariable, "key", "key", "Variable key, max 255 characters"))
	required(createVariable, stringField(createVariable, "value", "value", "Variable value, max 8192 characters"))
	boolField(createVariable, "secret", "secret", "Hide the value from reads")

	deleteVariable := apiCmd(o, "delete-variable", "Delete a site variable", http.MethodDelete, "/sites/{siteId}/variables/{variableId}")
	pathFlag(deleteVariable, "site-id", "siteId", "Site ID")
	pathFlag(deleteVariable, "variable-id", "variableId", "Variable ID")

	cmd.AddCommand(list, get, create, update, del, listDeployments, getDeployment,
		newSitesCreateDeploymentCmd(o), deleteDeployment, updateSiteDeployment,
		getDeploymentDownload, listVariables, createVariable, deleteVariable)
	return cmd
}

func siteFields(cmd *cobra.Command) {
	required(cmd, stringField(cmd, "name", "name", "Site name, max 128 characters"))
	required(cmd, stringField(cmd, "framework", "framework", "Site framework, e.g. nextjs, astro, other"))
	boolField(cmd, "enabled", "enabled", "Enable the site")
	boolField(cmd, "logging", "logging", "Store execution logs")
	intField(cmd, "timeout", "timeout", "Maximum request time in seconds")
	stringField(cmd, "install-command", "installCommand", "Install command")
	stringField(cmd, "build-command", "buildCommand", "Build command")
	stringField(cmd, "output-directory", "outputDirectory", "Build output directory")
	stringField(cmd, "build-runtime", "buildRuntime", "Runtime used during the build")
	stringField(cmd, "adapter", "adapter", "Framework adapter: static or ssr")
	stringField(cmd, "installation-id", "installationId", "VCS installation ID")
	stringField(cmd, "fallback-file", "fallbackFile", "Fallback file for single page apps")
	stringField(cmd, "provider-repository-id", "providerRepositoryId", "Repository ID of the repo linked to the site")
	stringField(cmd, "provider-branch", "providerBranch", "Production branch of the linked repo")
	boolField(cmd, "provider-silent-mode", "providerSilentMode", "Do not comment on pull requests")
	stringField(cmd, "provider-root-directory", "providerRootDirectory", "Path to the site code in the linked repo")
	stringField(cmd, "specification", "specification", "Build and runtime specification")
}

func newSitesCreateDeploymentCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-deployment",
		Short: "Upload code and create a site deployment",
		Long: `Upload code and create a site deployment.

--code is a directory or a tar.gz archive. Directories are packed first,
skipping .git, node_modules and every --ignore pattern. Archives larger than
5 MiB are sent in chunks; pass the --deployment-id of an interrupted upload to
continue it.`,
		Args: cobra.NoArgs,
	}
	pathFlag(cmd, "site-id", "siteId", "Site ID")
	cmd.Flags().String("code", "", "Directory or tar.gz archive with the site code")
	required(cmd, "code")
	required(cmd, boolField(cmd, "activate", "activate", "Activate the deployment once the build succeeds"))
	stringField(cmd, "install-command", "installCommand", "Install command")
	stringField(cmd, "build-command", "buildCommand", "Build command")
	stringField(cmd, "output-directory", "outputDirectory", "Build output directory")
	cmd.Flags().String("deployment-id", "", "ID of an interrupted deployment upload to resume")
	validateAs(cmd, "deployment-id", ruleID)
	cmd.Flags().StringArray("ignore", nil, "Glob pattern excluded from the archive, repeatable")
	cmd.Flags().Bool("wait", false, "Wait until the build finishes")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		path, params, err := buildRequest(cmd, deploymentsPath)
		if err != nil {
			return err
		}
		client, err := o.client(cmd)
		if err != nil {
			return err
		}

		code, _ := cmd.Flags().GetString("code")
		info, err := os.Stat(code)
		if err != nil {
			return err
		}
		if info.IsDir() {
			ignore, _ := cmd.Flags().GetStringArray("ignore")
			packed, cleanup, err := archive.Temp(code, ignore)
			if err != nil {
				return err
			}
			defer cleanup()
			code = packed
		}

		resumeID, _ := cmd.Flags().GetString("deployment-id")
		resp, err := o.upload(cmd, client, upload.Request{
			Path:       path,
			FilePath:   code,
			Field:      "code",
			Params:     params,
			ResourceID: resumeID,
		})
		if err != nil {
			return err
		}

		if wait, _ := cmd.Flags().GetBool("wait"); wait {
			siteID, _ := cmd.Flags().GetString("site-id")
			deploymentID := cast.ToString(resp["$id"])
			if deploymentID == "" {
				return errors.New("deployment response carries no $id")
			}
			resp, err = appwritecli.WaitForDeployment(cmd.Context(), client, siteID, deploymentID, appwritecli.WaitOptions{
				OnStatus: func(status string) {
					o.log.Debugf("deployment %s: %s", deploymentID, status)
				},
			})
			if err != nil {
				return err
			}
			appwritecli.Success(cmd.ErrOrStderr(), "deployment %s is ready", deploymentID)
		}
		return o.print(cmd, resp)
	}
	return cmd
}
