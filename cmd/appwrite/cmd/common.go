// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	appwritecli "github.com/nvidia/appwrite-cli/cmd/appwrite/pkg"
)

// Flag and command annotations linking the CLI surface to API requests.
const (
	annotationConsole = "appwrite_console"
	annotationField   = "appwrite_field"
	annotationPath    = "appwrite_path"
	annotationRule    = "appwrite_rule"
)

const (
	ruleID    = "id"
	ruleEmail = "email"
	ruleURL   = "url"
)

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z]+)\}`)

// consoleCmd marks cmd and its children as talking to the console project.
func consoleCmd(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationConsole] = "true"
	return cmd
}

func isConsole(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationConsole] == "true" {
			return true
		}
	}
	return false
}

func annotate(cmd *cobra.Command, name, key, value string) {
	_ = cmd.Flags().SetAnnotation(name, key, []string{value})
}

func annotation(fl *pflag.Flag, key string) string {
	if v := fl.Annotations[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// pathFlag adds a required flag substituted for {placeholder} in the request path.
func pathFlag(cmd *cobra.Command, name, placeholder, usage string) {
	cmd.Flags().String(name, "", usage)
	annotate(cmd, name, annotationPath, placeholder)
	annotate(cmd, name, annotationRule, ruleID)
	_ = cmd.MarkFlagRequired(name)
}

func stringField(cmd *cobra.Command, name, field, usage string) string {
	cmd.Flags().String(name, "", usage)
	annotate(cmd, name, annotationField, field)
	return name
}

// idField adds a required resource ID field. unique() lets the server pick one.
func idField(cmd *cobra.Command, name, field, usage string) string {
	stringField(cmd, name, field, usage+`. Use "unique()" to generate one`)
	validateAs(cmd, name, ruleID)
	required(cmd, name)
	return name
}

func boolField(cmd *cobra.Command, name, field, usage string) string {
	cmd.Flags().Bool(name, false, usage)
	annotate(cmd, name, annotationField, field)
	return name
}

func intField(cmd *cobra.Command, name, field, usage string) string {
	cmd.Flags().Int64(name, 0, usage)
	annotate(cmd, name, annotationField, field)
	return name
}

// arrayField adds a repeatable flag. Values are not split on commas since
// queries and permissions contain them.
func arrayField(cmd *cobra.Command, name, field, usage string) string {
	cmd.Flags().StringArray(name, nil, usage)
	annotate(cmd, name, annotationField, field)
	return name
}

func jsonField(cmd *cobra.Command, name, field, usage string) string {
	cmd.Flags().Var(&jsonValue{}, name, usage+" (JSON)")
	annotate(cmd, name, annotationField, field)
	return name
}

func listFlags(cmd *cobra.Command) {
	arrayField(cmd, "queries", "queries", "Query string, repeatable")
	stringField(cmd, "search", "search", "Search term to filter results")
}

func required(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		_ = cmd.MarkFlagRequired(name)
	}
}

func validateAs(cmd *cobra.Command, name, rule string) {
	annotate(cmd, name, annotationRule, rule)
}

// jsonValue is a flag holding an arbitrary JSON document.
type jsonValue struct {
	raw   string
	value any
}

func (j *jsonValue) String() string { return j.raw }

func (j *jsonValue) Set(s string) error {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	j.raw, j.value = s, v
	return nil
}

func (j *jsonValue) Type() string { return "json" }

// buildRequest resolves pathTemplate from the path flags and copies every
// field flag the user set into the request params.
func buildRequest(cmd *cobra.Command, pathTemplate string) (string, appwritecli.Params, error) {
	params := appwritecli.Params{}
	pathValues := map[string]string{}
	errs := validation.Errors{}

	cmd.Flags().Visit(func(fl *pflag.Flag) {
		if rule := annotation(fl, annotationRule); rule != "" {
			if err := validateFlag(fl.Value.String(), rule); err != nil {
				errs[fl.Name] = err
				return
			}
		}
		if placeholder := annotation(fl, annotationPath); placeholder != "" {
			pathValues[placeholder] = fl.Value.String()
			return
		}
		field := annotation(fl, annotationField)
		if field == "" {
			return
		}
		v, err := flagValue(fl)
		if err != nil {
			errs[fl.Name] = err
			return
		}
		params[field] = v
	})
	if err := errs.Filter(); err != nil {
		return "", nil, err
	}

	path := placeholderPattern.ReplaceAllStringFunc(pathTemplate, func(m string) string {
		return url.PathEscape(pathValues[m[1:len(m)-1]])
	})
	return path, params, nil
}

func validateFlag(value, rule string) error {
	switch rule {
	case ruleID:
		return appwritecli.ValidateID(value)
	case ruleEmail:
		return validation.Validate(value, validation.Required, is.EmailFormat)
	case ruleURL:
		return validation.Validate(value, validation.Required, is.URL)
	}
	return nil
}

func flagValue(fl *pflag.Flag) (any, error) {
	switch v := fl.Value.(type) {
	case *jsonValue:
		return v.value, nil
	case pflag.SliceValue:
		return v.GetSlice(), nil
	}
	switch fl.Value.Type() {
	case "bool":
		return cast.ToBoolE(fl.Value.String())
	case "int", "int64":
		return cast.ToInt64E(fl.Value.String())
	}
	return fl.Value.String(), nil
}

// apiCmd builds a command that sends one request and prints the response.
func apiCmd(o *rootOptions, use, short, method, path string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
	}
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		resolved, params, err := buildRequest(cmd, path)
		if err != nil {
			return err
		}
		client, err := o.client(cmd)
		if err != nil {
			return err
		}
		resp, err := client.Call(cmd.Context(), method, resolved, nil, params)
		if err != nil {
			return err
		}
		if method == http.MethodDelete && len(resp) == 0 {
			appwritecli.Success(cmd.ErrOrStderr(), "%s %s", cmd.Parent().Name(), use)
			return nil
		}
		return o.print(cmd, resp)
	}
	return cmd
}
