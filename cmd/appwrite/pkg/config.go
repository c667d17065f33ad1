// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package appwritecli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
)

const (
	// ConfigEndpoint is the API endpoint, including the /v1 suffix
	ConfigEndpoint = "endpoint"
	// ConfigProject is the project the project-scoped commands talk to
	ConfigProject = "project_id"
	// ConfigKey is the API key sent as x-appwrite-key
	ConfigKey = "key"
	// ConfigCookie is the console session cookie saved by login
	ConfigCookie = "cookie"
	// ConfigSelfSigned disables TLS certificate verification
	ConfigSelfSigned = "self_signed"
	// ConfigEmail is the email of the signed in console user
	ConfigEmail = "email"

	// DefaultEndpoint is used when no endpoint is configured anywhere
	DefaultEndpoint = "https://cloud.appwrite.io/v1"

	// ProjectFileName is the local project file read from the working directory
	ProjectFileName = "appwrite.json"
)

// ConfigDir returns the ~/.appwrite directory.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".appwrite")
}

// PreferencesPath returns the default global preferences file path.
func PreferencesPath() string {
	return filepath.Join(ConfigDir(), "prefs.json")
}

// Preferences is the global CLI configuration stored in prefs.json.
type Preferences struct {
	v    *viper.Viper
	path string
}

// LoadPreferences reads the preferences file at path. A missing file yields
// empty preferences.
func LoadPreferences(path string) (*Preferences, error) {
	p := &Preferences{v: viper.New(), path: path}
	p.v.SetConfigFile(path)
	p.v.SetConfigType("json")

	err := p.v.ReadInConfig()
	if _, ok := err.(*os.PathError); ok {
		return p, nil
	} else if err != nil {
		return nil, fmt.Errorf("parsing preferences %s: %w", path, err)
	}
	return p, nil
}

// Path returns the file the preferences are saved to.
func (p *Preferences) Path() string {
	return p.path
}

func (p *Preferences) Endpoint() string { return p.v.GetString(ConfigEndpoint) }
func (p *Preferences) Key() string      { return p.v.GetString(ConfigKey) }
func (p *Preferences) Cookie() string   { return p.v.GetString(ConfigCookie) }
func (p *Preferences) Email() string    { return p.v.GetString(ConfigEmail) }
func (p *Preferences) SelfSigned() bool { return p.v.GetBool(ConfigSelfSigned) }

// Set updates a single preference in memory.
func (p *Preferences) Set(key string, value any) {
	p.v.Set(key, value)
}

// Reset drops every stored preference.
func (p *Preferences) Reset() {
	p.v = viper.New()
	p.v.SetConfigFile(p.path)
	p.v.SetConfigType("json")
}

// Save writes the preferences to disk, readable by the current user only.
func (p *Preferences) Save() error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(p.v.AllSettings(), "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling preferences: %w", err)
	}
	return os.WriteFile(p.path, data, 0600)
}

// Project mirrors the fields of appwrite.json the CLI reads.
type Project struct {
	ProjectID   string `json:"projectId,omitempty"`
	ProjectName string `json:"projectName,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"`
}

// LoadProject reads appwrite.json from dir. Comments and trailing commas are
// accepted. A missing file yields an empty project.
func LoadProject(dir string) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(dir, ProjectFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return &Project{}, nil
		}
		return nil, err
	}
	var project Project
	if err := json.Unmarshal(jsonc.ToJSON(data), &project); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ProjectFileName, err)
	}
	return &project, nil
}

// SaveProject writes project into appwrite.json in dir, keeping any other
// keys already present in the file.
func SaveProject(dir string, project *Project) error {
	path := filepath.Join(dir, ProjectFileName)
	doc := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
			return fmt.Errorf("parsing %s: %w", ProjectFileName, err)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	doc["projectId"] = project.ProjectID
	if project.ProjectName != "" {
		doc["projectName"] = project.ProjectName
	}
	if project.Endpoint != "" {
		doc["endpoint"] = project.Endpoint
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", ProjectFileName, err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
