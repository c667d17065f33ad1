// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/gorilla/mux"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appwritecli "github.com/nvidia/appwrite-cli/cmd/appwrite/pkg"
)

var appwriteEnv = []string{
	"APPWRITE_ENDPOINT", "APPWRITE_PROJECT_ID", "APPWRITE_KEY", "APPWRITE_SELF_SIGNED",
	"APPWRITE_CONFIG", "APPWRITE_OUTPUT", "APPWRITE_JSON", "APPWRITE_NO_COLOR", "APPWRITE_DEBUG",
}

// testEnv isolates a test from the user's configuration: it runs in an empty
// working directory with a private prefs file and no APPWRITE_* variables.
func testEnv(t *testing.T) (dir, prefsPath string) {
	t.Helper()
	for _, k := range appwriteEnv {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	dir = t.TempDir()
	t.Chdir(dir)
	return dir, filepath.Join(t.TempDir(), "prefs.json")
}

func newServer(t *testing.T, router *mux.Router) string {
	t.Helper()
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL + "/v1"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func run(args ...string) (string, string, error) {
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestCreateBucketSendsOnlySetFlags(t *testing.T) {
	_, prefs := testEnv(t)

	var (
		body    map[string]any
		project string
	)
	router := mux.NewRouter()
	router.HandleFunc("/v1/storage/buckets", func(w http.ResponseWriter, r *http.Request) {
		project = r.Header.Get("X-Appwrite-Project")
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusCreated, map[string]any{"$id": "photos", "name": "Photos"})
	}).Methods(http.MethodPost)
	endpoint := newServer(t, router)

	stdout, _, err := run("storage", "create-bucket",
		"--endpoint", endpoint, "--project-id", "p1", "--config", prefs,
		"--bucket-id", "photos", "--name", "Photos",
		"--enabled=false", "--maximum-file-size", "1048576",
		"--permissions", `read("any")`, "--permissions", `create("users")`,
	)
	require.NoError(t, err)

	assert.Equal(t, "p1", project)
	assert.Equal(t, map[string]any{
		"bucketId":        "photos",
		"name":            "Photos",
		"enabled":         false,
		"maximumFileSize": float64(1048576),
		"permissions":     []any{`read("any")`, `create("users")`},
	}, body)
	assert.Equal(t, "photos", decode(t, stdout)["$id"])
}

func TestValidationFailsBeforeRequest(t *testing.T) {
	_, prefs := testEnv(t)

	called := false
	router := mux.NewRouter()
	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	endpoint := newServer(t, router)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "invalid custom id",
			args:    []string{"storage", "create-bucket", "--bucket-id", "_photos", "--name", "Photos"},
			wantErr: "bucket-id",
		},
		{
			name:    "invalid email",
			args:    []string{"users", "update-email", "--user-id", "u1", "--email", "not-an-email"},
			wantErr: "email",
		},
		{
			name:    "invalid json",
			args:    []string{"users", "update-prefs", "--user-id", "u1", "--prefs", "{theme"},
			wantErr: "invalid JSON",
		},
		{
			name:    "missing required flag",
			args:    []string{"storage", "get-file", "--bucket-id", "b1"},
			wantErr: "file-id",
		},
		{
			name:    "unknown output format",
			args:    []string{"users", "list", "--output", "xml"},
			wantErr: "unknown output format",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called = false
			args := append(tc.args, "--endpoint", endpoint, "--project-id", "p1", "--config", prefs)
			_, _, err := run(args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.False(t, called)
		})
	}
}

func TestProjectIsRequired(t *testing.T) {
	_, prefs := testEnv(t)

	_, stderr, err := run("users", "list", "--endpoint", "http://127.0.0.1:1/v1", "--config", prefs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project is required")
	assert.Contains(t, stderr, "appwrite init project")
}

func TestListUsesQueryAndTableOutput(t *testing.T) {
	_, prefs := testEnv(t)

	var query map[string][]string
	router := mux.NewRouter()
	router.HandleFunc("/v1/users", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		writeJSON(w, http.StatusOK, map[string]any{
			"total": 1,
			"users": []any{map[string]any{"$id": "u1", "name": "Jane", "status": true}},
		})
	}).Methods(http.MethodGet)
	endpoint := newServer(t, router)

	stdout, _, err := run("users", "list",
		"--endpoint", endpoint, "--project-id", "p1", "--config", prefs,
		"--queries", `{"method":"limit","values":[1]}`, "--search", "jane", "--output", "table")
	require.NoError(t, err)

	assert.Equal(t, []string{`{"method":"limit","values":[1]}`}, query["queries[]"])
	assert.Equal(t, []string{"jane"}, query["search"])
	assert.Contains(t, stdout, "$id")
	assert.Contains(t, stdout, "Jane")
}

func TestDeletePrintsSuccess(t *testing.T) {
	_, prefs := testEnv(t)

	var path string
	router := mux.NewRouter()
	router.HandleFunc("/v1/storage/buckets/{bucketId}/files/{fileId}", func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)
	endpoint := newServer(t, router)

	stdout, stderr, err := run("storage", "delete-file",
		"--endpoint", endpoint, "--project-id", "p1", "--config", prefs,
		"--bucket-id", "b1", "--file-id", "f1")
	require.NoError(t, err)
	assert.Equal(t, "/v1/storage/buckets/b1/files/f1", path)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "storage delete-file")
}

func TestEmptyObjectIsPrinted(t *testing.T) {
	_, prefs := testEnv(t)

	var body map[string]any
	router := mux.NewRouter()
	router.HandleFunc("/v1/users/{userId}/prefs", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{})
	}).Methods(http.MethodPatch)
	endpoint := newServer(t, router)

	stdout, stderr, err := run("users", "update-prefs",
		"--endpoint", endpoint, "--project-id", "p1", "--config", prefs,
		"--user-id", "u1", "--prefs", "{}")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"prefs": map[string]any{}}, body)
	assert.Equal(t, "{}\n", stdout)
	assert.NotContains(t, stderr, "Success")
}

func TestAPIErrorIsReturned(t *testing.T) {
	_, prefs := testEnv(t)

	router := mux.NewRouter()
	router.HandleFunc("/v1/storage/buckets/{bucketId}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Bucket not found", "code": 404, "type": "storage_bucket_not_found"})
	})
	endpoint := newServer(t, router)

	_, _, err := run("storage", "get-bucket",
		"--endpoint", endpoint, "--project-id", "p1", "--config", prefs, "--bucket-id", "b1")
	var apiErr *appwritecli.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bucket not found", apiErr.Message)
}

func TestCreateFileUploads(t *testing.T) {
	dir, prefs := testEnv(t)
	source := filepath.Join(dir, "cat.txt")
	require.NoError(t, os.WriteFile(source, []byte("meow"), 0644))

	var (
		fields   map[string][]string
		content  string
		filename string
		probed   bool
	)
	router := mux.NewRouter()
	router.HandleFunc("/v1/storage/buckets/b1/files", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		fields = r.MultipartForm.Value
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		content, filename = string(data), hdr.Filename
		writeJSON(w, http.StatusCreated, map[string]any{"$id": "generated", "chunksTotal": 1, "chunksUploaded": 1})
	}).Methods(http.MethodPost)
	router.HandleFunc("/v1/storage/buckets/b1/files/{fileId}", func(w http.ResponseWriter, r *http.Request) {
		probed = true
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "File not found", "code": 404})
	}).Methods(http.MethodGet)
	endpoint := newServer(t, router)

	stdout, _, err := run("storage", "create-file",
		"--endpoint", endpoint, "--project-id", "p1", "--config", prefs,
		"--bucket-id", "b1", "--file-id", "unique()", "--file", source,
		"--permissions", `read("any")`)
	require.NoError(t, err)

	assert.False(t, probed)
	assert.Equal(t, []string{"unique()"}, fields["fileId"])
	assert.Equal(t, []string{`read("any")`}, fields["permissions[]"])
	assert.Equal(t, "meow", content)
	assert.Equal(t, "cat.txt", filename)
	assert.Equal(t, "generated", decode(t, stdout)["$id"])
}

func TestCreateDeploymentPacksAndWaits(t *testing.T) {
	dir, prefs := testEnv(t)
	site := filepath.Join(dir, "site")
	require.NoError(t, os.MkdirAll(filepath.Join(site, "node_modules", "dep"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(site, "index.html"), []byte("<h1>hi</h1>"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(site, "notes.tmp"), []byte("scratch"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(site, "node_modules", "dep", "index.js"), []byte("x"), 0644))

	var (
		activate []string
		filename string
		entries  []string
	)
	router := mux.NewRouter()
	router.HandleFunc("/v1/sites/web/deployments", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		activate = r.MultipartForm.Value["activate"]
		f, hdr, err := r.FormFile("code")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		filename = hdr.Filename

		gz, err := gzip.NewReader(f)
		if !assert.NoError(t, err) {
			return
		}
		tr := tar.NewReader(gz)
		for {
			h, err := tr.Next()
			if err != nil {
				break
			}
			entries = append(entries, h.Name)
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"$id": "d1", "status": "waiting"})
	}).Methods(http.MethodPost)
	router.HandleFunc("/v1/sites/web/deployments/d1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"$id": "d1", "status": "ready"})
	}).Methods(http.MethodGet)
	endpoint := newServer(t, router)

	stdout, stderr, err := run("sites", "create-deployment",
		"--endpoint", endpoint, "--project-id", "p1", "--config", prefs,
		"--site-id", "web", "--code", site, "--activate", "--ignore", "*.tmp", "--wait")
	require.NoError(t, err)

	assert.Equal(t, []string{"true"}, activate)
	assert.Equal(t, "code.tar.gz", filename)
	sort.Strings(entries)
	assert.Equal(t, []string{"index.html"}, entries)
	assert.Equal(t, "ready", decode(t, stdout)["status"])
	assert.Contains(t, stderr, "deployment d1 is ready")
}

func TestGetFileDownloadWritesDestination(t *testing.T) {
	dir, prefs := testEnv(t)

	router := mux.NewRouter()
	router.HandleFunc("/v1/storage/buckets/b1/files/f1/download", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("file-bytes"))
	}).Methods(http.MethodGet)
	endpoint := newServer(t, router)

	dest := filepath.Join(dir, "out.bin")
	_, _, err := run("storage", "get-file-download",
		"--endpoint", endpoint, "--project-id", "p1", "--config", prefs,
		"--bucket-id", "b1", "--file-id", "f1", "--destination", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "file-bytes", string(data))
}

func TestLoginWhoamiLogout(t *testing.T) {
	_, prefs := testEnv(t)

	var (
		loginBody     map[string]any
		loginProject  string
		whoamiCookie  string
		whoamiProject string
		loggedOut     bool
	)
	router := mux.NewRouter()
	router.HandleFunc("/v1/account/sessions/email", func(w http.ResponseWriter, r *http.Request) {
		loginProject = r.Header.Get("X-Appwrite-Project")
		_ = json.NewDecoder(r.Body).Decode(&loginBody)
		http.SetCookie(w, &http.Cookie{Name: "a_session_console", Value: "s3cr3t", Path: "/"})
		writeJSON(w, http.StatusCreated, map[string]any{"$id": "s1"})
	}).Methods(http.MethodPost)
	router.HandleFunc("/v1/account", func(w http.ResponseWriter, r *http.Request) {
		whoamiCookie = r.Header.Get("Cookie")
		whoamiProject = r.Header.Get("X-Appwrite-Project")
		writeJSON(w, http.StatusOK, map[string]any{"$id": "u1", "email": "jane@example.com"})
	}).Methods(http.MethodGet)
	router.HandleFunc("/v1/account/sessions/current", func(w http.ResponseWriter, r *http.Request) {
		loggedOut = r.Header.Get("Cookie") == "a_session_console=s3cr3t"
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodDelete)
	endpoint := newServer(t, router)

	_, stderr, err := run("login", "--endpoint", endpoint, "--config", prefs,
		"--email", "jane@example.com", "--password", "password123")
	require.NoError(t, err)
	assert.Contains(t, stderr, "logged in as jane@example.com")
	assert.Equal(t, consoleProject, loginProject)
	assert.Equal(t, map[string]any{"email": "jane@example.com", "password": "password123"}, loginBody)

	saved, err := appwritecli.LoadPreferences(prefs)
	require.NoError(t, err)
	assert.Equal(t, "a_session_console=s3cr3t", saved.Cookie())
	assert.Equal(t, endpoint, saved.Endpoint())
	assert.Equal(t, "jane@example.com", saved.Email())

	// the endpoint now comes from the preferences file
	stdout, _, err := run("whoami", "--config", prefs)
	require.NoError(t, err)
	assert.Equal(t, "a_session_console=s3cr3t", whoamiCookie)
	assert.Equal(t, consoleProject, whoamiProject)
	assert.Equal(t, "u1", decode(t, stdout)["$id"])

	_, _, err = run("logout", "--config", prefs)
	require.NoError(t, err)
	assert.True(t, loggedOut)

	saved, err = appwritecli.LoadPreferences(prefs)
	require.NoError(t, err)
	assert.Empty(t, saved.Cookie())

	_, stderr, err = run("whoami", "--config", prefs)
	assert.ErrorIs(t, err, errNotLoggedIn)
	assert.Contains(t, stderr, "appwrite login")
}

func TestProjectScopedCommandsUseAdminModeWithSession(t *testing.T) {
	_, prefs := testEnv(t)

	var mode string
	router := mux.NewRouter()
	router.HandleFunc("/v1/users/{userId}", func(w http.ResponseWriter, r *http.Request) {
		mode = r.Header.Get("X-Appwrite-Mode")
		writeJSON(w, http.StatusOK, map[string]any{"$id": mux.Vars(r)["userId"]})
	}).Methods(http.MethodGet)
	endpoint := newServer(t, router)

	p, err := appwritecli.LoadPreferences(prefs)
	require.NoError(t, err)
	p.Set(appwritecli.ConfigCookie, "a_session_console=abc")
	require.NoError(t, p.Save())

	_, _, err = run("users", "get", "--endpoint", endpoint, "--project-id", "p1", "--config", prefs, "--user-id", "u1")
	require.NoError(t, err)
	assert.Equal(t, "admin", mode)

	_, _, err = run("users", "get", "--endpoint", endpoint, "--project-id", "p1", "--key", "k1", "--config", prefs, "--user-id", "u1")
	require.NoError(t, err)
	assert.Empty(t, mode)
}

func TestInitProjectAndProjectFile(t *testing.T) {
	dir, prefs := testEnv(t)

	var project string
	router := mux.NewRouter()
	router.HandleFunc("/v1/sites", func(w http.ResponseWriter, r *http.Request) {
		project = r.Header.Get("X-Appwrite-Project")
		writeJSON(w, http.StatusOK, map[string]any{"total": 0, "sites": []any{}})
	}).Methods(http.MethodGet)
	endpoint := newServer(t, router)

	_, _, err := run("init", "project", "--config", prefs,
		"--project-id", "web-prod", "--project-name", "Web", "--endpoint", endpoint)
	require.NoError(t, err)

	saved, err := appwritecli.LoadProject(dir)
	require.NoError(t, err)
	assert.Equal(t, appwritecli.Project{ProjectID: "web-prod", ProjectName: "Web", Endpoint: endpoint}, *saved)

	_, _, err = run("sites", "list", "--config", prefs)
	require.NoError(t, err)
	assert.Equal(t, "web-prod", project)
}

func TestProjectFromDotEnv(t *testing.T) {
	dir, prefs := testEnv(t)

	var project string
	router := mux.NewRouter()
	router.HandleFunc("/v1/health", func(w http.ResponseWriter, r *http.Request) {
		project = r.Header.Get("X-Appwrite-Project")
		writeJSON(w, http.StatusOK, map[string]any{"status": "pass"})
	}).Methods(http.MethodGet)
	endpoint := newServer(t, router)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APPWRITE_PROJECT_ID=from-dotenv\n"), 0644))

	_, _, err := run("health", "get", "--endpoint", endpoint, "--config", prefs)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", project)
}

func TestClientCommand(t *testing.T) {
	_, prefs := testEnv(t)

	router := mux.NewRouter()
	router.HandleFunc("/v1/health/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"version": "1.7.4"})
	}).Methods(http.MethodGet)
	endpoint := newServer(t, router)

	_, _, err := run("client", "--config", prefs, "--endpoint", endpoint, "--key", "standard_abc", "--self-signed")
	require.NoError(t, err)

	saved, err := appwritecli.LoadPreferences(prefs)
	require.NoError(t, err)
	assert.Equal(t, endpoint, saved.Endpoint())
	assert.Equal(t, "standard_abc", saved.Key())
	assert.True(t, saved.SelfSigned())

	stdout, _, err := run("client", "--config", prefs)
	require.NoError(t, err)
	settings := decode(t, stdout)
	assert.Equal(t, endpoint, settings["endpoint"])
	assert.Equal(t, true, settings["selfSigned"])

	_, _, err = run("client", "--config", prefs, "--endpoint", "http://127.0.0.1:1/v1")
	require.Error(t, err)

	_, _, err = run("client", "--config", prefs, "--reset")
	require.NoError(t, err)
	saved, err = appwritecli.LoadPreferences(prefs)
	require.NoError(t, err)
	assert.Empty(t, saved.Endpoint())
	assert.Empty(t, saved.Key())
}
