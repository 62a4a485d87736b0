package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashviews/dashviews-cli/pkg/models"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	oldWd, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(oldWd) })
	require.NoError(t, os.Chdir(tempDir))
	return tempDir
}

func TestInitProjectStructure(t *testing.T) {
	chdirTemp(t)

	err := InitProjectStructure()
	if err != nil {
		t.Fatalf("InitProjectStructure failed: %v", err)
	}

	expected := []string{
		DashviewsDir,
		filepath.Join(DashviewsDir, ExportsDir),
		SettingsPath(),
		filepath.Join(DashviewsDir, GroupsFileName),
	}

	for _, path := range expected {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Expected %s does not exist", path)
		}
	}
}

func TestInitProjectStructureKeepsExistingSettings(t *testing.T) {
	chdirTemp(t)

	settings := models.DefaultSettings()
	settings.Server.User = "alice"
	require.NoError(t, WriteSettings(settings))

	require.NoError(t, InitProjectStructure())

	got, err := ReadSettings()
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Server.User)
}

func TestReadSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, s *models.Settings)
		wantErr bool
	}{
		{
			name: "missing file gives defaults",
			check: func(t *testing.T, s *models.Settings) {
				assert.Equal(t, models.DefaultSettings(), s)
			},
		},
		{
			name:    "partial file keeps other defaults",
			content: "server:\n  user: bob\n",
			check: func(t *testing.T, s *models.Settings) {
				assert.Equal(t, "bob", s.Server.User)
				assert.Equal(t, models.DefaultSettings().Server.URL, s.Server.URL)
				assert.Equal(t, models.DefaultSettings().Log.Level, s.Log.Level)
			},
		},
		{
			name:    "invalid yaml",
			content: "server: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			if tt.content != "" {
				require.NoError(t, WriteFile(SettingsPath(), []byte(tt.content)))
			}

			s, err := ReadSettings()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvServer, "http://ci:9000")
	t.Setenv(EnvUser, "ci-bot")
	t.Setenv(EnvTimeout, "not-a-number")
	t.Setenv(EnvLogLevel, "debug")

	s := models.DefaultSettings()
	ApplyEnv(s)

	assert.Equal(t, "http://ci:9000", s.Server.URL)
	assert.Equal(t, "ci-bot", s.Server.User)
	assert.Equal(t, models.DefaultSettings().Server.TimeoutSeconds, s.Server.TimeoutSeconds)
	assert.Equal(t, "debug", s.Log.Level)
}

func TestGroupsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "groups.yaml")

	src := GroupsFile{Path: path}
	_, err := src.PipelineGroups(context.Background())
	assert.Error(t, err, "missing file")

	require.NoError(t, WriteGroups(path, []models.PipelineGroup{{Name: "build", Pipelines: []string{"compile"}}}))
	groups, err := src.PipelineGroups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.PipelineGroup{{Name: "build", Pipelines: []string{"compile"}}}, groups)

	// edits are visible on the next call
	require.NoError(t, WriteFile(path, []byte("groups:\n  - name: deploy\n")))
	groups, err = src.PipelineGroups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.PipelineGroup{{Name: "deploy", Pipelines: []string{}}}, groups)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.PipelineGroups(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadGroupsRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"no name":   "groups:\n  - pipelines: [a]\n",
		"duplicate": "groups:\n  - name: a\n  - name: a\n",
		"bad yaml":  "groups: {",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, WriteFile(path, []byte(content)))
			_, err := ReadGroups(path)
			assert.Error(t, err)
		})
	}
}

func TestReadViews(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "views.yaml")

	doc := ViewsDocument{User: "alice", Views: []models.View{
		models.DefaultView(),
		{Name: "Sprint", Type: models.ViewTypeInclude, PipelineGroups: []string{"build"}},
	}}
	content, err := MarshalViews(doc)
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, content))

	got, err := ReadViews(path)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.User)
	assert.Equal(t, []string{"Default", "Sprint"}, models.ViewNames(got.Views))

	require.NoError(t, WriteFile(path, []byte("views:\n  - name: a\n    type: blacklist\n  - name: A\n    type: blacklist\n")))
	_, err = ReadViews(path)
	assert.ErrorIs(t, err, models.ErrDuplicateViewName)
}
