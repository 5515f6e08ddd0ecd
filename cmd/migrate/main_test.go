package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionAndName(t *testing.T) {
	ver, name, err := parseVersionAndName("002_create_duty_entries.up.sql")
	require.NoError(t, err)
	assert.Equal(t, 2, ver)
	assert.Equal(t, "create_duty_entries", name)

	_, name, err = parseVersionAndName("010_seed.down.sql")
	require.NoError(t, err)
	assert.Equal(t, "seed", name)

	_, _, err = parseVersionAndName("readme.sql")
	assert.Error(t, err)
	_, _, err = parseVersionAndName("v1_x.sql")
	assert.Error(t, err)
}

func TestLoadMigrationFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"002_b.down.sql", "002_b.up.sql", "001_a.up.sql", "001_a.down.sql", "notes.txt", "x_y.sql",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644))
	}

	files, err := loadMigrationFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 4)

	assert.Equal(t, 1, files[0].version)
	assert.Equal(t, "up", files[0].kind)
	assert.Equal(t, "down", files[1].kind)
	assert.Equal(t, 2, files[2].version)
	assert.Equal(t, "up", files[2].kind)
}

func TestLoadMigrationFiles_Repo(t *testing.T) {
	files, err := loadMigrationFiles(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, f := range files {
		if f.kind == "up" {
			ups++
		} else {
			downs++
		}
	}
	assert.Equal(t, ups, downs, "every migration needs a down file")
	assert.NotZero(t, ups)
}
