package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/harrisonrobin/systasks/pkg/app"
	"github.com/harrisonrobin/systasks/pkg/model"
)

func sampleResult() *app.Result {
	saved := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	return &app.Result{
		Origin:  app.Cached,
		SavedAt: saved,
		Tasks: []model.Task{
			{ID: "plants", Name: "Plantes", Category: "🌿 Maison", Next: saved, Days: 0},
		},
	}
}

func TestWriteTasksJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTasks(&buf, "json", sampleResult()))

	var got listing
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "cached", got.Source)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "Plantes", got.Tasks[0].Name)
}

func TestWriteTasksYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeTasks(&buf, "yaml", sampleResult()))
	assert.Contains(t, buf.String(), "source: cached")

	var got listing
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "plants", got.Tasks[0].ID)
	assert.True(t, got.Tasks[0].Next.Equal(sampleResult().SavedAt))
}

func TestWriteTasksUnknownFormat(t *testing.T) {
	assert.Error(t, writeTasks(&bytes.Buffer{}, "toml", sampleResult()))
}

func TestMask(t *testing.T) {
	assert.Equal(t, "****", mask("abcd"))
	assert.Equal(t, "secr*******1234", mask("secret_abcd1234"))
}
