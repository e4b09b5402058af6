package tasks

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tasks.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	assert.NoError(t, client.Close())
}

func TestClientStartStop(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tasks.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	client.Register(NewDownloadWordbookAudioQueue(nil, nil))

	ctx, cancel := context.WithCancel(context.Background())
	go client.Start(ctx)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	assert.True(t, client.Stop(stopCtx))
	cancel()
}

func TestAddTask(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "tasks.db")

	client, err := NewClient(dbPath, DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	client.Register(NewDownloadWordbookAudioQueue(nil, nil))

	ids, err := client.Add(DownloadWordbookAudioTask{WordbookID: 1, Accent: "us"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}
