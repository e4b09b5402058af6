package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/spellbook/spellbook/internal/entities"
)

// AudioStore is the slice of the word store the audio task needs.
type AudioStore interface {
	ListByWordbook(wordbookID uint) ([]entities.Word, error)
	UpdateAudioURL(id uint, accent, url string) error
}

// AudioDownloader fetches one word's pronunciation and returns its public
// audio path.
type AudioDownloader interface {
	Download(ctx context.Context, word, accent string) (string, error)
}

// DownloadWordbookAudioTask downloads pronunciation audio for every word in
// a wordbook.
type DownloadWordbookAudioTask struct {
	WordbookID uint   `json:"wordbook_id"`
	Accent     string `json:"accent"`
}

func (t DownloadWordbookAudioTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "download_wordbook_audio",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// DownloadWordbookAudioProcessor creates the processor for bulk audio
// downloads. Words that already have audio for the accent are skipped;
// individual download failures are logged and do not fail the task.
func DownloadWordbookAudioProcessor(store AudioStore, downloader AudioDownloader) backlite.QueueProcessor[DownloadWordbookAudioTask] {
	return func(ctx context.Context, task DownloadWordbookAudioTask) error {
		words, err := store.ListByWordbook(task.WordbookID)
		if err != nil {
			return fmt.Errorf("list words for wordbook %d: %w", task.WordbookID, err)
		}

		var downloaded, skipped, failed int
		for _, word := range words {
			select {
			case <-ctx.Done():
				log.Printf("[TASK] Context cancelled, downloaded %d, skipped %d, failed %d", downloaded, skipped, failed)
				return ctx.Err()
			default:
			}

			existing := word.AudioURLUS
			if task.Accent == "uk" {
				existing = word.AudioURLUK
			}
			if existing != "" {
				skipped++
				continue
			}

			url, err := downloader.Download(ctx, word.Word, task.Accent)
			if err != nil {
				log.Printf("[TASK] Failed to download audio for %q: %v", word.Word, err)
				failed++
				continue
			}
			if err := store.UpdateAudioURL(word.ID, task.Accent, url); err != nil {
				log.Printf("[TASK] Failed to save audio URL for %q: %v", word.Word, err)
				failed++
				continue
			}
			downloaded++
		}

		log.Printf("[TASK] Wordbook %d audio: %d downloaded, %d skipped, %d failed of %d words",
			task.WordbookID, downloaded, skipped, failed, len(words))
		return nil
	}
}

func NewDownloadWordbookAudioQueue(store AudioStore, downloader AudioDownloader) backlite.Queue {
	return backlite.NewQueue(DownloadWordbookAudioProcessor(store, downloader))
}
