package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spellbook/spellbook/internal/audio"
	"github.com/spellbook/spellbook/internal/database/wordbooks"
	"github.com/spellbook/spellbook/internal/database/words"
	"github.com/spellbook/spellbook/internal/entities"
)

// WordStore defines database operations for word management.
type WordStore interface {
	Add(word *entities.Word) (bool, error)
	AddBatch(words []entities.Word) (int, error)
	GetByID(id uint) (*entities.Word, error)
	ListByWordbook(wordbookID uint) ([]entities.Word, error)
	ListByIDs(ids []uint) ([]entities.Word, error)
	Search(query string, limit int) ([]entities.Word, error)
	UpdateAudioURL(id uint, accent, url string) error
	Delete(id uint) error
}

// WordbookAccess is the slice of the wordbook store the words controller
// needs for visibility checks and counter upkeep.
type WordbookAccess interface {
	GetVisible(id, userID uint) (*entities.Wordbook, error)
	GetOwned(id, userID uint) (*entities.Wordbook, error)
	RecountWords(wordbookID uint) (int64, error)
}

type WordsController struct {
	store       WordStore
	wordbooks   WordbookAccess
	audioClient *audio.Client
}

func NewWordsController(store WordStore, wordbookStore WordbookAccess, audioClient *audio.Client) *WordsController {
	return &WordsController{
		store:       store,
		wordbooks:   wordbookStore,
		audioClient: audioClient,
	}
}

// AddWordRequest is the request body for adding a word.
type AddWordRequest struct {
	Word            string `json:"word"`
	WordbookID      uint   `json:"wordbook_id"`
	Definition      string `json:"definition,omitempty"`
	ExampleSentence string `json:"example_sentence,omitempty"`
	PronunciationUS string `json:"pronunciation_us,omitempty"`
}

// BatchAddRequest is the request body for bulk word insertion.
type BatchAddRequest struct {
	WordbookID uint             `json:"wordbook_id"`
	Words      []AddWordRequest `json:"words"`
}

// List returns a wordbook's words.
// GET /api/words?wordbook_id=N
func (wc *WordsController) List(c *gin.Context) {
	wordbookID, ok := parseQueryID(c, "wordbook_id")
	if !ok {
		return
	}
	if _, err := wc.wordbooks.GetVisible(wordbookID, GetUserID(c)); err != nil {
		if errors.Is(err, wordbooks.ErrNotFound) {
			respondNotFound(c, "wordbook")
			return
		}
		respondInternalError(c, err, "get wordbook")
		return
	}

	list, err := wc.store.ListByWordbook(wordbookID)
	if err != nil {
		respondInternalError(c, err, "list words")
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": list})
}

// Add inserts one word into an owned wordbook.
// POST /api/words
func (wc *WordsController) Add(c *gin.Context) {
	var req AddWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Word) == "" {
		respondBadRequest(c, "word is required")
		return
	}
	if req.WordbookID == 0 {
		respondBadRequest(c, "wordbook_id is required")
		return
	}
	if _, err := wc.wordbooks.GetOwned(req.WordbookID, GetUserID(c)); err != nil {
		if errors.Is(err, wordbooks.ErrNotFound) {
			respondNotFound(c, "wordbook")
			return
		}
		respondInternalError(c, err, "get wordbook")
		return
	}

	word := entities.Word{
		Word:            req.Word,
		WordbookID:      req.WordbookID,
		Definition:      req.Definition,
		ExampleSentence: req.ExampleSentence,
		PronunciationUS: req.PronunciationUS,
	}
	created, err := wc.store.Add(&word)
	if err != nil {
		respondInternalError(c, err, "add word")
		return
	}
	if _, err := wc.wordbooks.RecountWords(req.WordbookID); err != nil {
		respondInternalError(c, err, "recount words")
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "word already exists", "word": word.Word})
		return
	}
	respondCreated(c, word)
}

// BatchAdd inserts many words into an owned wordbook, skipping duplicates.
// POST /api/words/batch
func (wc *WordsController) BatchAdd(c *gin.Context) {
	var req BatchAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.WordbookID == 0 {
		respondBadRequest(c, "wordbook_id is required")
		return
	}
	if len(req.Words) == 0 {
		respondBadRequest(c, "words are required")
		return
	}
	if _, err := wc.wordbooks.GetOwned(req.WordbookID, GetUserID(c)); err != nil {
		if errors.Is(err, wordbooks.ErrNotFound) {
			respondNotFound(c, "wordbook")
			return
		}
		respondInternalError(c, err, "get wordbook")
		return
	}

	batch := make([]entities.Word, 0, len(req.Words))
	for _, w := range req.Words {
		if strings.TrimSpace(w.Word) == "" {
			continue
		}
		batch = append(batch, entities.Word{
			Word:            w.Word,
			WordbookID:      req.WordbookID,
			Definition:      w.Definition,
			ExampleSentence: w.ExampleSentence,
			PronunciationUS: w.PronunciationUS,
		})
	}
	inserted, err := wc.store.AddBatch(batch)
	if err != nil {
		respondInternalError(c, err, "batch add words")
		return
	}
	total, err := wc.wordbooks.RecountWords(req.WordbookID)
	if err != nil {
		respondInternalError(c, err, "recount words")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inserted":    inserted,
		"skipped":     len(batch) - inserted,
		"total_words": total,
	})
}

// AudioURL returns the remote pronunciation URL for a word.
// GET /api/words/:id/audio?accent=us|uk
func (wc *WordsController) AudioURL(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	accent := c.DefaultQuery("accent", audio.AccentUS)
	if !audio.ValidAccent(accent) {
		respondBadRequest(c, "invalid accent, expected us or uk")
		return
	}

	word, err := wc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, words.ErrNotFound) {
			respondNotFound(c, "word")
			return
		}
		respondInternalError(c, err, "get word")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"word":   word.Word,
		"accent": accent,
		"url":    wc.audioClient.SourceURL(word.Word, accent),
	})
}

// DownloadAudio fetches the pronunciation mp3 into the audio directory and
// stores its public path on the word.
// POST /api/words/:id/download-audio
func (wc *WordsController) DownloadAudio(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req DownloadAudioRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Accent == "" {
		req.Accent = audio.AccentUS
	}
	if !audio.ValidAccent(req.Accent) {
		respondBadRequest(c, "invalid accent, expected us or uk")
		return
	}

	word, err := wc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, words.ErrNotFound) {
			respondNotFound(c, "word")
			return
		}
		respondInternalError(c, err, "get word")
		return
	}

	url, err := wc.audioClient.Download(c.Request.Context(), word.Word, req.Accent)
	if err != nil {
		respondInternalError(c, err, "download audio")
		return
	}
	if err := wc.store.UpdateAudioURL(id, req.Accent, url); err != nil {
		respondInternalError(c, err, "save audio url")
		return
	}

	c.JSON(http.StatusOK, gin.H{"word": word.Word, "accent": req.Accent, "url": url})
}

// Delete removes a word.
// DELETE /api/words/:id
func (wc *WordsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	word, err := wc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, words.ErrNotFound) {
			respondNotFound(c, "word")
			return
		}
		respondInternalError(c, err, "get word")
		return
	}
	if err := wc.store.Delete(id); err != nil {
		if errors.Is(err, words.ErrNotFound) {
			respondNotFound(c, "word")
			return
		}
		respondInternalError(c, err, "delete word")
		return
	}
	if _, err := wc.wordbooks.RecountWords(word.WordbookID); err != nil {
		respondInternalError(c, err, "recount words")
		return
	}
	respondSuccess(c, "word deleted")
}

// Search finds words by substring match.
// GET /api/words/search/:query
func (wc *WordsController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Param("query"))
	if query == "" {
		respondBadRequest(c, "query is required")
		return
	}
	limit := queryInt(c, "limit", 50, 200)

	list, err := wc.store.Search(query, limit)
	if err != nil {
		respondInternalError(c, err, "search words")
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": list, "query": query})
}
