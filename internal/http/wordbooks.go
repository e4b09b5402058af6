package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spellbook/spellbook/internal/audio"
	"github.com/spellbook/spellbook/internal/database/wordbooks"
	"github.com/spellbook/spellbook/internal/entities"
	"github.com/spellbook/spellbook/internal/importers"
	"github.com/spellbook/spellbook/internal/tasks"
)

// WordbookStore defines database operations for wordbook management.
type WordbookStore interface {
	Create(name, description string, userID uint) (*entities.Wordbook, error)
	ListVisible(userID uint) ([]entities.Wordbook, error)
	GetVisible(id, userID uint) (*entities.Wordbook, error)
	GetOwned(id, userID uint) (*entities.Wordbook, error)
	Delete(id uint) error
	WordsPage(wordbookID uint, page, limit int) ([]entities.Word, int64, error)
	RecountWords(wordbookID uint) (int64, error)
}

// WordBatchAdder inserts uploaded words, swallowing duplicates.
type WordBatchAdder interface {
	AddBatch(words []entities.Word) (int, error)
}

type WordbooksController struct {
	store      WordbookStore
	words      WordBatchAdder
	taskClient *tasks.Client
}

func NewWordbooksController(store WordbookStore, words WordBatchAdder, taskClient *tasks.Client) *WordbooksController {
	return &WordbooksController{
		store:      store,
		words:      words,
		taskClient: taskClient,
	}
}

// CreateWordbookRequest is the request body for creating a wordbook.
type CreateWordbookRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List returns system wordbooks plus the caller's own.
// GET /api/wordbooks
func (wc *WordbooksController) List(c *gin.Context) {
	books, err := wc.store.ListVisible(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list wordbooks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"wordbooks": books})
}

// Get returns one wordbook visible to the caller.
// GET /api/wordbooks/:id
func (wc *WordbooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	book, err := wc.store.GetVisible(id, GetUserID(c))
	if err != nil {
		if errors.Is(err, wordbooks.ErrNotFound) {
			respondNotFound(c, "wordbook")
			return
		}
		respondInternalError(c, err, "get wordbook")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Words returns one page of a wordbook's words.
// GET /api/wordbooks/:id/words
func (wc *WordbooksController) Words(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := wc.store.GetVisible(id, GetUserID(c)); err != nil {
		if errors.Is(err, wordbooks.ErrNotFound) {
			respondNotFound(c, "wordbook")
			return
		}
		respondInternalError(c, err, "get wordbook")
		return
	}

	page := queryInt(c, "page", 1, 0)
	limit := queryInt(c, "limit", 50, 200)
	words, total, err := wc.store.WordsPage(id, page, limit)
	if err != nil {
		respondInternalError(c, err, "list wordbook words")
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       words,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	})
}

// Create creates a user wordbook.
// POST /api/wordbooks
func (wc *WordbooksController) Create(c *gin.Context) {
	var req CreateWordbookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondBadRequest(c, "name is required")
		return
	}

	book, err := wc.store.Create(req.Name, req.Description, GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "create wordbook")
		return
	}
	respondCreated(c, book)
}

// Upload imports a CSV or XLSX word list into an owned wordbook.
// POST /api/wordbooks/:id/upload
func (wc *WordbooksController) Upload(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := wc.store.GetOwned(id, GetUserID(c)); err != nil {
		if errors.Is(err, wordbooks.ErrNotFound) {
			respondNotFound(c, "wordbook")
			return
		}
		respondInternalError(c, err, "get wordbook")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondBadRequest(c, "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondInternalError(c, err, "open upload")
		return
	}
	defer file.Close()

	var words []entities.Word
	var problems []string
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".xlsx":
		words, problems, err = importers.ParseXLSX(file)
	case ".csv", ".txt":
		words, problems, err = importers.ParseCSV(file)
	default:
		respondBadRequest(c, "unsupported file type, expected .csv or .xlsx")
		return
	}
	if err != nil {
		if errors.Is(err, importers.ErrMissingWordColumn) || errors.Is(err, importers.ErrEmptyFile) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "parse upload")
		return
	}

	for i := range words {
		words[i].WordbookID = id
	}
	inserted, err := wc.words.AddBatch(words)
	if err != nil {
		respondInternalError(c, err, "insert uploaded words")
		return
	}
	total, err := wc.store.RecountWords(id)
	if err != nil {
		respondInternalError(c, err, "recount words")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"imported":    inserted,
		"skipped":     len(words) - inserted,
		"total_words": total,
		"problems":    problems,
	})
}

// Delete removes an owned wordbook and its words.
// DELETE /api/wordbooks/:id
func (wc *WordbooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := wc.store.GetOwned(id, GetUserID(c)); err != nil {
		if errors.Is(err, wordbooks.ErrNotFound) {
			respondNotFound(c, "wordbook")
			return
		}
		respondInternalError(c, err, "get wordbook")
		return
	}
	if err := wc.store.Delete(id); err != nil {
		respondInternalError(c, err, "delete wordbook")
		return
	}
	respondSuccess(c, "wordbook deleted")
}

// DownloadAudioRequest selects the accent for a bulk audio download.
type DownloadAudioRequest struct {
	Accent string `json:"accent"`
}

// DownloadAudio enqueues a background task downloading pronunciation audio
// for every word in the wordbook.
// POST /api/wordbooks/:id/download-audio
func (wc *WordbooksController) DownloadAudio(c *gin.Context) {
	if wc.taskClient == nil {
		respondError(c, http.StatusServiceUnavailable, "task queue is disabled")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if _, err := wc.store.GetVisible(id, GetUserID(c)); err != nil {
		if errors.Is(err, wordbooks.ErrNotFound) {
			respondNotFound(c, "wordbook")
			return
		}
		respondInternalError(c, err, "get wordbook")
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

	task := tasks.DownloadWordbookAudioTask{WordbookID: id, Accent: req.Accent}
	if _, err := wc.taskClient.Add(task).Save(); err != nil {
		respondInternalError(c, err, "enqueue audio download")
		return
	}
	respondAccepted(c, "audio download queued", gin.H{"wordbook_id": id, "accent": req.Accent})
}
