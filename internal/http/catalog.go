package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/spellbook/spellbook/internal/catalog"
)

// CatalogController seeds the built-in system wordbooks on demand. Seeding
// is idempotent, so repeated calls only top up missing words.
type CatalogController struct {
	db *gorm.DB
}

func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{db: db}
}

// Seed creates the system wordbook for the catalog named in the path.
// POST /api/catalog/:key
func (cc *CatalogController) Seed(c *gin.Context) {
	key := c.Param("key")
	wordbookID, inserted, err := catalog.Seed(cc.db, key)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownCatalog) {
			respondNotFound(c, "catalog")
			return
		}
		respondInternalError(c, err, "seed catalog")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"catalog":     key,
		"wordbook_id": wordbookID,
		"inserted":    inserted,
	})
}
