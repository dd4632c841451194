package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lingo/internal/content"
	"github.com/mrlokans/lingo/internal/services"
)

// ContentController serves the read-only content library. Exercise
// solutions are never included.
type ContentController struct {
	library services.LibrarySource
}

func NewContentController(library services.LibrarySource) *ContentController {
	return &ContentController{library: library}
}

// LanguageInfo summarises a language of the library.
type LanguageInfo struct {
	Code    string   `json:"code"`
	Modules int      `json:"modules"`
	Topics  []string `json:"topics"`
}

// Languages handles GET /api/v1/languages
func (cc *ContentController) Languages(c *gin.Context) {
	lib := cc.library.Current()
	languages := make([]LanguageInfo, 0)
	for _, code := range lib.Languages() {
		metas, err := lib.Modules(code)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		languages = append(languages, LanguageInfo{Code: code, Modules: len(metas), Topics: lib.Topics(code)})
	}
	c.JSON(http.StatusOK, gin.H{"languages": languages})
}

// Modules handles GET /api/v1/languages/:lang/modules
func (cc *ContentController) Modules(c *gin.Context) {
	metas, err := cc.library.Current().Modules(c.Param("lang"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"modules": metas})
}

// Module handles GET /api/v1/languages/:lang/modules/:module
func (cc *ContentController) Module(c *gin.Context) {
	module, err := cc.library.Current().Module(c.Param("lang"), c.Param("module"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	for i := range module.Units {
		hideSolutions(module.Units[i].Exercises)
	}
	c.JSON(http.StatusOK, module)
}

// Unit handles GET /api/v1/languages/:lang/modules/:module/units/:unit
func (cc *ContentController) Unit(c *gin.Context) {
	unit, err := cc.library.Current().Unit(c.Param("lang"), c.Param("module"), c.Param("unit"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	hideSolutions(unit.Exercises)
	c.JSON(http.StatusOK, unit)
}

// Exercises handles GET /api/v1/languages/:lang/modules/:module/units/:unit/exercises
func (cc *ContentController) Exercises(c *gin.Context) {
	exercises, err := cc.library.Current().Exercises(c.Param("lang"), c.Param("module"), c.Param("unit"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	hideSolutions(exercises)
	c.JSON(http.StatusOK, gin.H{"exercises": exercises})
}

// hideSolutions strips answers in place. The library hands out copies.
func hideSolutions(exercises []content.Exercise) {
	for i := range exercises {
		exercises[i] = exercises[i].WithoutSolution()
	}
}
