package controller

import (
	"errors"
	"net/http"
	"strings"

	"namestat/internal/model/naming"
	"namestat/internal/service/grammar"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RepoController struct {
	processor *RepoProcessor
	tagger    grammar.Tagger
	defaults  ScanOptions
	logger    *zap.Logger
}

func NewRepoController(processor *RepoProcessor, tagger grammar.Tagger, defaults ScanOptions, logger *zap.Logger) *RepoController {
	return &RepoController{
		processor: processor,
		tagger:    tagger,
		defaults:  defaults,
		logger:    logger,
	}
}

type ReportRequest struct {
	Paths []string `json:"paths" binding:"required,min=1"`
	Words string   `json:"words"`
	Names string   `json:"names"`
	Order string   `json:"order"`
	Top   int      `json:"top"`
}

// Tag returns the part-of-speech tag of a single word. Used by remote taggers.
func (rc *RepoController) Tag(c *gin.Context) {
	word := strings.ToLower(strings.TrimSpace(c.Param("word")))
	if word == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "word is required"})
		return
	}

	tag, err := rc.tagger.Tag(c.Request.Context(), word)
	if err != nil {
		rc.logger.Error("Failed to tag word", zap.String("word", word), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to tag word",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, grammar.TagResponse{Word: word, Tag: tag})
}

func (rc *RepoController) Report(c *gin.Context) {
	var request ReportRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		rc.logger.Error("Invalid request payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	opts, err := rc.defaults.Override(request.Words, request.Names, request.Order, request.Top)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid report options",
			"details": err.Error(),
		})
		return
	}

	rc.logger.Info("Generating naming report",
		zap.Strings("paths", request.Paths),
		zap.String("words", opts.Category.String()),
		zap.String("names", opts.Kind.String()))

	report, err := rc.processor.ProcessPaths(c.Request.Context(), request.Paths, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, naming.ErrConfiguration) {
			status = http.StatusBadRequest
		}
		rc.logger.Error("Failed to generate report", zap.Error(err))
		c.JSON(status, gin.H{
			"error":   "Failed to generate report",
			"details": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, report)
}
