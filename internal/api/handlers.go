package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"accentdetector/internal/logger"
	"accentdetector/internal/media"
	"accentdetector/internal/metrics"
	"accentdetector/internal/pipeline"
	"accentdetector/internal/utils"
)

// Detector is the part of the pipeline the HTTP layer needs.
type Detector interface {
	DetectUpload(ctx context.Context, filename string, body io.Reader) (*pipeline.Outcome, error)
	DetectURL(ctx context.Context, rawURL string) (*pipeline.Outcome, error)
}

// Options configures the router. Zero values disable the optional parts.
type Options struct {
	MaxUploadBytes int64
	STTProvider    string
	StaticDir      string
	Logger         *logger.Logger
	Metrics        *metrics.Recorder
}

var allowedExts = []string{".mp4", ".mov", ".avi", ".mkv", ".webm", ".m4v"}

type handler struct {
	detector       Detector
	maxUploadBytes int64
	sttProvider    string
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(detector Detector, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))
	r.Use(corsMiddleware())

	RegisterRoutes(r, detector, opts)
	return r
}

func RegisterRoutes(r *gin.Engine, detector Detector, opts Options) {
	h := &handler{
		detector:       detector,
		maxUploadBytes: opts.MaxUploadBytes,
		sttProvider:    opts.STTProvider,
	}

	r.GET("/health", h.healthCheck)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	r.POST("/detect-accent/", h.detectAccent)
	r.POST("/detect-accent-url/", h.detectAccentURL)

	// The UI is served from whatever is left over, so it never shadows the API.
	if opts.StaticDir != "" {
		files := http.FileServer(http.Dir(opts.StaticDir))
		r.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				utils.Error(c, http.StatusNotFound, "not found")
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
	}
}

// healthCheck returns server health status
func (h *handler) healthCheck(c *gin.Context) {
	utils.Success(c, gin.H{
		"status":       "ok",
		"service":      "accent-detector",
		"stt_provider": h.sttProvider,
	})
}

// detectAccent handles a video upload in the "video" form field
func (h *handler) detectAccent(c *gin.Context) {
	log := requestLog(c).WithField("component", "upload")

	if h.maxUploadBytes > 0 {
		// Multipart framing adds a little on top of the file itself.
		if c.Request.ContentLength > h.maxUploadBytes+(1<<20) {
			utils.Error(c, http.StatusBadRequest, fmt.Sprintf("file size exceeds %dMB limit", h.maxUploadBytes>>20))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+(1<<20))
	}

	file, err := c.FormFile("video")
	if err != nil {
		// Some clients send the generic field name
		if file, err = c.FormFile("file"); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				utils.Error(c, http.StatusBadRequest, fmt.Sprintf("file size exceeds %dMB limit", h.maxUploadBytes>>20))
				return
			}
			log.WithError(err).Warn("missing upload")
			utils.Error(c, http.StatusBadRequest, "video file is required")
			return
		}
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExt(ext) {
		utils.Error(c, http.StatusBadRequest, "unsupported video format. Supported: mp4, mov, avi, mkv, webm, m4v")
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		utils.Error(c, http.StatusBadRequest, fmt.Sprintf("file size exceeds %dMB limit", h.maxUploadBytes>>20))
		return
	}

	src, err := file.Open()
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "Failed to save upload: "+err.Error())
		return
	}
	defer src.Close()

	log.WithFields(logrus.Fields{"filename": file.Filename, "size": file.Size}).Info("upload received")
	outcome, err := h.detector.DetectUpload(c.Request.Context(), file.Filename, src)
	h.respond(c, outcome, err)
}

// URLRequest is the body of POST /detect-accent-url/
type URLRequest struct {
	URL string `json:"url" binding:"required"`
}

// detectAccentURL handles a public video or YouTube link
func (h *handler) detectAccentURL(c *gin.Context) {
	var req URLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "url is required")
		return
	}

	requestLog(c).WithField("url", req.URL).Info("url received")
	outcome, err := h.detector.DetectURL(c.Request.Context(), req.URL)
	h.respond(c, outcome, err)
}

// respond maps a pipeline result onto the HTTP contract: judgment on
// success, 400 with the fixed payload for short uploads, {"error"} otherwise.
func (h *handler) respond(c *gin.Context, outcome *pipeline.Outcome, err error) {
	if err != nil {
		_ = c.Error(err)
		var stageErr *pipeline.StageError
		switch {
		case errors.As(err, &stageErr):
			utils.Error(c, http.StatusInternalServerError, stageErr.Error())
		case errors.Is(err, media.ErrInvalidURL):
			utils.Error(c, http.StatusBadRequest, err.Error())
		default:
			utils.Error(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	if outcome.Insufficient {
		c.JSON(http.StatusBadRequest, outcome.Judgment)
		return
	}
	utils.Success(c, outcome.Judgment)
}

func allowedExt(ext string) bool {
	for _, allowed := range allowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}
