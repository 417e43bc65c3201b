package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/AphiweJoko/AgriAssist/internal/config"
	apperrors "github.com/AphiweJoko/AgriAssist/internal/errors"
	"github.com/AphiweJoko/AgriAssist/internal/logger"
	"github.com/AphiweJoko/AgriAssist/internal/service"
	"github.com/AphiweJoko/AgriAssist/pkg/models"
	"github.com/AphiweJoko/AgriAssist/pkg/validation"
)

const (
	// Version is reported by the health endpoint
	Version = "1.0.0"

	frontendFile    = "frontend.html"
	requestIDHeader = "X-Request-ID"
	multipartMemory = 8 << 20
)

func NewHandler(svc service.AnalysisService, validator *validation.UploadValidator, cfg *config.Config) http.Handler {
	if logger.Logger.GetLevel() >= logrus.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(
		gin.Recovery(),
		requestID(),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:    []string{"Origin", "Content-Type", "Accept", requestIDHeader},
			ExposeHeaders:   []string{"Content-Length", requestIDHeader},
			MaxAge:          12 * time.Hour,
		}),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
		static.Serve("/", static.LocalFile(cfg.StaticDir, false)),
	)

	// Configure routes
	r.GET("/", frontend(cfg.StaticDir))
	r.GET("/health", healthCheck)
	r.POST("/analyze", analyze(svc, validator, cfg))
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	return r
}

func analyze(svc service.AnalysisService, validator *validation.UploadValidator, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		requestID := c.GetString(requestIDHeader)
		log := logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"ip":         c.ClientIP(),
		})
		log.Info("Processing analysis request")

		if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				respondError(c, http.StatusRequestEntityTooLarge, "request body too large", err)
				return
			}
			respondError(c, http.StatusBadRequest, "invalid multipart form", err)
			return
		}

		req := service.AnalysisRequest{
			RequestID: requestID,
			Text:      validation.NormalizeText(c.PostForm("voice_text")),
		}

		if fh, err := c.FormFile("image"); err == nil && fh.Size > 0 {
			data, err := readUpload(fh)
			if err != nil {
				respondError(c, http.StatusBadRequest, "could not read uploaded image", err)
				return
			}

			info := validator.Inspect(data)
			if !info.Supported {
				log.WithFields(logrus.Fields{
					"filename": filepath.Base(fh.Filename),
					"mime":     info.MIME,
				}).Warn("Upload is not a supported image format")
			}
			req.Image = data
			req.ImageName = validator.StagingName(fh.Filename, info)
		}

		result, err := svc.Analyze(ctx, req)
		if err != nil {
			if apperrors.IsType(err, apperrors.ErrorTypeValidation) && result != nil {
				log.WithError(err).Warn("Analysis request rejected")
				c.JSON(http.StatusBadRequest, toResponse(result))
				return
			}
			respondError(c, apperrors.GetStatusCode(err), "analysis failed", err)
			return
		}

		log.WithFields(logrus.Fields{
			"has_text":           result.TextAnalysis != nil,
			"has_image":          result.ImageAnalysis != nil,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Analysis completed successfully")

		c.JSON(http.StatusOK, toResponse(result))
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func toResponse(result *service.AnalysisResult) models.AnalyzeResponse {
	return models.AnalyzeResponse{
		Status:        string(result.Status),
		TextAnalysis:  result.TextAnalysis,
		ImageAnalysis: result.ImageAnalysis,
		Message:       result.Message,
	}
}

func frontend(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.File(filepath.Join(staticDir, frontendFile))
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   Version,
	})
}

// Middleware and helper functions
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"request_id":  c.GetString(requestIDHeader),
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
