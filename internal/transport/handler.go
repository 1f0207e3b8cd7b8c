package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/codec"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/config"
	apperrors "github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/errors"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/logger"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/observer"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/internal/service"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/pkg/models"
	"github.com/FACON-Nicolas/Sprite-Sheet-Splitter/pkg/validation"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	imageField      = "image"
)

// NewHandler builds the HTTP API. metrics may be nil.
func NewHandler(svc service.SpriteService, cfg *config.Config, metrics *observer.MetricsObserver) http.Handler {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck(metrics))

	v1 := r.Group("/v1")
	v1.POST("/detect", detect(svc, cfg))
	v1.POST("/extract", extract(svc, cfg))
	v1.POST("/split", split(svc, cfg))
	v1.POST("/preview", previewSheet(svc, cfg))

	return r
}

func detect(svc service.SpriteService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.SheetRequest
		if err := bind(c, &req); err != nil {
			respondError(c, err)
			return
		}
		src, err := sheetSource(c, svc, req)
		if err != nil {
			respondError(c, err)
			return
		}

		resp, err := svc.Detect(ctx, src)
		if err != nil {
			respondError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			requestIDKey: c.GetString(requestIDKey),
			"source":     resp.Source,
			"regions":    len(resp.Regions),
		}).Info("Sprite detection completed")
		c.JSON(http.StatusOK, resp)
	}
}

func extract(svc service.SpriteService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.ExtractRequest
		if err := bind(c, &req); err != nil {
			respondError(c, err)
			return
		}
		src, err := sheetSource(c, svc, req.SheetRequest)
		if err != nil {
			respondError(c, err)
			return
		}

		resp, err := svc.Extract(ctx, src, service.SaveOptions{Save: req.Save, Base: req.Base, Ext: req.Ext})
		if err != nil {
			respondError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			requestIDKey: c.GetString(requestIDKey),
			"source":     resp.Source,
			"regions":    len(resp.Regions),
			"saved":      len(resp.Saved),
		}).Info("Sprite extraction completed")
		c.JSON(http.StatusOK, resp)
	}
}

func split(svc service.SpriteService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.SplitRequest
		if err := bind(c, &req); err != nil {
			respondError(c, err)
			return
		}

		splitCfg, err := validation.SplitParams{
			Rows:    req.Rows,
			Columns: req.Columns,
			Left:    req.Left,
			Right:   req.Right,
			Top:     req.Top,
			Bottom:  req.Bottom,
		}.Config()
		if err != nil {
			respondError(c, err)
			return
		}

		src, err := sheetSource(c, svc, req.SheetRequest)
		if err != nil {
			respondError(c, err)
			return
		}

		resp, err := svc.Split(ctx, src, splitCfg, service.SaveOptions{Save: req.Save, Base: req.Base, Ext: req.Ext})
		if err != nil {
			respondError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			requestIDKey: c.GetString(requestIDKey),
			"source":     resp.Source,
			"strategy":   resp.Strategy,
			"cells":      len(resp.Cells),
			"saved":      len(resp.Saved),
		}).Info("Sprite split completed")
		c.JSON(http.StatusOK, resp)
	}
}

func previewSheet(svc service.SpriteService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req models.PreviewRequest
		if err := bind(c, &req); err != nil {
			respondError(c, err)
			return
		}
		src, err := sheetSource(c, svc, req.SheetRequest)
		if err != nil {
			respondError(c, err)
			return
		}

		data, err := svc.Preview(ctx, src, req.MaxWidth, req.MaxHeight)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, codec.PNG.ContentType(), data)
	}
}

func healthCheck(metrics *observer.MetricsObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":  "available",
			"version": "1.0.0",
			"time":    time.Now().UTC().Format(time.RFC3339),
		}
		if metrics != nil {
			body["metrics"] = metrics.Metrics()
		}
		c.JSON(http.StatusOK, body)
	}
}

// bind reads JSON, urlencoded or multipart bodies by content type
func bind(c *gin.Context, dst interface{}) error {
	if c.Request.ContentLength == 0 && c.ContentType() == "" {
		return nil
	}
	if err := c.ShouldBind(dst); err != nil {
		return apperrors.NewValidationError("invalid request format", err)
	}
	return nil
}

// sheetSource prefers an uploaded "image" file over a URL. URLs are
// validated before the service is called.
func sheetSource(c *gin.Context, svc service.SpriteService, req models.SheetRequest) (service.Source, error) {
	if strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm) {
		header, err := c.FormFile(imageField)
		if err == nil {
			f, err := header.Open()
			if err != nil {
				return service.Source{}, apperrors.NewValidationError("failed to read uploaded image", err)
			}
			defer f.Close()

			img, _, err := codec.Decode(f)
			if err != nil {
				return service.Source{}, apperrors.NewDecodeError("uploaded file is not a supported image", err)
			}
			return service.Source{Image: img, Name: header.Filename}, nil
		}
		if !errors.Is(err, http.ErrMissingFile) {
			return service.Source{}, apperrors.NewValidationError("invalid multipart form", err)
		}
	}

	if strings.TrimSpace(req.URL) == "" {
		return service.Source{}, apperrors.NewValidationError("either an image file or a url is required", nil)
	}
	if err := svc.ValidateSheetURL(req.URL); err != nil {
		return service.Source{}, err
	}
	return service.Source{URL: req.URL}, nil
}

// Middleware and helper functions
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			requestIDKey:         c.GetString(requestIDKey),
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			"status":             c.Writer.Status(),
			"ip":                 c.ClientIP(),
			"user_agent":         c.Request.UserAgent(),
			"processing_time_ms": time.Since(start).Milliseconds(),
		}).Debug("Request handled")
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
			respondError(c, c.Errors.Last().Err)
		}
	}
}

func determineStatusCode(err error) int {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return http.StatusRequestEntityTooLarge
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	code := determineStatusCode(err)

	resp := models.ErrorResponse{
		Error:     http.StatusText(code),
		Message:   err.Error(),
		RequestID: c.GetString(requestIDKey),
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Type = string(appErr.Type)
		resp.Message = appErr.Message
		if appErr.Cause != nil {
			resp.Message = fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
	}

	entry := logger.WithError(err).WithFields(logrus.Fields{
		requestIDKey:  resp.RequestID,
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	c.AbortWithStatusJSON(code, resp)
}
