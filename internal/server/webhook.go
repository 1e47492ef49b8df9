// Package server exposes the webhook intake over HTTP.
//
// The provider posts form-encoded messages; the handler parses them into an
// InboundSubmission, runs the pipeline and always answers 200. The
// user-visible outcome travels through the notifier, not the webhook
// response.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/cv-intake/internal/entity"
	"github.com/joseph-ayodele/cv-intake/internal/pipeline"
)

const serviceVersion = "1.0.0"

// Server wires the intake routes to the pipeline processor.
type Server struct {
	processor *pipeline.Processor
	logger    *slog.Logger
}

func New(processor *pipeline.Processor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{processor: processor, logger: logger}
}

// Router builds the gin engine with the webhook and health routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.POST("/webhook", s.handleWebhook)
	r.GET("/health", s.handleHealth)
	return r
}

func (s *Server) handleWebhook(c *gin.Context) {
	sub := parseSubmission(c)
	if sub.From == "" {
		s.logger.Warn("webhook.no_sender")
		c.JSON(http.StatusOK, gin.H{"status": "no_data"})
		return
	}

	s.logger.Info("webhook.received",
		"submission_id", sub.SubmissionID,
		"from", sub.From,
		"attachments", len(sub.Attachments),
	)

	res := s.processor.Run(c.Request.Context(), sub)
	c.JSON(http.StatusOK, gin.H{
		"status":        string(res.Status),
		"submission_id": sub.SubmissionID,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cv-intake",
		"version": serviceVersion,
	})
}

// parseSubmission maps the provider's form fields (From, Body, NumMedia,
// MediaUrlN, MediaContentTypeN) onto an InboundSubmission.
func parseSubmission(c *gin.Context) entity.InboundSubmission {
	sub := entity.InboundSubmission{
		SubmissionID: uuid.New().String(),
		From:         c.PostForm("From"),
		Body:         c.PostForm("Body"),
		ReceivedAt:   time.Now().UTC(),
	}

	numMedia, _ := strconv.Atoi(c.DefaultPostForm("NumMedia", "0"))
	for i := 0; i < numMedia; i++ {
		url := c.PostForm(fmt.Sprintf("MediaUrl%d", i))
		if url == "" {
			continue
		}
		sub.Attachments = append(sub.Attachments, entity.AttachmentRef{
			URL:         url,
			ContentType: c.PostForm(fmt.Sprintf("MediaContentType%d", i)),
		})
	}
	return sub
}
