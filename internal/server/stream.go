package server

import (
	"bytes"
	"fmt"
	"image"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
)

// PreviewQuality is the JPEG quality of preview frames.
const PreviewQuality = 80

// StreamHandler serves annotated frames as JPEG images.
type StreamHandler struct {
	source Source
	width  int
}

// NewStreamHandler creates a StreamHandler that downscales frames wider
// than width.
func NewStreamHandler(source Source, width int) *StreamHandler {
	return &StreamHandler{source: source, width: width}
}

// Stream serves GET /api/stream as multipart MJPEG, one part per published
// frame. The optional frames query parameter ends the stream after that
// many parts.
func (h *StreamHandler) Stream(c *gin.Context) {
	limit := 0
	if v := c.Query("frames"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "frames must be a positive integer"})
			return
		}
		limit = n
	}

	snapshots, cancel := h.source.Subscribe()
	defer cancel()

	w := c.Writer
	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sent := 0
	for {
		select {
		case <-c.Request.Context().Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			if snap.Frame == nil {
				continue
			}

			buf, err := h.encode(snap.Frame)
			if err != nil {
				continue
			}

			fmt.Fprintf(w, "--frame\r\n")
			fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
			fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
			w.Write(buf.Bytes())
			fmt.Fprintf(w, "\r\n")
			w.Flush()

			sent++
			if limit > 0 && sent >= limit {
				return
			}
		}
	}
}

// Snapshot serves GET /api/snapshot.jpg with the latest annotated frame.
func (h *StreamHandler) Snapshot(c *gin.Context) {
	snap, ok := h.source.Latest()
	if !ok || snap.Frame == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "no frame processed yet"})
		return
	}

	buf, err := h.encode(snap.Frame)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to encode frame"})
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
}

// encode downscales img to the preview width, keeping its aspect ratio,
// and encodes it as JPEG.
func (h *StreamHandler) encode(img image.Image) (*bytes.Buffer, error) {
	if h.width > 0 && img.Bounds().Dx() > h.width {
		img = imaging.Resize(img, h.width, 0, imaging.Linear)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(PreviewQuality)); err != nil {
		return nil, err
	}
	return &buf, nil
}
