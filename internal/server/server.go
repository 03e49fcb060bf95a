// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes conversion over HTTP. Clients upload a PDF as the
// multipart field "file" to POST /api/convert and receive the deck as an
// attachment named converted.pptx.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/pdf2deck/internal/convert"
	"github.com/pdiddy/pdf2deck/internal/deck"
	"github.com/pdiddy/pdf2deck/pkg/types"
)

const (
	// FormField is the multipart field carrying the upload.
	FormField = "file"
	// DownloadName is the filename offered for the converted deck.
	DownloadName = "converted.pptx"

	multipartMemory = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Converter converts a source file into a deck at out.
type Converter interface {
	Convert(ctx context.Context, src, out string) (convert.Result, error)
}

// Options configures the service.
type Options struct {
	// MaxUploadBytes caps the request body. Zero uses the default.
	MaxUploadBytes int64

	// Token, when set, must be presented as "Authorization: Bearer <token>".
	Token string

	// MaxConcurrent bounds simultaneous conversions; a valid upload that
	// arrives while every slot is taken gets 429 with Retry-After. Zero
	// uses the default batch job count.
	MaxConcurrent int

	Logger *slog.Logger
}

// Server handles conversion uploads.
type Server struct {
	conv Converter
	opts Options
	sem  chan struct{}
	log  *slog.Logger
}

// New returns a server that converts uploads with conv.
func New(conv Converter, opts Options) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = types.DefaultMaxUploadBytes
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = types.DefaultJobs
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{conv: conv, opts: opts, sem: make(chan struct{}, opts.MaxConcurrent), log: log}
}

// Handler returns the service routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/convert", s.handleConvert)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.log.Info("Listening.", "addr", addr, "max_upload_bytes", s.opts.MaxUploadBytes)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	log := s.log.With("remote", r.RemoteAddr)

	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if tooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", s.opts.MaxUploadBytes))
			return
		}
		writeError(w, http.StatusBadRequest, "no file part")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, hdr, err := r.FormFile(FormField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file part")
		return
	}
	defer file.Close()
	if hdr.Filename == "" {
		writeError(w, http.StatusBadRequest, "no selected file")
		return
	}
	if !strings.EqualFold(filepath.Ext(hdr.Filename), ".pdf") {
		writeError(w, http.StatusBadRequest, "invalid file type")
		return
	}

	// The slot covers storing and converting, not receiving the upload.
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	default:
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusTooManyRequests, "server busy")
		return
	}

	tmp, err := os.MkdirTemp("", "pdf2deck-upload-*")
	if err != nil {
		log.Error("Creating upload directory.", "error", err)
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}
	defer os.RemoveAll(tmp)

	src := filepath.Join(tmp, "upload.pdf")
	if err := saveUpload(file, src); err != nil {
		log.Error("Storing upload.", "error", err)
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	out := filepath.Join(tmp, DownloadName)
	res, err := s.conv.Convert(r.Context(), src, out)
	if err != nil {
		log.Error("Upload conversion failed.", "filename", hdr.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	f, err := os.Open(out)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", deck.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", DownloadName))
	w.Header().Set("Content-Length", fmt.Sprint(info.Size()))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		log.Warn("Sending deck.", "error", err)
		return
	}
	log.Info("Served conversion.", "filename", hdr.Filename, "slides", res.Slides, "bytes", info.Size())
}

func (s *Server) authorized(r *http.Request) bool {
	if s.opts.Token == "" {
		return true
	}
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.Token)) == 1
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

func saveUpload(r io.Reader, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
