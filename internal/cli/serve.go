package cli

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	apphttp "github.com/mgpai22/captionit/internal/http"
	"github.com/mgpai22/captionit/internal/notice"
	"github.com/mgpai22/captionit/internal/session"
	"github.com/mgpai22/captionit/internal/track"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview captions on top of a video in the browser",
	Long: `Start the preview server for one editing session.

The page plays the given media URL with the compiled WebVTT track attached
and lets you add captions, upload a caption document, and clear them. The
media URL is only handed to the browser; the server never fetches it.

Examples:
  captionit serve --media https://example.com/clip.mp4
  captionit serve --media /static/clip.mp4 --captions captions.json --addr :9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().
		StringP("media", "m", "", "URL of the video to caption (required)")
	serveCmd.Flags().
		StringP("captions", "c", "", "Caption document to load at startup")
	serveCmd.Flags().
		String("addr", "", "Listen address (or set CAPTIONIT_ADDR, default :8080)")

	_ = serveCmd.MarkFlagRequired("media")
}

func runServe(cmd *cobra.Command, args []string) error {
	mediaURL, _ := cmd.Flags().GetString("media")
	captionsPath, _ := cmd.Flags().GetString("captions")
	addr, _ := cmd.Flags().GetString("addr")

	if err := validateMediaURL(mediaURL); err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Addr
	}

	registry := track.NewRegistry("/tracks")
	defer registry.Close()

	recorder := &notice.Recorder{}
	sess := session.New(
		registry,
		notice.Multi(recorder, notice.LogSink{Logger: logger}),
		logger,
	)
	defer sess.Close()

	if captionsPath != "" {
		f, err := os.Open(captionsPath)
		if err != nil {
			return fmt.Errorf("failed to open caption file: %w", err)
		}
		err = sess.Import(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("failed to load captions: %w", err)
		}
	}

	srv := &nethttp.Server{
		Addr: addr,
		Handler: apphttp.NewServer(sess, recorder, registry, apphttp.Options{
			MediaURL:      mediaURL,
			TrackLanguage: cfg.TrackLanguage,
			TrackLabel:    cfg.TrackLabel,
			Logger:        logger,
		}),
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("Preview server listening",
			"addr", addr,
			"media", mediaURL,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infow("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("Graceful shutdown failed", "error", err)
		_ = srv.Close()
	}
	logger.Infow("Server stopped")
	return nil
}

// accepts absolute http(s) URLs and server-relative paths
func validateMediaURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("media URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid media URL %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("invalid media URL %q: missing host", raw)
		}
	case "":
		if u.Path == "" {
			return fmt.Errorf("invalid media URL %q: missing path", raw)
		}
	default:
		return fmt.Errorf("unsupported media URL scheme %q: use http, https, or a relative path", u.Scheme)
	}
	return nil
}
