// Package export implements the "open in external player" convenience: a
// fire-and-forget command taking a stream URL and producing a clipboard
// write, a .strm file or an external-protocol launch. Each method is
// independently best-effort and never blocks playback.
package export

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/skratchdot/open-golang/open"
)

type Method string

const (
	MethodClipboard Method = "clipboard"
	MethodStrmFile  Method = "strm"
	MethodProtocol  Method = "protocol"
)

const strmFileName = "video-stream.strm"

type Opener struct {
	strmDir string
	logger  *slog.Logger
}

// NewOpener writes .strm files into strmDir; an empty dir falls back to the
// OS temp directory.
func NewOpener(strmDir string, logger *slog.Logger) *Opener {
	if strmDir == "" {
		strmDir = os.TempDir()
	}

	return &Opener{
		strmDir: strmDir,
		logger:  logger,
	}
}

// Open dispatches the chosen export method. Failures are logged and
// swallowed; the player never sees them.
func (o *Opener) Open(method Method, streamURL string) {
	var err error
	switch method {
	case MethodClipboard:
		err = o.copyURL(streamURL)
	case MethodStrmFile:
		err = o.writeStrm(streamURL)
	case MethodProtocol:
		err = o.launchProtocol(streamURL)
	default:
		err = fmt.Errorf("unknown export method: %s", method)
	}

	if err != nil {
		o.logger.Warn("external player export failed", "method", method, "error", err)
	}
}

func (o *Opener) copyURL(streamURL string) error {
	if err := clipboard.WriteAll(streamURL); err != nil {
		return fmt.Errorf("failed to copy stream url: %w", err)
	}

	return nil
}

func (o *Opener) writeStrm(streamURL string) error {
	path := filepath.Join(o.strmDir, strmFileName)
	if err := os.WriteFile(path, []byte(streamURL), 0o644); err != nil {
		return fmt.Errorf("failed to write strm file: %w", err)
	}

	return nil
}

func (o *Opener) launchProtocol(streamURL string) error {
	if err := open.Run("vlc://" + url.QueryEscape(streamURL)); err != nil {
		return fmt.Errorf("failed to launch vlc protocol: %w", err)
	}

	return nil
}
