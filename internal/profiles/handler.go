package profiles

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/DYAI2025/Vipe-minecraft-modder/internal/shared"
)

type Handler struct {
	store *Store
	log   *slog.Logger
}

func NewHandler(store *Store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{store: store, log: log.With("component", "profiles")}
}

func (h *Handler) Register(e *echo.Echo) {
	e.POST("/api/v1/voice/profiles", h.Upload)
}

type uploadResponse struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// Upload accepts a multipart voice sample under the "file" field and
// returns the server-side path usable with the set_profile command.
func (h *Handler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return shared.BadRequest("MISSING_FILE", "multipart field 'file' is required")
	}

	src, err := fh.Open()
	if err != nil {
		return shared.BadRequest("UNREADABLE_FILE", "uploaded file could not be opened")
	}
	defer src.Close()

	path, err := h.store.Save(fh.Filename, src)
	if err != nil {
		h.log.Error("profile upload failed", "file", fh.Filename, "error", err)
		return shared.InternalError("UPLOAD_FAILED", "voice profile could not be saved")
	}

	return c.JSON(http.StatusOK, uploadResponse{Filename: fh.Filename, Path: path})
}
