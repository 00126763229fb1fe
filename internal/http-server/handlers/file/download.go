package file

import (
	"BizDevCRM/internal/http-server/middleware/authenticate"
	"BizDevCRM/internal/lib/api/response"
	"BizDevCRM/internal/lib/sl"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Download streams a stored file. It accepts a signed link (?expires=&sig=)
// so browsers can load it in <img> or <audio>, or a bearer token.
func Download(log *slog.Logger, handler Core, verifier Verifier, auth authenticate.Authenticate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.With(
			sl.Module("http.handlers.file"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		fileID := chi.URLParam(r, "id")
		if fileID == "" {
			response.BadRequest(w, r, "file id is required")
			return
		}

		if !authorized(r, fileID, verifier, auth) {
			response.Unauthorized(w, r)
			return
		}

		filename, mimeType, reader, err := handler.DownloadFile(r.Context(), fileID)
		if err != nil {
			logger.With(sl.Err(err), slog.String("file", fileID)).Warn("download file")
			response.Fail(w, r, err)
			return
		}
		defer reader.Close()

		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", mimeType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s"`, filename))

		if _, err = io.Copy(w, reader); err != nil {
			logger.With(sl.Err(err), slog.String("file", fileID)).Error("stream file")
		}
	}
}

func authorized(r *http.Request, fileID string, verifier Verifier, auth authenticate.Authenticate) bool {
	q := r.URL.Query()
	if sig := q.Get("sig"); sig != "" && verifier != nil {
		return verifier.Verify(fileID, q.Get("expires"), sig)
	}
	token := authenticate.BearerToken(r)
	if token == "" || auth == nil {
		return false
	}
	user, err := auth.AuthenticateByToken(token)
	return err == nil && user != nil
}
