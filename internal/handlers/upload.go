package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"sayabantu/internal/responses"
)

const (
	maxUploadBytes = 10 << 20
	uploadURLPath  = "/uploads/"
)

var errUnsupportedType = errors.New("unsupported file type")

var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/svg+xml",
	"image/x-icon",
}

// Uploader stores admin uploads under Dir and serves them at /uploads/.
type Uploader struct {
	Dir string
	now func() time.Time
}

func NewUploader(dir string) (*Uploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Uploader{Dir: dir, now: time.Now}, nil
}

// Save sniffs the content type, rejects anything but images and returns
// the public URL of the stored file.
func (u *Uploader) Save(file multipart.File) (string, error) {
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", err
	}
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return "", errUnsupportedType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d-%s%s", u.now().UnixMilli(), uuid.NewString()[:8], mtype.Extension())
	dst, err := os.OpenFile(filepath.Join(u.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return uploadURLPath + name, nil
}

// SaveFormFile stores the multipart field if present. It returns "" when
// the field is absent.
func (u *Uploader) SaveFormFile(r *http.Request, field string) (string, error) {
	file, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()
	return u.Save(file)
}

// FileServer serves stored uploads without directory listings.
func (u *Uploader) FileServer() http.Handler {
	fs := http.FileServer(http.Dir(u.Dir))
	return http.StripPrefix(uploadURLPath, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	}))
}

func parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		responses.SendError(w, http.StatusBadRequest, "Invalid multipart form")
		return false
	}
	return true
}

// sendUploadError writes the response for a failed Save.
func sendUploadError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errUnsupportedType) {
		responses.SendError(w, http.StatusBadRequest, "Invalid file type. Only images are allowed.")
		return
	}
	log.FromContext(r.Context()).Error("store upload", "err", err)
	responses.SendError(w, http.StatusInternalServerError, "Failed to store upload")
}

func Upload(u *Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseMultipart(w, r) {
			return
		}
		url, err := u.SaveFormFile(r, "file")
		if err != nil {
			sendUploadError(w, r, err)
			return
		}
		if url == "" {
			responses.SendError(w, http.StatusBadRequest, "No file")
			return
		}
		responses.SendJSON(w, http.StatusOK, map[string]string{"url": url})
	}
}
