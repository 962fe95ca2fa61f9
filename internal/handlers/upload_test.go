package handlers

import (
	"bytes"
	"encoding/base64"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/matryer/is"

	"sayabantu/internal/models"
)

// 1x1 transparent PNG.
var tinyPNG, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func multipartBody(t *testing.T, field, filename string, data []byte, values map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func (s *testServer) doMultipart(method, path, token string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func TestUploadAndServe(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)
	_, admin := s.addUser("admin", "admin@x.com", "pw", models.RoleAdmin)

	body, ct := multipartBody(t, "file", "logo.png", tinyPNG, nil)
	w := s.doMultipart("POST", "/upload", admin, body, ct)
	is.Equal(w.Code, http.StatusOK)
	url := decode[map[string]string](t, w)["url"]
	is.True(strings.HasPrefix(url, "/uploads/"))
	is.True(strings.HasSuffix(url, ".png"))

	_, err := os.Stat(filepath.Join(s.uploads.Dir, strings.TrimPrefix(url, "/uploads/")))
	is.NoErr(err)

	w = s.do("GET", url, "", nil)
	is.Equal(w.Code, http.StatusOK)
	is.Equal(w.Body.Bytes(), tinyPNG)

	w = s.do("GET", "/uploads/", "", nil)
	is.Equal(w.Code, http.StatusNotFound) // no listings
}

func TestUploadRejectsNonImages(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)
	_, admin := s.addUser("admin", "admin@x.com", "pw", models.RoleAdmin)

	body, ct := multipartBody(t, "file", "evil.png", []byte("#!/bin/sh\necho hi\n"), nil)
	w := s.doMultipart("POST", "/upload", admin, body, ct)
	is.Equal(w.Code, http.StatusBadRequest)

	body, ct = multipartBody(t, "", "", nil, nil)
	w = s.doMultipart("POST", "/upload", admin, body, ct)
	is.Equal(w.Code, http.StatusBadRequest)
}

func TestSettingsMultipartLogo(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)
	_, admin := s.addUser("admin", "admin@x.com", "pw", models.RoleAdmin)

	body, ct := multipartBody(t, "logo", "logo.png", tinyPNG, map[string]string{"whatsapp_message": "Halo"})
	w := s.doMultipart("PUT", "/settings", admin, body, ct)
	is.Equal(w.Code, http.StatusOK)
	got := decode[models.SettingsResponse](t, w)
	is.True(strings.HasPrefix(got.LogoURL, "/uploads/"))
	is.Equal(got.WhatsAppMessage, "Halo")
}

func TestServiceMultipartIcon(t *testing.T) {
	is := is.New(t)
	s := newTestServer(t)
	_, admin := s.addUser("admin", "admin@x.com", "pw", models.RoleAdmin)

	body, ct := multipartBody(t, "icon_file", "ac.png", tinyPNG, map[string]string{
		"name": "Servis AC", "slug": "servis-ac", "price_min": "150000", "sort_order": "3", "is_popular": "1",
	})
	w := s.doMultipart("POST", "/services", admin, body, ct)
	is.Equal(w.Code, http.StatusCreated)
	id := decode[created](t, w).ID

	// no new icon keeps the stored one
	body, ct = multipartBody(t, "", "", nil, map[string]string{"name": "Servis AC", "slug": "servis-ac"})
	w = s.doMultipart("PUT", "/services/"+itoa(id), admin, body, ct)
	is.Equal(w.Code, http.StatusOK)

	w = s.do("GET", "/services", admin, nil)
	services := decode[[]models.Service](t, w)
	is.Equal(len(services), 1)
	is.True(strings.HasPrefix(services[0].IconValue, "/uploads/"))

	body, ct = multipartBody(t, "", "", nil, map[string]string{"name": "Servis AC", "slug": "servis-ac", "price_min": "murah"})
	w = s.doMultipart("PUT", "/services/"+itoa(id), admin, body, ct)
	is.Equal(w.Code, http.StatusBadRequest)
}
