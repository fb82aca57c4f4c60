package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

type memStorage struct {
	mu      sync.Mutex
	saved   map[string][]byte
	removed []string
	saveErr error
	rmErr   error
}

func newMemStorage() *memStorage {
	return &memStorage{saved: make(map[string][]byte)}
}

func (m *memStorage) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	p := "images/" + name
	m.saved[p] = data
	return p, nil
}

func (m *memStorage) Remove(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rmErr != nil {
		return m.rmErr
	}
	m.removed = append(m.removed, path)
	return nil
}

func multipartBody(t *testing.T, fileField, fileName string, fileData []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileData)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func doUpload(t *testing.T, h *Handler, body *bytes.Buffer, contentType string, authed bool) (*httptest.ResponseRecorder, map[string]string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPut, "/post-image", body)
	req.Header.Set("Content-Type", contentType)
	if authed {
		req = req.WithContext(auth.WithUserID(req.Context(), "64b000000000000000000000"))
	}
	rec := httptest.NewRecorder()
	h.PostImage(rec, req)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestPostImage_StoresImage(t *testing.T) {
	store := newMemStorage()
	h := NewHandler(store, logging.NopLogger{})

	body, ct := multipartBody(t, "image", "cat.png", pngBytes, nil)
	rec, resp := doUpload(t, h, body, ct, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "File Stored", resp["message"])
	require.NotEmpty(t, resp["filePath"])
	assert.True(t, strings.HasPrefix(resp["filePath"], "images/"))
	assert.True(t, strings.HasSuffix(resp["filePath"], "-cat.png"),
		"stored name keeps the original filename: %q", resp["filePath"])

	stored, ok := store.saved[resp["filePath"]]
	require.True(t, ok)
	assert.Equal(t, pngBytes, stored, "sniffed prefix must be written too")
}

func TestPostImage_UniqueNamesPerUpload(t *testing.T) {
	store := newMemStorage()
	h := NewHandler(store, logging.NopLogger{})

	body1, ct1 := multipartBody(t, "image", "cat.png", pngBytes, nil)
	_, resp1 := doUpload(t, h, body1, ct1, true)
	body2, ct2 := multipartBody(t, "image", "cat.png", pngBytes, nil)
	_, resp2 := doUpload(t, h, body2, ct2, true)

	assert.NotEqual(t, resp1["filePath"], resp2["filePath"])
}

func TestPostImage_NoFile(t *testing.T) {
	h := NewHandler(newMemStorage(), logging.NopLogger{})

	body, ct := multipartBody(t, "", "", nil, map[string]string{"other": "x"})
	rec, resp := doUpload(t, h, body, ct, true)

	assert.Equal(t, http.StatusOK, rec.Code, "missing file is not an error")
	assert.Equal(t, "No Image Provided", resp["message"])
}

func TestPostImage_NonImageDroppedSilently(t *testing.T) {
	store := newMemStorage()
	h := NewHandler(store, logging.NopLogger{})

	body, ct := multipartBody(t, "image", "evil.html", []byte("<html><body>hi</body></html>"), nil)
	rec, resp := doUpload(t, h, body, ct, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No Image Provided", resp["message"])
	assert.Empty(t, store.saved, "non-image must not be stored")
}

func TestPostImage_OldPathCleanedUpBestEffort(t *testing.T) {
	store := newMemStorage()
	h := NewHandler(store, logging.NopLogger{})

	body, ct := multipartBody(t, "image", "new.png", pngBytes, map[string]string{"oldPath": "images/old.png"})
	rec, resp := doUpload(t, h, body, ct, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "File Stored", resp["message"])
	assert.Equal(t, []string{"images/old.png"}, store.removed)
}

func TestPostImage_CleanupFailureDoesNotFailRequest(t *testing.T) {
	store := newMemStorage()
	store.rmErr = errors.New("object store down")
	h := NewHandler(store, logging.NopLogger{})

	body, ct := multipartBody(t, "image", "new.png", pngBytes, map[string]string{"oldPath": "images/old.png"})
	rec, resp := doUpload(t, h, body, ct, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "File Stored", resp["message"])
}

func TestPostImage_RequiresAuthentication(t *testing.T) {
	store := newMemStorage()
	h := NewHandler(store, logging.NopLogger{})

	body, ct := multipartBody(t, "image", "cat.png", pngBytes, nil)
	rec, resp := doUpload(t, h, body, ct, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not Authenticated", resp["message"])
	assert.Empty(t, store.saved)
}

func TestPostImage_StoreFailure(t *testing.T) {
	store := newMemStorage()
	store.saveErr = errors.New("disk full")
	h := NewHandler(store, logging.NopLogger{})

	body, ct := multipartBody(t, "image", "cat.png", pngBytes, nil)
	rec, _ := doUpload(t, h, body, ct, true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
