package doclingserve

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvbarbosa/pdfdigest/internal/common"
	"github.com/mvbarbosa/pdfdigest/internal/layout"
)

func writeTempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "note.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 body"), 0o644))
	return path
}

func TestConvertDecodesDocument(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/convert", r.URL.Path)

		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() {
			_ = f.Close()
		}()
		gotPath = header.Filename

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(layout.Document{
			Text: "NOTA DE NEGOCIAÇÃO",
			Elements: []layout.Element{
				{Label: "table", Page: 1},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)

	doc, err := c.Convert(context.Background(), writeTempPDF(t))
	require.NoError(t, err)

	assert.Equal(t, "note.pdf", gotPath)
	assert.Equal(t, "NOTA DE NEGOCIAÇÃO", doc.Text)
	require.Len(t, doc.Elements, 1)
}

func TestConvertStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "conversion backend busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)

	_, err := c.Convert(context.Background(), writeTempPDF(t))
	require.Error(t, err)
	assert.True(t, common.IsConversion(err))
	assert.Contains(t, err.Error(), "503")
}

func TestConvertEmptyResponseIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "", "elements": []}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)

	_, err := c.Convert(context.Background(), writeTempPDF(t))
	require.Error(t, err)
	assert.True(t, common.IsConversion(err))
}

func TestConvertUnreachableEngine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing listens anymore

	c := NewClient(Config{BaseURL: srv.URL}, nil)

	_, err := c.Convert(context.Background(), writeTempPDF(t))
	require.Error(t, err)
	assert.True(t, common.IsConversion(err))
}

func TestConvertMissingFile(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://localhost:0"}, nil)

	_, err := c.Convert(context.Background(), filepath.Join(t.TempDir(), "absent.pdf"))
	require.Error(t, err)
	assert.True(t, common.IsConversion(err))
}
