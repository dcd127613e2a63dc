package cloudinary_test

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/cloudinary"
)

func TestPublicID_Derivacion(t *testing.T) {
	cases := []struct {
		name, ref, wantID, wantType string
	}{
		{"imagen con carpeta", "https://res.cloudinary.com/demo/image/upload/v1712/categories/bolsa.png", "categories/bolsa", "image"},
		{"pdf conserva extensión", "https://res.cloudinary.com/demo/raw/upload/v1712/stock_attachments/factura.pdf", "stock_attachments/factura.pdf", "raw"},
		{"docx conserva extensión", "https://res.cloudinary.com/demo/raw/upload/v9/stock_attachments/acta.DOCX", "stock_attachments/acta.DOCX", "raw"},
		{"doc", "stock_attachments/nota.doc", "stock_attachments/nota.doc", "raw"},
		{"sólo nombre", "foto.jpg", "foto", "image"},
		{"con query", "https://res.cloudinary.com/demo/image/upload/v1/categories/a.b.webp?x=1", "categories/a.b", "image"},
		{"espacios codificados", "https://res.cloudinary.com/demo/image/upload/v1/categories/mi%20foto.png", "categories/mi foto", "image"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, rt, err := cloudinary.PublicID(tc.ref)
			require.NoError(t, err)
			assert.Equal(t, tc.wantID, id)
			assert.Equal(t, tc.wantType, rt)
		})
	}
}

func TestPublicID_ReferenciaVacia(t *testing.T) {
	_, _, err := cloudinary.PublicID("   ")
	assert.Error(t, err)
	_, _, err = cloudinary.PublicID("https://res.cloudinary.com/")
	assert.Error(t, err)
}

func signed(params string, secret string) string {
	sum := sha1.Sum([]byte(params + secret))
	return hex.EncodeToString(sum[:])
}

func TestStore_DestroyFirmado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/raw/destroy", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "stock_attachments/factura.pdf", r.PostForm.Get("public_id"))
		assert.Equal(t, "key", r.PostForm.Get("api_key"))
		want := signed("public_id="+r.PostForm.Get("public_id")+"&timestamp="+r.PostForm.Get("timestamp"), "secret")
		assert.Equal(t, want, r.PostForm.Get("signature"))
		_, _ = io.WriteString(w, `{"result":"ok"}`)
	}))
	defer srv.Close()

	s := cloudinary.NewStore(cloudinary.Config{CloudName: "demo", APIKey: "key", APISecret: "secret", BaseURL: srv.URL})
	err := s.Destroy(context.Background(), "https://res.cloudinary.com/demo/raw/upload/v1/stock_attachments/factura.pdf")
	assert.NoError(t, err)
}

func TestStore_DestroyNoEncontrado(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"result":"not found"}`)
	}))
	defer srv.Close()

	s := cloudinary.NewStore(cloudinary.Config{CloudName: "demo", APIKey: "key", APISecret: "secret", BaseURL: srv.URL})
	err := s.Destroy(context.Background(), "categories/x.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestStore_UploadDevuelveURLSegura(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/demo/image/upload", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "categories", r.FormValue("folder"))
		assert.Equal(t, "bolsa", r.FormValue("public_id"))
		want := signed("folder=categories&public_id=bolsa&timestamp="+r.FormValue("timestamp"), "secret")
		assert.Equal(t, want, r.FormValue("signature"))

		f, _, err := r.FormFile("file")
		if assert.NoError(t, err) {
			defer f.Close()
			data, _ := io.ReadAll(f)
			assert.Equal(t, "png-bytes", string(data))
		}

		_, _ = io.WriteString(w, `{"secure_url":"https://res.cloudinary.com/demo/image/upload/v1/categories/bolsa.png"}`)
	}))
	defer srv.Close()

	s := cloudinary.NewStore(cloudinary.Config{CloudName: "demo", APIKey: "key", APISecret: "secret", BaseURL: srv.URL})
	u, err := s.Upload(context.Background(), "categories", "bolsa.png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.cloudinary.com/demo/image/upload/v1/categories/bolsa.png", u)
}

func TestStore_UploadErrorHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Invalid Signature"}}`)
	}))
	defer srv.Close()

	s := cloudinary.NewStore(cloudinary.Config{CloudName: "demo", APIKey: "key", APISecret: "bad", BaseURL: srv.URL})
	_, err := s.Upload(context.Background(), "stock_attachments", "acta.pdf", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Signature")
}

func TestStore_SinCredenciales(t *testing.T) {
	s := cloudinary.NewStore(cloudinary.Config{})
	assert.False(t, s.Configured())
	_, err := s.Upload(context.Background(), "categories", "a.png", []byte("x"))
	assert.Error(t, err)
	assert.Error(t, s.Destroy(context.Background(), "categories/a.png"))
}
