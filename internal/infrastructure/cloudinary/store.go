package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/assets"
)

// Verificar en tiempo de compilación que Store implementa assets.Store.
var _ assets.Store = (*Store)(nil)

const (
	defaultBaseURL = "https://api.cloudinary.com/v1_1"
	defaultTimeout = 25 * time.Second

	resourceImage = "image"
	resourceRaw   = "raw"
)

// Config credenciales y endpoint del proveedor.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	// BaseURL permite apuntar a un servidor de pruebas; vacío usa la API pública.
	BaseURL string
	Timeout time.Duration
}

// Store adaptador de assets sobre la API REST de Cloudinary (upload y destroy firmados).
type Store struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time
}

// NewStore construye el adaptador. Sin credenciales las llamadas devuelven error descriptivo.
func NewStore(cfg Config) *Store {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// Configured indica si hay credenciales completas.
func (s *Store) Configured() bool {
	return s.cfg.CloudName != "" && s.cfg.APIKey != "" && s.cfg.APISecret != ""
}

// ── Estructuras internas de la API ───────────────────────────────────────────

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type destroyResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ── Derivación de identificadores ────────────────────────────────────────────

// isRaw indica si el nombre corresponde a un documento (pdf, doc, docx).
func isRaw(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".pdf", ".doc", ".docx":
		return true
	}
	return false
}

// PublicID deriva el identificador del proveedor y el tipo de recurso a partir de la
// referencia guardada (URL segura o "carpeta/archivo"). Se conservan la carpeta y el
// nombre de archivo; los documentos mantienen la extensión y las imágenes la pierden.
func PublicID(ref string) (publicID, resourceType string, err error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", "", fmt.Errorf("cloudinary: referencia vacía")
	}
	p := ref
	if u, perr := url.Parse(ref); perr == nil && u.Scheme != "" {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if decoded, derr := url.PathUnescape(p); derr == nil {
		p = decoded
	}
	parts := strings.Split(strings.Trim(p, "/"), "/")
	filename := parts[len(parts)-1]
	if filename == "" {
		return "", "", fmt.Errorf("cloudinary: referencia sin nombre de archivo: %q", ref)
	}
	folder := ""
	if len(parts) > 1 {
		folder = parts[len(parts)-2]
	}

	resourceType = resourceImage
	if isRaw(filename) {
		resourceType = resourceRaw
	} else if i := strings.LastIndex(filename, "."); i > 0 {
		filename = filename[:i]
	}
	if folder == "" {
		return filename, resourceType, nil
	}
	return folder + "/" + filename, resourceType, nil
}

// sign calcula la firma sha1 sobre los parámetros ordenados más el secreto.
func sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// ── Implementación del puerto ────────────────────────────────────────────────

// Upload sube el archivo a la carpeta indicada y devuelve su URL segura.
func (s *Store) Upload(ctx context.Context, folder, filename string, data []byte) (string, error) {
	if !s.Configured() {
		return "", fmt.Errorf("cloudinary: credenciales no configuradas")
	}
	base := path.Base(filename)
	resourceType := resourceImage
	publicID := strings.TrimSuffix(base, path.Ext(base))
	if isRaw(base) {
		resourceType = resourceRaw
		publicID = base
	}
	if publicID == "" || publicID == "." {
		return "", fmt.Errorf("cloudinary: nombre de archivo inválido %q", filename)
	}

	params := map[string]string{
		"folder":    folder,
		"public_id": publicID,
		"timestamp": strconv.FormatInt(s.now().Unix(), 10),
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", base)
	if err != nil {
		return "", fmt.Errorf("cloudinary: crear multipart: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("cloudinary: escribir archivo: %w", err)
	}
	for k, v := range params {
		_ = mw.WriteField(k, v)
	}
	_ = mw.WriteField("api_key", s.cfg.APIKey)
	_ = mw.WriteField("signature", sign(params, s.cfg.APISecret))
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("cloudinary: cerrar multipart: %w", err)
	}

	raw, status, err := s.post(ctx, s.endpoint(resourceType, "upload"), mw.FormDataContentType(), &body)
	if err != nil {
		return "", err
	}
	var res uploadResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return "", fmt.Errorf("cloudinary: deserializar respuesta de upload: %w", err)
	}
	if status != http.StatusOK {
		if res.Error != nil {
			return "", fmt.Errorf("cloudinary: upload HTTP %d: %s", status, res.Error.Message)
		}
		return "", fmt.Errorf("cloudinary: upload HTTP %d", status)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("cloudinary: upload sin secure_url")
	}
	return res.SecureURL, nil
}

// Destroy elimina el recurso referenciado. Sólo result "ok" se considera éxito.
func (s *Store) Destroy(ctx context.Context, ref string) error {
	if !s.Configured() {
		return fmt.Errorf("cloudinary: credenciales no configuradas")
	}
	publicID, resourceType, err := PublicID(ref)
	if err != nil {
		return err
	}
	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(s.now().Unix(), 10),
	}
	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", s.cfg.APIKey)
	form.Set("signature", sign(params, s.cfg.APISecret))

	raw, status, err := s.post(ctx, s.endpoint(resourceType, "destroy"),
		"application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	var res destroyResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return fmt.Errorf("cloudinary: deserializar respuesta de destroy: %w", err)
	}
	if status != http.StatusOK && res.Error != nil {
		return fmt.Errorf("cloudinary: destroy HTTP %d: %s", status, res.Error.Message)
	}
	if res.Result != "ok" {
		return fmt.Errorf("cloudinary: destroy de %s devolvió %q", publicID, res.Result)
	}
	return nil
}

func (s *Store) endpoint(resourceType, action string) string {
	return fmt.Sprintf("%s/%s/%s/%s", s.cfg.BaseURL, url.PathEscape(s.cfg.CloudName), resourceType, action)
}

func (s *Store) post(ctx context.Context, endpoint, contentType string, body io.Reader) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, 0, fmt.Errorf("cloudinary: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, 0, fmt.Errorf("cloudinary: timeout o cancelación: %w", ctx.Err())
		}
		return nil, 0, fmt.Errorf("cloudinary: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, 0, fmt.Errorf("cloudinary: leer respuesta: %w", err)
	}
	return raw, resp.StatusCode, nil
}
