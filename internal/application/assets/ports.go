package assets

import "context"

// Store es el puerto hacia el proveedor externo de assets (imágenes y documentos).
// Destroy recibe la referencia tal cual se guardó (URL) y resuelve internamente el identificador.
type Store interface {
	Upload(ctx context.Context, folder, filename string, data []byte) (string, error)
	Destroy(ctx context.Context, ref string) error
}

// Carpetas del proveedor usadas por la aplicación.
const (
	FolderImages      = "categories"
	FolderAttachments = "stock_attachments"
)
