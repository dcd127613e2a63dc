package assets

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// File es un archivo recibido para subir al proveedor.
type File struct {
	Name string
	Data []byte
}

// UseCase casos de uso de subida y borrado manual de assets.
// A diferencia de la cascada, aquí una falla del proveedor es fatal y se reporta al cliente.
type UseCase struct {
	store Store
}

// NewUseCase construye el caso de uso.
func NewUseCase(store Store) *UseCase {
	return &UseCase{store: store}
}

// UploadImage sube una imagen de categoría o producto y devuelve su URL.
func (uc *UseCase) UploadImage(ctx context.Context, f File) (string, error) {
	if len(f.Data) == 0 {
		return "", fmt.Errorf("%w: archivo vacío", domain.ErrValidation)
	}
	url, err := uc.store.Upload(ctx, FolderImages, f.Name, f.Data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}
	return url, nil
}

// UploadAttachments sube los adjuntos de un movimiento en orden y devuelve sus URLs.
func (uc *UseCase) UploadAttachments(ctx context.Context, files []File) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no se recibieron archivos", domain.ErrValidation)
	}
	urls := make([]string, 0, len(files))
	for _, f := range files {
		if len(f.Data) == 0 {
			return nil, fmt.Errorf("%w: archivo vacío %q", domain.ErrValidation, f.Name)
		}
		name := strings.TrimSuffix(filepath.Base(f.Name), filepath.Ext(f.Name))
		if name == "" {
			return nil, fmt.Errorf("%w: nombre de archivo inválido", domain.ErrValidation)
		}
		url, err := uc.store.Upload(ctx, FolderAttachments, f.Name, f.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrExternalService, f.Name, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// Delete elimina un asset por referencia.
func (uc *UseCase) Delete(ctx context.Context, ref string) error {
	if strings.TrimSpace(ref) == "" {
		return fmt.Errorf("%w: ref es requerido", domain.ErrValidation)
	}
	if err := uc.store.Destroy(ctx, ref); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExternalService, err)
	}
	return nil
}
