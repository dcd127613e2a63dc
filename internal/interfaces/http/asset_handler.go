package http

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/assets"
	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
)

// AssetHandler sube y elimina imágenes y adjuntos en el proveedor externo.
type AssetHandler struct {
	uc *assets.UseCase
}

// NewAssetHandler construye el handler.
func NewAssetHandler(uc *assets.UseCase) *AssetHandler {
	return &AssetHandler{uc: uc}
}

// UploadResponse URL del asset subido.
type UploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// UploadAttachmentsResponse URLs de los adjuntos subidos, en el orden recibido.
type UploadAttachmentsResponse struct {
	Message string   `json:"message"`
	URLs    []string `json:"urls"`
}

func readFormFile(fh *multipart.FileHeader) (assets.File, error) {
	f, err := fh.Open()
	if err != nil {
		return assets.File{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return assets.File{}, err
	}
	return assets.File{Name: fh.Filename, Data: data}, nil
}

// UploadImage godoc
// @Summary      Subir imagen de categoría o producto
// @Tags         assets
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Imagen"
// @Success      201   {object}  UploadResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/assets/upload [post]
func (h *AssetHandler) UploadImage(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_FILE", Message: "no se recibió el archivo"})
	}
	file, err := readFormFile(fh)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	url, err := h.uc.UploadImage(c.UserContext(), file)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(UploadResponse{Message: "imagen subida", URL: url})
}

// UploadAttachments godoc
// @Summary      Subir adjuntos de un movimiento (varios campos "file")
// @Tags         assets
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Adjuntos (pdf, doc, docx o imagen)"
// @Success      201   {object}  UploadAttachmentsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/assets/attachments [post]
func (h *AssetHandler) UploadAttachments(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CONTENT_TYPE", Message: "se espera multipart/form-data"})
	}
	headers := form.File["file"]
	if len(headers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NO_FILE", Message: "no se recibieron archivos"})
	}
	files := make([]assets.File, 0, len(headers))
	for _, fh := range headers {
		file, err := readFormFile(fh)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer " + fh.Filename})
		}
		files = append(files, file)
	}
	urls, err := h.uc.UploadAttachments(c.UserContext(), files)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(UploadAttachmentsResponse{Message: "adjuntos subidos", URLs: urls})
}

// Delete godoc
// @Summary      Eliminar un asset por referencia
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Param        ref  query  string  true  "URL o public id del asset"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/assets [delete]
func (h *AssetHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Query("ref")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "asset eliminado"})
}
