package handler

import (
	"net/http"

	"github.com/partnerlink/platform/internal/service"
)

// PackageHandler serves the public package catalogue.
type PackageHandler struct {
	packages *service.PackageService
}

// NewPackageHandler creates a PackageHandler.
func NewPackageHandler(packages *service.PackageService) *PackageHandler {
	return &PackageHandler{packages: packages}
}

// List handles GET /packages.
func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.packages.ListActive(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"packages": pkgs})
}
