package dto

// Límites de paginación del dashboard.
const (
	PageSizeDefault = 25
	PageSizeMax     = 500
)

// PageRequest paginación para listados (page ≥ 1, page_size acotado a [1,500]).
type PageRequest struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

// Normalizar aplica defaults y acota page_size.
func (p *PageRequest) Normalizar() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = PageSizeDefault
	}
	if p.PageSize > PageSizeMax {
		p.PageSize = PageSizeMax
	}
}

// Offset devuelve el desplazamiento SQL equivalente.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Pagination metadatos de página en respuestas de listado.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewPagination calcula los metadatos para un total dado.
func NewPagination(p PageRequest, total int64) Pagination {
	pages := total / int64(p.PageSize)
	if total%int64(p.PageSize) != 0 {
		pages++
	}
	return Pagination{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      total,
		TotalPages: pages,
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Error         string   `json:"error"`
	MissingFields []string `json:"missing_fields,omitempty"`
	Detail        string   `json:"detail,omitempty"`
}
