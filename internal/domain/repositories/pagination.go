package repositories

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination contém parâmetros de paginação comuns
type Pagination struct {
	Page     int // Página (começa em 1)
	PageSize int // Itens por página (default: 20, max: 100)
}

// Normalize aplica os limites de página e retorna (limit, offset)
func (p Pagination) Normalize() (int, int) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	pageSize := p.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return pageSize, (page - 1) * pageSize
}

// SortOrder define a ordenação de listagens
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortRating    SortOrder = "rating"
	SortStartsAt  SortOrder = "starts_at"
)
