package repository

// Pagina normalizes page/limit pairs: page starts at 1, limit defaults to 50
// and is capped at 500.
func Pagina(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}
	return page, limit
}

func offset(page, limit int) int { return (page - 1) * limit }
