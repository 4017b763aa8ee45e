package repository

import "gorm.io/gorm"

// siguienteNumero returns the next human-readable document number. PostgreSQL
// uses a sequence (see infra.applySchemaPatches); other engines fall back to
// MAX+1 inside the caller's transaction.
func siguienteNumero(tx *gorm.DB, secuencia, tabla string) (int64, error) {
	var n int64
	if tx.Dialector.Name() == "postgres" {
		err := tx.Raw("SELECT nextval(?::regclass)", secuencia).Scan(&n).Error
		return n, err
	}
	err := tx.Raw("SELECT COALESCE(MAX(numero), 0) + 1 FROM " + tabla).Scan(&n).Error
	return n, err
}
