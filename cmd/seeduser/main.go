// seeduser crea o actualiza el usuario administrador inicial.
// Uso: go run ./cmd/seeduser -username admin -password 'cambiar123'
package main

import (
	"context"
	"flag"
	"os"

	"github.com/diazinho777/Ferreteria-sistema/internal/config"
	"github.com/diazinho777/Ferreteria-sistema/internal/infra"
	"github.com/diazinho777/Ferreteria-sistema/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	username := flag.String("username", "admin", "nombre de usuario")
	password := flag.String("password", "", "contraseña (mínimo 8 caracteres)")
	nombre := flag.String("nombre", "Administrador", "nombre completo")
	flag.Parse()

	if len(*password) < 8 {
		log.Fatal().Msg("-password es obligatorio y debe tener al menos 8 caracteres")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// NewDatabase migrates the schema, so this also works on an empty database.
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO usuarios (id, username, nombre, password_hash, rol, activo, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, true, NOW(), NOW())
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    nombre = EXCLUDED.nombre,
		    rol = EXCLUDED.rol,
		    activo = true,
		    updated_at = NOW()
	`, uuid.New(), *username, *nombre, string(hash), model.RolAdmin)
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("insert error")
	}
	log.Info().Str("username", *username).Str("rol", model.RolAdmin).Msg("usuario creado/actualizado")
}
