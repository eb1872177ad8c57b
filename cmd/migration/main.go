package main

import (
	"flag"
	"log"

	"github.com/hugohenrick/nexum-erp/internal/infrastructure/config"
	"github.com/hugohenrick/nexum-erp/internal/infrastructure/database"
	"github.com/hugohenrick/nexum-erp/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		log.Printf("Aviso: Arquivo .env não encontrado: %v", err)
	}

	down := flag.Int("down", 0, "quantidade de migrações a reverter")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}
	zl := logger.NewLogger(cfg.Log.Level)
	defer zl.Sync()

	dbURL := cfg.Postgres.ConnectionString()
	if *down > 0 {
		if err := database.RollbackMigrations(dbURL, *down, zl); err != nil {
			log.Fatalf("Erro ao reverter migrações: %v", err)
		}
		return
	}

	if err := database.RunMigrations(dbURL, zl); err != nil {
		log.Fatalf("Erro ao executar migrações: %v", err)
	}
	log.Println("Migrações executadas com sucesso!")
}
