package main

import (
	"log"
	"os"

	"farmconnect/internal/config"
	mmysql "farmconnect/internal/infra/mysql"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Fatalf("load env file: %v", err)
	}
	cfg := config.FromEnv()

	db, err := mmysql.NewMySQL(mmysql.Options{DSN: cfg.MySQLDSN, MaxOpenConns: 2, MaxIdleConns: 1})
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatalf("sql db: %v", err)
	}
	defer sqlDB.Close()

	if err := mmysql.Migrate(db); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}
	logger.Println("migrations applied")
}
