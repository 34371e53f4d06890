package main

import (
	"log"
	"os"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/homie-rental/internal/didemo"
)

func main() {
	logger := log.New(os.Stdout, "", 0)

	cfg := mysql.NewConfig()
	cfg.User = "root"
	cfg.Net = "tcp"
	cfg.Addr = "localhost:3306"
	cfg.DBName = "homie"
	mysqlService := didemo.NewMySQLDatabaseService(logger, cfg)
	if err := didemo.NewUserManager(mysqlService).ManageUser(); err != nil {
		log.Fatal(err)
	}

	sqlServerService := didemo.NewSQLServerDatabaseService(logger, "localhost:1433")
	if err := didemo.NewUserManager(sqlServerService).ManageUser(); err != nil {
		log.Fatal(err)
	}

	postgresService, err := didemo.NewPostgreSQLDatabaseService(logger, "postgres://postgres@localhost:5432/homie?sslmode=disable")
	if err != nil {
		log.Fatal(err)
	}
	if err := didemo.NewUserManager(postgresService).ManageUser(); err != nil {
		log.Fatal(err)
	}
}
