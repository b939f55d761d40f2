package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/mtauhidul/ats-backend-demo-sub000/config"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/database"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/repository"
	"github.com/mtauhidul/ats-backend-demo-sub000/server"
)

func main() {
	app := &cli.App{
		Name:  "ats-ingestion",
		Usage: "email ingestion service for the applicant tracking system",
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "start the application server",
				Action: func(c *cli.Context) error {
					cfg, db := mustSetup()

					log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
					log.Println("ATS ingestion starting up...")

					srv, err := server.NewServer(cfg, db)
					if err != nil {
						log.Fatalf("Server setup failed: %v", err)
					}
					return srv.Run()
				},
			},
			{
				Name:  "migrate",
				Usage: "run database migrations",
				Action: func(c *cli.Context) error {
					cfg, db := mustSetup()

					if err := repository.MigrateDB(cfg.DatabaseConfig, db); err != nil {
						log.Fatalf("Database migration failed: %v", err)
					}
					log.Println("Database migration completed successfully")
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func mustSetup() (*config.Config, *gorm.DB) {
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("Config initialization failed: %v", err)
	}

	db, err := database.NewConnection(&database.DatabaseConfig{
		Host:            cfg.DatabaseConfig.Host,
		Port:            cfg.DatabaseConfig.Port,
		User:            cfg.DatabaseConfig.User,
		DBName:          cfg.DatabaseConfig.DBName,
		Password:        cfg.DatabaseConfig.Password,
		MaxConn:         cfg.DatabaseConfig.MaxConn,
		MaxIdleConn:     cfg.DatabaseConfig.MaxIdleConn,
		ConnMaxLifetime: cfg.DatabaseConfig.ConnMaxLifetime,
		LogLevel:        cfg.DatabaseConfig.LogLevel,
		SSLMode:         cfg.DatabaseConfig.SSLMode,
	})
	if err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}

	return cfg, db
}
