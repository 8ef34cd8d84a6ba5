package database

import (
	"fmt"
	"replenish-app/config"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
)

// OpenDatabaseConnection opens a gorm connection for the configured
// driver: mssql (default), mysql or postgres.
func OpenDatabaseConnection(dbName string) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch config.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			config.DBUser, config.DBPassword, config.DBHost, config.DBPort, dbName)
		dialector = mysql.Open(dsn)
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			config.DBHost, config.DBUser, config.DBPassword, dbName, config.DBPort)
		dialector = postgres.Open(dsn)
	default:
		dsn := "sqlserver://" + config.DBUser + ":" + config.DBPassword + "@" +
			config.DBHost + ":" + config.DBPort + "?database=" + dbName
		dialector = sqlserver.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return nil, err
	}

	return db, nil
}
