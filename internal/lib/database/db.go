package database

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"roundbread-bot/internal/lib/database/handlers"
	modeldb "roundbread-bot/internal/lib/database/model"
	"roundbread-bot/logging"
)

func InitDB(dbFilePath string) *handlers.DBHandlers {
	// Создание файла для логов запросов базы данных
	logFile, err := os.OpenFile(filepath.Join(logging.Dir, "db_queries.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logging.Log("Database", logrus.PanicLevel, fmt.Sprintf("Ошибка создания файла логов: %v", err))
		return nil
	}

	dbHandlers, err := Open(dbFilePath, logFile)
	if err != nil {
		logging.Log("Database", logrus.PanicLevel, err.Error())
		return nil
	}

	return dbHandlers
}

// Open открывает базу, выполняет миграции и собирает хендлеры.
// Запросы пишутся в queryLog.
func Open(dbFilePath string, queryLog io.Writer) (*handlers.DBHandlers, error) {
	// Создаем директорию базы данных, если она не существует
	if dir := filepath.Dir(dbFilePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("ошибка создания директории базы данных: %w", err)
		}
	}
	if _, err := os.Stat(dbFilePath); os.IsNotExist(err) {
		logging.Log("Database", logrus.InfoLevel, fmt.Sprintf("Создание базы данных по адресу: %s", dbFilePath))
	}

	// Настройка GORM для логирования запросов
	newLogger := logger.New(
		log.New(queryLog, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Один писатель на файл
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пула соединений: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&modeldb.Message{}, &modeldb.User{})
	if err != nil {
		return nil, fmt.Errorf("ошибка автомиграции моделей: %w", err)
	}

	return handlers.NewDBHandlers(db), nil
}
