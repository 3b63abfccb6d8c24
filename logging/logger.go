package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// Dir директория, в которую пишутся логи бота и запросов к базе
const Dir = "logs"

var log = logrus.New()

type CustomFormatter struct{}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format("2006-01-02 15:04:05")
	level := entry.Level.String()

	module, ok := entry.Data["module"].(string)
	var logMessage string
	if ok && module != "" {
		logMessage = fmt.Sprintf("%s (%s) [%s]: %s\n", timestamp, level, module, entry.Message)
	} else {
		logMessage = fmt.Sprintf("%s (%s) [Система]: %s\n", timestamp, level, entry.Message)
	}

	return []byte(logMessage), nil
}

func SetupLogger(debug bool) *logrus.Logger {
	log.SetFormatter(&CustomFormatter{})

	// Создаем директорию для логов, если она не существует
	if err := os.MkdirAll(Dir, 0755); err != nil {
		log.Fatalf("Невозможно создать директорию для логов: %v", err)
	}

	// Устанавливаем файл для логов на каждый день
	fileName := filepath.Join(Dir, fmt.Sprintf("log-%s.log", time.Now().Format("2006-01-02")))
	file, err := os.OpenFile(fileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Ошибка при открытии файла логов: %v", err)
	}

	log.SetOutput(io.MultiWriter(file, os.Stdout))
	if debug {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	return log
}

// SetOutput перенаправляет логгер, используется в тестах
func SetOutput(w io.Writer) {
	log.SetFormatter(&CustomFormatter{})
	log.SetOutput(w)
}

func Log(module string, level logrus.Level, message string) {
	entry := log.WithFields(logrus.Fields{
		"module": module,
	})

	switch level {
	case logrus.TraceLevel:
		entry.Trace(message)
	case logrus.DebugLevel:
		entry.Debug(message)
	case logrus.InfoLevel:
		entry.Info(message)
	case logrus.WarnLevel:
		entry.Warn(message)
	case logrus.ErrorLevel:
		entry.Error(message)
	case logrus.FatalLevel:
		entry.Fatal(message)
	case logrus.PanicLevel:
		entry.Panic(message)
	default:
		entry.Info(message)
	}
}

func Logf(module string, level logrus.Level, format string, args ...any) {
	Log(module, level, fmt.Sprintf(format, args...))
}
