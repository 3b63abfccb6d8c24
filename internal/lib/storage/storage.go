package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"roundbread-bot/logging"
)

const (
	predictionsDir = "predictions"
	plotsDir       = "plots"
)

// Storage файловая область для скачанных вложений, результатов и графиков
type Storage struct {
	Root string
}

func NewStorage(root string) *Storage {
	for _, dir := range []string{root, filepath.Join(root, predictionsDir), filepath.Join(root, plotsDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logging.Log("Система", logrus.PanicLevel, fmt.Sprintf("Ошибка создания директории %s: %v", dir, err))
		}
	}

	return &Storage{Root: root}
}

// SaveAttachment сохраняет вложение под его именем и возвращает путь
func (s *Storage) SaveAttachment(fileName string, data []byte) (string, error) {
	return s.write(filepath.Join(s.Root, safeName(fileName)), data)
}

// SavePrediction сохраняет перекодированное изображение в predictions/
func (s *Storage) SavePrediction(fileName string, data []byte) (string, error) {
	return s.write(s.PredictionPath(fileName), data)
}

func (s *Storage) PredictionPath(fileName string) string {
	return filepath.Join(s.Root, predictionsDir, safeName(fileName))
}

// PlotPath путь графика истории пользователя
func (s *Storage) PlotPath(authorID int64) string {
	return filepath.Join(s.Root, plotsDir, fmt.Sprintf("%d_roundhistory.png", authorID))
}

func (s *Storage) write(path string, data []byte) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// safeName отрезает путь, чтобы имя вложения не вышло за пределы Root
func safeName(fileName string) string {
	name := filepath.Base(filepath.Clean("/" + fileName))
	if name == "/" || name == "." {
		return "attachment"
	}
	return name
}
