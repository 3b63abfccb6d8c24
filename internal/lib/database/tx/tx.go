package tx

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"roundbread-bot/logging"
)

// Run выполняет fn в одной транзакции. Ошибка движка логируется, транзакция
// откатывается, а ошибка возвращается вызывающему, который вправе ее игнорировать.
func Run(db *gorm.DB, op string, fn func(tx *gorm.DB) error) error {
	err := db.Transaction(fn)
	if err != nil {
		logging.Log("Database", logrus.ErrorLevel, fmt.Sprintf("Ошибка SQLite при %s, транзакция отменена: %v", op, err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
