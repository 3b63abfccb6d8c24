package message

import (
	"math"

	"gorm.io/gorm"
	modeldb "roundbread-bot/internal/lib/database/model"
)

// HistoryLimit сколько последних измерений попадает в историю пользователя
const HistoryLimit = 50

type HandlerDBMessage struct {
	DB *gorm.DB
}

func NewHandlerDBMessage(db *gorm.DB) *HandlerDBMessage {
	return &HandlerDBMessage{DB: db}
}

// scored только записи с посчитанной округлостью
func (h *HandlerDBMessage) scored() *gorm.DB {
	return h.DB.Model(&modeldb.Message{}).Where("roundness IS NOT NULL")
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func normalize(m *modeldb.Message) {
	if m.Roundness != nil {
		r := roundTo2(*m.Roundness)
		m.Roundness = &r
	}
}
