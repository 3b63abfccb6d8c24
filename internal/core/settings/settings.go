package settings

import (
	"fmt"
	"sync"
)

// Thresholds набор порогов уверенности, которые читает анализ
type Thresholds struct {
	FilterBreadLabelConfidence  float64
	FilterBreadSegConfidence    float64
	BreadDetectionConfidence    float64
	OverrideDetectionConfidence float64
}

// Update частичное обновление порогов, nil означает "оставить как есть"
type Update struct {
	FilterBreadLabelConfidence  *float64 `json:"FILTER_BREAD_LABEL_CONFIDENCE"`
	FilterBreadSegConfidence    *float64 `json:"FILTER_BREAD_SEG_CONFIDENCE"`
	BreadDetectionConfidence    *float64 `json:"BREAD_DETECTION_CONFIDENCE"`
	OverrideDetectionConfidence *float64 `json:"OVERRIDE_DETECTION_CONFIDENCE"`
}

type Settings struct {
	mu         sync.RWMutex
	thresholds Thresholds
}

func NewSettings(initial Thresholds) *Settings {
	return &Settings{thresholds: initial}
}

// Snapshot возвращает копию текущих порогов
func (s *Settings) Snapshot() Thresholds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.thresholds
}

// Apply применяет обновление целиком или не применяет вовсе
func (s *Settings) Apply(u Update) (Thresholds, error) {
	for name, v := range map[string]*float64{
		"FILTER_BREAD_LABEL_CONFIDENCE": u.FilterBreadLabelConfidence,
		"FILTER_BREAD_SEG_CONFIDENCE":   u.FilterBreadSegConfidence,
		"BREAD_DETECTION_CONFIDENCE":    u.BreadDetectionConfidence,
		"OVERRIDE_DETECTION_CONFIDENCE": u.OverrideDetectionConfidence,
	} {
		if v != nil && (*v < 0 || *v > 1) {
			return s.Snapshot(), fmt.Errorf("%s must be within [0, 1], got %v", name, *v)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	setIfPresent(&s.thresholds.FilterBreadLabelConfidence, u.FilterBreadLabelConfidence)
	setIfPresent(&s.thresholds.FilterBreadSegConfidence, u.FilterBreadSegConfidence)
	setIfPresent(&s.thresholds.BreadDetectionConfidence, u.BreadDetectionConfidence)
	setIfPresent(&s.thresholds.OverrideDetectionConfidence, u.OverrideDetectionConfidence)

	return s.thresholds, nil
}

func setIfPresent(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
