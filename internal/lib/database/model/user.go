package modeldb

// User кэш отображаемых имен авторов
type User struct {
	AuthorID    int64   `gorm:"column:author_id;primaryKey;autoIncrement:false"`
	Nickname    *string `gorm:"column:author_nickname"`
	DisplayName string  `gorm:"column:author_name"`
}

func (User) TableName() string {
	return "discord_users"
}

// Name ник на сервере, если он есть, иначе имя пользователя
func (u User) Name() string {
	if u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname
	}
	return u.DisplayName
}

// HistoryPoint точка истории округлости: порядковый номер и значение
type HistoryPoint struct {
	Rank      int
	Roundness float64
}
