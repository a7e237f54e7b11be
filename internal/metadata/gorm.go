package metadata

import (
	"time"

	"gorm.io/gorm"
)

type row struct {
	Key       string    `gorm:"column:key;primary_key"`
	Value     string    `gorm:"column:value"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (row) TableName() string { return "metadata" }

// GormStore persists metadata in the shared application database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(key string) (string, error) {
	var r row
	err := s.db.First(&r, "key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return r.Value, nil
}

func (s *GormStore) Set(key, value string) error {
	r := row{Key: key, Value: value, UpdatedAt: time.Now()}
	// Upsert by primary key
	res := s.db.Model(&row{}).Where("key = ?", key).
		Updates(map[string]interface{}{"value": value, "updated_at": r.UpdatedAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return s.db.Create(&r).Error
	}
	return nil
}

func (s *GormStore) Delete(key string) error {
	return s.db.Delete(&row{}, "key = ?", key).Error
}

func (s *GormStore) DeleteByPrefix(prefix string) error {
	return s.db.Delete(&row{}, "key LIKE ?", prefix+"%").Error
}

func (s *GormStore) Keys(prefix string) ([]string, error) {
	var keys []string
	err := s.db.Model(&row{}).Where("key LIKE ?", prefix+"%").Pluck("key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *GormStore) LastModified(key string) (time.Time, error) {
	var r row
	err := s.db.First(&r, "key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, err
	}
	return r.UpdatedAt, nil
}
