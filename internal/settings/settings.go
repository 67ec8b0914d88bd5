package settings

import (
	"fmt"
	"strconv"

	"github.com/kaplanhukuk/uyap-importer/internal/database"
	"gorm.io/gorm"
)

const (
	keyAPIURL   = "api_url"
	keyAutoSync = "auto_sync"

	DefaultAPIURL = "http://localhost:5000"
)

// Settings mirrors the persisted extension preferences.
type Settings struct {
	APIURL   string `json:"apiUrl"`
	AutoSync bool   `json:"autoSync"`
}

// Store persists settings as key-value rows.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Load returns the stored settings, filling in defaults for missing keys.
func (s *Store) Load() (Settings, error) {
	out := Settings{
		APIURL:   DefaultAPIURL,
		AutoSync: false,
	}

	var rows []database.Setting
	if err := s.db.Find(&rows).Error; err != nil {
		return out, fmt.Errorf("failed to load settings: %w", err)
	}

	for _, row := range rows {
		switch row.Key {
		case keyAPIURL:
			if row.Value != "" {
				out.APIURL = row.Value
			}
		case keyAutoSync:
			out.AutoSync = row.Value == "true"
		}
	}

	return out, nil
}

// Save upserts both settings keys.
func (s *Store) Save(in Settings) error {
	if in.APIURL == "" {
		in.APIURL = DefaultAPIURL
	}

	pairs := map[string]string{
		keyAPIURL:   in.APIURL,
		keyAutoSync: strconv.FormatBool(in.AutoSync),
	}

	for key, value := range pairs {
		var row database.Setting
		err := s.db.Where("key = ?", key).First(&row).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			row = database.Setting{Key: key, Value: value}
			if err := s.db.Create(&row).Error; err != nil {
				return fmt.Errorf("failed to create setting %s: %w", key, err)
			}
		case err != nil:
			return fmt.Errorf("failed to read setting %s: %w", key, err)
		default:
			row.Value = value
			if err := s.db.Save(&row).Error; err != nil {
				return fmt.Errorf("failed to update setting %s: %w", key, err)
			}
		}
	}

	return nil
}
