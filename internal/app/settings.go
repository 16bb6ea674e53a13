package app

import (
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/bjo163/shopadmin/internal/domain"
)

// ConfigManager reads typed settings from the sys_config table.
type ConfigManager struct {
	app *Application
}

func NewConfigManager(app *Application) *ConfigManager {
	return &ConfigManager{app: app}
}

func (m *ConfigManager) value(category, name string) (string, bool) {
	var cfg domain.SysConfig
	err := m.app.gormDB.Where("type = ? and name = ?", category, name).First(&cfg).Error
	if err != nil {
		return "", false
	}
	return cfg.Value, true
}

func (m *ConfigManager) GetString(category, name string) string {
	v, _ := m.value(category, name)
	return v
}

func (m *ConfigManager) GetInt(category, name string) int {
	v, _ := m.value(category, name)
	return cast.ToInt(v)
}

func (m *ConfigManager) GetInt64(category, name string) int64 {
	v, _ := m.value(category, name)
	return cast.ToInt64(v)
}

func (m *ConfigManager) GetBool(category, name string) bool {
	v, _ := m.value(category, name)
	return cast.ToBool(v)
}

// Set creates or updates a single setting.
func (m *ConfigManager) Set(category, name, value string) error {
	var cfg domain.SysConfig
	err := m.app.gormDB.Where("type = ? and name = ?", category, name).First(&cfg).Error
	if err != nil {
		return m.app.gormDB.Create(&domain.SysConfig{
			Type:      category,
			Name:      name,
			Value:     value,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}).Error
	}
	err = m.app.gormDB.Model(&domain.SysConfig{}).
		Where("id = ?", cfg.ID).
		Updates(map[string]interface{}{"value": value, "updated_at": time.Now()}).Error
	if err != nil {
		zap.L().Error("failed to update setting",
			zap.String("category", category), zap.String("name", name), zap.Error(err))
	}
	return err
}
