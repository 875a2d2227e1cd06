package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/metrics"
	"github.com/amrella/amrella-backend/internal/models"
	"github.com/amrella/amrella-backend/internal/policy"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefaultSettings are inserted at boot when missing. Existing values are
// never overwritten.
var DefaultSettings = []models.PlatformSetting{
	{Key: "platform_name", Value: "Amrella", Type: models.SettingString},
	{Key: "registration_open", Value: "true", Type: models.SettingBool},
	{Key: "maintenance_mode", Value: "false", Type: models.SettingBool},
	{Key: "max_upload_mb", Value: "10", Type: models.SettingInt},
	{Key: "support_categories", Value: `["technical","billing","account","content","other"]`, Type: models.SettingJSON},
}

type SettingsService struct {
	settings SettingsStore
	metrics  *metrics.Metrics
}

func NewSettingsService(settings SettingsStore, m *metrics.Metrics) *SettingsService {
	return &SettingsService{settings: settings, metrics: m}
}

func (s *SettingsService) ListSettings(ctx context.Context, p *policy.Principal) ([]dto.SettingResponse, error) {
	if err := authorize(s.metrics, p, policy.ViewSettings); err != nil {
		return nil, err
	}

	settings, err := s.settings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	out := make([]dto.SettingResponse, len(settings))
	for i, setting := range settings {
		out[i] = settingResponse(setting)
	}
	return out, nil
}

func (s *SettingsService) SetSetting(ctx context.Context, p *policy.Principal, key string, req *dto.SetSettingRequest) (*dto.SettingResponse, error) {
	if err := authorize(s.metrics, p, policy.ManageSettings); err != nil {
		return nil, err
	}

	key = strings.TrimSpace(key)
	if key == "" || len(key) > 100 {
		return nil, invalid("key must be between 1 and 100 characters")
	}
	kind := req.Type
	if kind == "" {
		kind = models.SettingString
	}
	if err := checkValue(kind, req.Value); err != nil {
		return nil, err
	}

	editor := p.ID
	setting := models.PlatformSetting{Key: key, Value: req.Value, Type: kind, UpdatedBy: &editor}
	entry := settingActivity(p.ID, models.ActivitySettingUpdated, key, map[string]interface{}{"value": req.Value, "type": kind})
	if err := s.settings.Upsert(ctx, &setting, entry); err != nil {
		return nil, fmt.Errorf("failed to save setting: %w", err)
	}

	slog.InfoContext(ctx, "setting updated", "key", key, "admin_id", p.ID)
	resp := settingResponse(setting)
	return &resp, nil
}

func (s *SettingsService) DeleteSetting(ctx context.Context, p *policy.Principal, key string) error {
	if err := authorize(s.metrics, p, policy.ManageSettings); err != nil {
		return err
	}

	deleted, err := s.settings.Delete(ctx, key, settingActivity(p.ID, models.ActivitySettingDeleted, key, nil))
	if err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}
	if !deleted {
		return ErrSettingNotFound
	}
	slog.InfoContext(ctx, "setting deleted", "key", key, "admin_id", p.ID)
	return nil
}

// SeedDefaults runs at boot, outside any request, so it skips the policy.
func (s *SettingsService) SeedDefaults(ctx context.Context) error {
	for _, def := range DefaultSettings {
		setting := def
		if err := s.settings.CreateIfMissing(ctx, &setting); err != nil {
			return fmt.Errorf("failed to seed setting %s: %w", def.Key, err)
		}
	}
	return nil
}

func checkValue(kind, value string) error {
	switch kind {
	case models.SettingString:
		return nil
	case models.SettingBool:
		if _, err := strconv.ParseBool(value); err != nil {
			return invalid("value must be a boolean")
		}
	case models.SettingInt:
		if _, err := strconv.Atoi(value); err != nil {
			return invalid("value must be an integer")
		}
	case models.SettingJSON:
		if !json.Valid([]byte(value)) {
			return invalid("value must be valid JSON")
		}
	default:
		return invalid("invalid type: must be string, bool, int, or json")
	}
	return nil
}

func decodeValue(setting models.PlatformSetting) interface{} {
	var value interface{}
	switch setting.Type {
	case models.SettingBool:
		value, _ = strconv.ParseBool(setting.Value)
	case models.SettingInt:
		value, _ = strconv.Atoi(setting.Value)
	case models.SettingJSON:
		if err := json.Unmarshal([]byte(setting.Value), &value); err != nil {
			value = setting.Value
		}
	default:
		value = setting.Value
	}
	return value
}

func settingResponse(setting models.PlatformSetting) dto.SettingResponse {
	return dto.SettingResponse{
		Key:       setting.Key,
		Value:     decodeValue(setting),
		Type:      setting.Type,
		UpdatedBy: setting.UpdatedBy,
		UpdatedAt: setting.UpdatedAt,
	}
}

func settingActivity(adminID uuid.UUID, action, key string, details map[string]interface{}) *models.AdminActivityLog {
	raw := []byte("{}")
	if details != nil {
		if encoded, err := json.Marshal(details); err == nil {
			raw = encoded
		}
	}
	return &models.AdminActivityLog{
		ID:         uuid.New(),
		AdminID:    adminID,
		Action:     action,
		TargetType: "setting",
		TargetID:   key,
		Details:    datatypes.JSON(raw),
	}
}

// RegistrationOpen reads the registration_open flag. It fails open when the
// flag is missing or unreadable.
func (s *SettingsService) RegistrationOpen(ctx context.Context) bool {
	setting, ok := s.lookup(ctx, "registration_open")
	if !ok {
		return true
	}
	open, isBool := decodeValue(setting).(bool)
	return !isBool || open
}

// PlatformName is the display name used on public pages.
func (s *SettingsService) PlatformName(ctx context.Context) string {
	setting, ok := s.lookup(ctx, "platform_name")
	if !ok || strings.TrimSpace(setting.Value) == "" {
		return "Amrella"
	}
	return setting.Value
}

func (s *SettingsService) lookup(ctx context.Context, key string) (models.PlatformSetting, bool) {
	settings, err := s.settings.List(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to read settings", "error", err)
		return models.PlatformSetting{}, false
	}
	for _, setting := range settings {
		if setting.Key == key {
			return setting, true
		}
	}
	return models.PlatformSetting{}, false
}
