// Package kitchenfile reads per-kitchen settings from a YAML file.
//
// Example file:
//
//	kitchens:
//	  - id: 6f1c2b9e-3f7a-4a53-9d0e-2a7c1b8e4d10
//	    timezone: America/New_York
//	    notify_users:
//	      - 0b6e9a4c-6a1d-4d8e-9b3f-5c2e7f1a9d22
//	    telegram_chat_id: -1001234567890
//	    webhook_url: https://example.com/hooks/orders
//
// Kitchens missing from the file use the default time zone and no
// notification targets.
package kitchenfile

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // kitchens may use zones missing from the host

	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/kitchen"
	"backoffice/internal/core/ports"
	"backoffice/internal/pkg/errs"

	"gopkg.in/yaml.v3"
)

var _ ports.KitchenDirectory = (*Directory)(nil)

type fileDTO struct {
	Kitchens []kitchenDTO `yaml:"kitchens"`
}

type kitchenDTO struct {
	ID             string   `yaml:"id"`
	Timezone       string   `yaml:"timezone"`
	NotifyUsers    []string `yaml:"notify_users"`
	TelegramChatID int64    `yaml:"telegram_chat_id"`
	WebhookURL     string   `yaml:"webhook_url"`
}

// Directory is an immutable in-memory kitchen directory.
type Directory struct {
	fallback *time.Location
	kitchens map[kernel.UUID]kitchen.Settings
}

// Load reads path. An empty path yields a directory with defaults only.
func Load(path string, defaultTimezone string) (*Directory, error) {
	if path == "" {
		return Parse(nil, defaultTimezone)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kitchens file: %w", err)
	}
	return Parse(data, defaultTimezone)
}

// Parse builds a directory from YAML content.
func Parse(data []byte, defaultTimezone string) (*Directory, error) {
	fallback, err := loadLocation("default_timezone", defaultTimezone)
	if err != nil {
		return nil, err
	}

	var file fileDTO
	if err = yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse kitchens file: %w", err)
	}

	kitchens := make(map[kernel.UUID]kitchen.Settings, len(file.Kitchens))
	var errList []error
	for i, dto := range file.Kitchens {
		settings, convErr := toSettings(dto, fallback)
		if convErr != nil {
			errList = append(errList, fmt.Errorf("kitchens[%d]: %w", i, convErr))
			continue
		}
		if _, dup := kitchens[settings.ID]; dup {
			errList = append(errList, fmt.Errorf("kitchens[%d]: %w", i,
				errs.NewValueIsInvalidErrorWithCause("id", fmt.Errorf("kitchen %s listed twice", settings.ID))))
			continue
		}
		kitchens[settings.ID] = settings
	}
	if err = errors.Join(errList...); err != nil {
		return nil, err
	}

	return &Directory{fallback: fallback, kitchens: kitchens}, nil
}

// Settings returns the configured settings of kitchenID or the defaults.
func (d *Directory) Settings(kitchenID kernel.UUID) kitchen.Settings {
	if s, ok := d.kitchens[kitchenID]; ok {
		s.NotifyUsers = append([]kernel.UUID(nil), s.NotifyUsers...)
		return s
	}
	return kitchen.Settings{ID: kitchenID, Location: d.fallback}
}

// Len returns the number of configured kitchens.
func (d *Directory) Len() int {
	return len(d.kitchens)
}

func toSettings(dto kitchenDTO, fallback *time.Location) (kitchen.Settings, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return kitchen.Settings{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}

	loc := fallback
	if dto.Timezone != "" {
		if loc, err = loadLocation("timezone", dto.Timezone); err != nil {
			return kitchen.Settings{}, err
		}
	}

	users := make([]kernel.UUID, 0, len(dto.NotifyUsers))
	for _, raw := range dto.NotifyUsers {
		user, userErr := kernel.UUIDFromString(raw)
		if userErr != nil {
			return kitchen.Settings{}, errs.NewValueIsInvalidErrorWithCause("notify_users", userErr)
		}
		users = append(users, user)
	}

	return kitchen.Settings{
		ID:             id,
		Location:       loc,
		NotifyUsers:    users,
		TelegramChatID: dto.TelegramChatID,
		WebhookURL:     strings.TrimSpace(dto.WebhookURL),
	}, nil
}

func loadLocation(param, name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return loc, nil
}
