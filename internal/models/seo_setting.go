// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// SettingType declares how a setting value is interpreted.
type SettingType string

const (
	SettingString  SettingType = "string"
	SettingText    SettingType = "text"
	SettingBoolean SettingType = "boolean"
	SettingInteger SettingType = "integer"
	SettingJSON    SettingType = "json"
)

// Valid reports whether t is one of the known setting types.
func (t SettingType) Valid() bool {
	switch t {
	case SettingString, SettingText, SettingBoolean, SettingInteger, SettingJSON:
		return true
	}
	return false
}

// SeoSetting represents a single SEO configuration key-value pair.
type SeoSetting struct {
	Key       string      `json:"key"`
	Value     string      `json:"value"`
	Type      SettingType `json:"type"`
	Group     string      `json:"group"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Typed decodes the raw value according to the setting's type.
func (s *SeoSetting) Typed() (any, error) {
	switch s.Type {
	case SettingBoolean:
		return strconv.ParseBool(s.Value)
	case SettingInteger:
		return strconv.ParseInt(s.Value, 10, 64)
	case SettingJSON:
		var v any
		if err := json.Unmarshal([]byte(s.Value), &v); err != nil {
			return nil, err
		}
		return v, nil
	case SettingString, SettingText, "":
		return s.Value, nil
	}
	return nil, fmt.Errorf("unknown setting type %q", s.Type)
}

// SeoSettings is a convenience map for accessing settings by key.
type SeoSettings map[string]string

// Get returns the value for a key, or the fallback if the key doesn't exist.
func (s SeoSettings) Get(key, fallback string) string {
	if v, ok := s[key]; ok && v != "" {
		return v
	}
	return fallback
}
