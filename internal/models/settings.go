package models

import (
	"errors"
	"fmt"
	"time"
)

// SettingsKey is the fixed primary key of the singleton settings record.
const SettingsKey = "app_settings"

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var ErrUnknownTheme = errors.New("unknown theme")

// ParseTheme validates s as a Theme.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
	}
}

// Settings is the singleton settings record. Every field is optional in
// storage; Normalized fills the documented defaults:
//
//	theme               light
//	lastBackupTimestamp null
//	showTitleField      true
//	showOnThisDay       true
type Settings struct {
	Theme               *Theme     `json:"theme,omitempty"`
	LastBackupTimestamp *time.Time `json:"lastBackupTimestamp,omitempty"`
	ShowTitleField      *bool      `json:"showTitleField,omitempty"`
	ShowOnThisDay       *bool      `json:"showOnThisDay,omitempty"`
}

// DefaultSettings returns the record inserted on first initialization.
func DefaultSettings() Settings {
	return Settings{
		Theme:          Ptr(ThemeLight),
		ShowTitleField: Ptr(true),
		ShowOnThisDay:  Ptr(true),
	}
}

// Normalized returns a copy with absent fields set to their defaults.
// LastBackupTimestamp stays nil when it was never set.
func (s Settings) Normalized() Settings {
	out := DefaultSettings()
	out.Merge(s)
	return out
}

// Merge overwrites the fields of s that are present in other.
func (s *Settings) Merge(other Settings) {
	if other.Theme != nil {
		s.Theme = Ptr(*other.Theme)
	}
	if other.LastBackupTimestamp != nil {
		s.LastBackupTimestamp = Ptr(other.LastBackupTimestamp.UTC())
	}
	if other.ShowTitleField != nil {
		s.ShowTitleField = Ptr(*other.ShowTitleField)
	}
	if other.ShowOnThisDay != nil {
		s.ShowOnThisDay = Ptr(*other.ShowOnThisDay)
	}
}

// Empty reports whether no field is set.
func (s Settings) Empty() bool {
	return s.Theme == nil && s.LastBackupTimestamp == nil && s.ShowTitleField == nil && s.ShowOnThisDay == nil
}

// ThemeOrDefault and the accessors below read a field with its default applied.
func (s Settings) ThemeOrDefault() Theme {
	if s.Theme == nil {
		return ThemeLight
	}
	return *s.Theme
}

func (s Settings) ShowTitleFieldOrDefault() bool {
	return s.ShowTitleField == nil || *s.ShowTitleField
}

func (s Settings) ShowOnThisDayOrDefault() bool {
	return s.ShowOnThisDay == nil || *s.ShowOnThisDay
}
