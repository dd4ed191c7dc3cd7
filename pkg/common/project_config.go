package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ProjectSettings contains the per-checkout settings kept next to deploy.json
type ProjectSettings struct {
	ProjectUUID      string `yaml:"project_uuid"`
	TelemetryEnabled bool   `yaml:"telemetry_enabled"`
}

// ProjectConfigFile is the settings file name inside a project directory
const ProjectConfigFile = ".config.opskit.yml"

// SaveProjectSettings writes a fresh project id and the telemetry choice
func SaveProjectSettings(projectDir string, telemetryEnabled bool) error {
	settings := ProjectSettings{
		ProjectUUID:      uuid.New().String(),
		TelemetryEnabled: telemetryEnabled,
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	configPath := filepath.Join(projectDir, ProjectConfigFile)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadProjectSettings loads project settings from the current directory
func LoadProjectSettings() (*ProjectSettings, error) {
	return loadProjectSettingsFromLocation(ProjectConfigFile)
}

func loadProjectSettingsFromLocation(location string) (*ProjectSettings, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, err
	}

	var settings ProjectSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &settings, nil
}

// IsTelemetryEnabled returns whether telemetry is enabled for the project.
// OPSKIT_TELEMETRY overrides the project file.
func IsTelemetryEnabled() bool {
	switch os.Getenv("OPSKIT_TELEMETRY") {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return isTelemetryEnabled(ProjectConfigFile)
}

func isTelemetryEnabled(location string) bool {
	settings, err := loadProjectSettingsFromLocation(location)
	if err != nil {
		return false // Config doesn't exist, assume telemetry disabled
	}
	return settings.TelemetryEnabled
}

// GetProjectUUID returns the project UUID or empty string if not found
func GetProjectUUID() string {
	return getProjectUUIDFromLocation(ProjectConfigFile)
}

func getProjectUUIDFromLocation(location string) string {
	settings, err := loadProjectSettingsFromLocation(location)
	if err != nil {
		return ""
	}
	return settings.ProjectUUID
}
