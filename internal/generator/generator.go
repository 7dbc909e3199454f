// Package generator asks a language model for a complete 12-week plan.
package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/studyplan/internal/keyring"
	"github.com/julianstephens/studyplan/internal/models"
)

var (
	// ErrAPIKeyRequired is returned when no Anthropic API key can be found.
	ErrAPIKeyRequired = errors.New("API key required")
	// ErrGenerationInFlight is returned when another generation is running.
	ErrGenerationInFlight = errors.New("plan generation already in progress")
	// ErrNoPlan is returned when the model reply carries no usable plan.
	ErrNoPlan = errors.New("response did not contain a plan")
)

// Generator produces a plan from an external source.
type Generator interface {
	Generate(ctx context.Context) (models.GeneratedPlan, error)
}

// ResolveAPIKey returns the Anthropic API key from ANTHROPIC_API_KEY, the
// OS keyring, or configKey, in that order.
func ResolveAPIKey(configKey string) (string, error) {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key, nil
	}
	if key, err := keyring.APIKey(); err == nil && key != "" {
		return key, nil
	}
	if configKey != "" {
		return configKey, nil
	}
	return "", fmt.Errorf("%w: set ANTHROPIC_API_KEY, run 'studyplan keyring set api-key', or add ai.api_key to the config file", ErrAPIKeyRequired)
}

// decodePlan extracts the JSON object from a model reply. Replies wrapped
// in prose or markdown fences are accepted.
func decodePlan(text string) (models.GeneratedPlan, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return models.GeneratedPlan{}, ErrNoPlan
	}

	var plan models.GeneratedPlan
	if err := json.Unmarshal([]byte(text[start:end+1]), &plan); err != nil {
		return models.GeneratedPlan{}, fmt.Errorf("failed to decode generated plan: %w", err)
	}
	if len(plan.Weeks) == 0 {
		return models.GeneratedPlan{}, ErrNoPlan
	}
	return plan, nil
}
