package generator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/julianstephens/studyplan/internal/logger"
	"github.com/julianstephens/studyplan/internal/models"
	"github.com/julianstephens/studyplan/internal/telemetry"
)

const (
	maxRetries     = 3
	initialBackoff = 2 * time.Second
	scope          = "github.com/julianstephens/studyplan/generator"
)

// AnthropicGenerator requests a plan from the Anthropic Messages API.
type AnthropicGenerator struct {
	client         anthropic.Client
	model          anthropic.Model
	maxTokens      int64
	maxRetries     uint64
	initialBackoff time.Duration
}

// NewAnthropic returns a generator using apiKey. Extra request options are
// passed to the client (tests point it at a local server).
func NewAnthropic(apiKey, model string, maxTokens int, opts ...option.RequestOption) (*AnthropicGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: empty key", ErrAPIKeyRequired)
	}
	if model == "" {
		return nil, errors.New("model cannot be empty")
	}
	if maxTokens <= 0 {
		return nil, fmt.Errorf("max tokens must be positive, got %d", maxTokens)
	}

	metricsOnce.Do(initMetrics)

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicGenerator{
		client:         anthropic.NewClient(opts...),
		model:          anthropic.Model(model),
		maxTokens:      int64(maxTokens),
		maxRetries:     maxRetries,
		initialBackoff: initialBackoff,
	}, nil
}

var genMetrics struct {
	inputTokens  metric.Int64Counter
	outputTokens metric.Int64Counter
	duration     metric.Float64Histogram
}

var metricsOnce sync.Once

func initMetrics() {
	m := telemetry.Meter(scope)
	genMetrics.inputTokens, _ = m.Int64Counter("studyplan.ai.input_tokens",
		metric.WithDescription("Anthropic API input tokens consumed"),
		metric.WithUnit("{token}"),
	)
	genMetrics.outputTokens, _ = m.Int64Counter("studyplan.ai.output_tokens",
		metric.WithDescription("Anthropic API output tokens generated"),
		metric.WithUnit("{token}"),
	)
	genMetrics.duration, _ = m.Float64Histogram("studyplan.ai.request.duration",
		metric.WithDescription("Anthropic API request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
}

// Generate sends the plan prompt and decodes the reply. Rate limits, server
// errors and network timeouts are retried with exponential backoff.
func (g *AnthropicGenerator) Generate(ctx context.Context) (models.GeneratedPlan, error) {
	ctx, span := telemetry.Tracer(scope).Start(ctx, "anthropic.messages.new")
	defer span.End()
	span.SetAttributes(
		attribute.String("studyplan.ai.model", string(g.model)),
		attribute.String("studyplan.ai.operation", "generate_plan"),
	)

	params := anthropic.MessageNewParams{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(planPrompt)),
		},
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.initialBackoff
	bo.MaxElapsedTime = 0

	attempts := 0
	var text string
	err := backoff.Retry(func() error {
		attempts++
		t0 := time.Now()
		message, err := g.client.Messages.New(ctx, params)
		ms := float64(time.Since(t0).Milliseconds())
		if err != nil {
			if ctx.Err() != nil || !isRetryable(err) {
				return backoff.Permanent(err)
			}
			logger.Warn("Plan generation request failed, retrying", "attempt", attempts, "error", err)
			return err
		}

		modelAttr := attribute.String("studyplan.ai.model", string(g.model))
		if genMetrics.inputTokens != nil {
			genMetrics.inputTokens.Add(ctx, message.Usage.InputTokens, metric.WithAttributes(modelAttr))
			genMetrics.outputTokens.Add(ctx, message.Usage.OutputTokens, metric.WithAttributes(modelAttr))
			genMetrics.duration.Record(ctx, ms, metric.WithAttributes(modelAttr))
		}
		span.SetAttributes(
			attribute.Int64("studyplan.ai.input_tokens", message.Usage.InputTokens),
			attribute.Int64("studyplan.ai.output_tokens", message.Usage.OutputTokens),
		)

		if len(message.Content) == 0 {
			return backoff.Permanent(errors.New("unexpected response format: no content blocks"))
		}
		content := message.Content[0]
		if content.Type != "text" {
			return backoff.Permanent(fmt.Errorf("unexpected response format: not a text block (type=%s)", content.Type))
		}
		text = content.Text
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(bo, g.maxRetries), ctx))
	span.SetAttributes(attribute.Int("studyplan.ai.attempts", attempts))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.GeneratedPlan{}, fmt.Errorf("plan generation failed after %d attempt(s): %w", attempts, err)
	}

	plan, err := decodePlan(text)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.GeneratedPlan{}, err
	}
	logger.Info("Generated plan", "weeks", len(plan.Weeks), "attempts", attempts)
	return plan, nil
}

func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}

	return false
}
