// Package pipeline orchestrates one chat turn end to end: forecast and risk,
// entity extraction, knowledge retrieval, prompt composition, the provider
// chain, and the offline responder when the chain comes up empty.
package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/sharath2004-tech/climate-disaster-sub000/internal/cache"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/chain"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/composer"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/entity"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/forecast"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/knowledge"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/observability"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/responder"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/risk"
	"github.com/sharath2004-tech/climate-disaster-sub000/internal/session"
)

// Fetcher supplies forecasts. Satisfied by forecast.Client.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64) (forecast.Forecast, error)
}

// TurnRequest is one incoming chat message with its context.
type TurnRequest struct {
	Message        string
	SessionID      string
	Location       string
	Lat, Lon       float64
	Language       string
	AlertSummaries []string
}

// TurnResponse is the answer to one turn. ForecastAvailable is false when the
// forecast source failed; the answer then carries no risk context.
type TurnResponse struct {
	Text              string
	Provider          string
	SessionID         string
	ForecastAvailable bool
	Urgent            bool
	Prediction        *risk.Prediction
}

// Advisor runs the advisory pipeline.
type Advisor struct {
	fetcher  Fetcher
	chain    *chain.Chain
	sessions *session.Manager
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewAdvisor wires the pipeline components together.
func NewAdvisor(fetcher Fetcher, ch *chain.Chain, sessions *session.Manager, metrics *observability.Metrics, logger *slog.Logger) *Advisor {
	return &Advisor{
		fetcher:  fetcher,
		chain:    ch,
		sessions: sessions,
		metrics:  metrics,
		logger:   logger,
	}
}

// Turn processes one chat message and always returns an answer. Forecast
// failure degrades the answer instead of blocking it; provider failures are
// resolved inside the chain or by the offline responder.
func (a *Advisor) Turn(ctx context.Context, req TurnRequest) (TurnResponse, error) {
	a.metrics.ChatTurns.Inc()

	sess, err := a.sessions.Ensure(req.SessionID)
	if err != nil {
		return TurnResponse{}, err
	}

	language := req.Language
	if language == "" {
		if sess.Language != "" {
			language = sess.Language
		} else {
			language = composer.DefaultLanguage
		}
	}
	location := req.Location
	if location == "" {
		location = sess.Location
	}

	// Forecast fetch and entity extraction are independent; run them side
	// by side. Entity extraction never fails, the forecast leg degrades.
	var (
		fc         forecast.Forecast
		fcErr      error
		entities   []entity.Entity
		prediction *risk.Prediction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fc, fcErr = a.fetcher.Fetch(gctx, req.Lat, req.Lon)
		return nil
	})
	g.Go(func() error {
		entities = entity.Extract(req.Message)
		return nil
	})
	if err := g.Wait(); err != nil {
		return TurnResponse{}, err
	}

	forecastAvailable := fcErr == nil
	if fcErr != nil {
		a.metrics.ForecastFailures.Inc()
		a.logger.Warn("forecast unavailable, answering without risk context",
			"location", location, "error", fcErr)
	} else {
		p := risk.Classify(fc.Days)
		prediction = &p
	}

	var kPrediction risk.Prediction
	if prediction != nil {
		kPrediction = *prediction
	}
	fragments := knowledge.Retrieve(req.Message, kPrediction)

	history, err := a.sessions.Recent(sess.ID, 10)
	if err != nil {
		a.logger.Warn("reading session history", "session", sess.ID, "error", err)
		history = nil
	}

	var current *forecast.Conditions
	if forecastAvailable {
		current = &fc.Current
	}
	prompt := composer.Compose(composer.Input{
		LocationName:   location,
		Current:        current,
		AlertSummaries: req.AlertSummaries,
		Prediction:     prediction,
		Entities:       entities,
		History:        historyTurns(history),
		Knowledge:      fragments,
		Language:       language,
	})

	urgent := entity.Urgent(entities)
	result := a.chain.Generate(ctx, chain.Input{
		Prompt:   prompt,
		Message:  req.Message,
		CacheKey: cache.Key(req.Message, location),
		Urgent:   urgent,
	})
	a.recordChain(result)

	text := result.Text
	providerID := result.ProviderID
	if result.Exhausted {
		if ctx.Err() != nil {
			// Aborted turn: discard, commit nothing.
			return TurnResponse{}, ctx.Err()
		}
		text = responder.Respond(req.Message, entities, prediction, language)
		providerID = responder.ID
	}

	if err := a.sessions.Append(sess.ID, req.Message, text, providerID, location, req.Language); err != nil {
		a.logger.Warn("appending conversation turn", "session", sess.ID, "error", err)
	}

	return TurnResponse{
		Text:              text,
		Provider:          providerID,
		SessionID:         sess.ID,
		ForecastAvailable: forecastAvailable,
		Urgent:            urgent,
		Prediction:        prediction,
	}, nil
}

// Predict classifies the forecast for coordinates without a conversation.
func (a *Advisor) Predict(ctx context.Context, lat, lon float64) (risk.Prediction, error) {
	fc, err := a.fetcher.Fetch(ctx, lat, lon)
	if err != nil {
		a.metrics.ForecastFailures.Inc()
		return risk.Prediction{}, err
	}
	return risk.Classify(fc.Days), nil
}

func (a *Advisor) recordChain(result chain.Result) {
	if result.Cached {
		a.metrics.CacheHits.Inc()
		return
	}
	a.metrics.CacheMisses.Inc()
	for _, attempt := range result.Attempts {
		outcome := "success"
		if attempt.Err != nil {
			outcome = "failure"
		}
		a.metrics.ProviderAttempts.WithLabelValues(attempt.ProviderID, outcome).Inc()
	}
	if result.Exhausted {
		a.metrics.ChainExhausted.Inc()
	}
}

func historyTurns(turns []session.Turn) []composer.Turn {
	out := make([]composer.Turn, 0, len(turns))
	for _, t := range turns {
		out = append(out, composer.Turn{Role: t.Role, Content: t.Content})
	}
	return out
}
