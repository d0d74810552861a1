// Package service orchestrates funnel runs: it ties the transition engine to
// the session store, the run-state cache, the CRM webhook and sales alerts.
package service

import (
	"context"
	"sync"
	"time"

	"funnel-engine/internal/common/errors"
	"funnel-engine/internal/common/logger"
	"funnel-engine/internal/common/metrics"
	"funnel-engine/internal/common/observability"
	"funnel-engine/internal/funnel/engine"
	"funnel-engine/internal/funnel/graph"
	"funnel-engine/internal/funnel/lead"
	"funnel-engine/internal/models"
	"funnel-engine/internal/store"
	"funnel-engine/internal/webhook"
)

// Dispatcher delivers completed sessions to the CRM.
type Dispatcher interface {
	Send(ctx context.Context, payload map[string]interface{}) webhook.Result
}

// CompletionNotifier pushes internal alerts about completed sessions.
type CompletionNotifier interface {
	NotifyCompletion(ctx context.Context, session *models.Session)
}

// FunnelService drives sessions through the question graph.
type FunnelService struct {
	engine     *engine.Engine
	store      store.SessionStore
	runCache   *store.RunCache
	dispatcher Dispatcher
	notifier   CompletionNotifier
	obs        *observability.Observability
	log        logger.Logger

	// completing guards the webhook against concurrent completion requests
	// for the same session racing ahead of the webhook_sent_at stamp.
	completing sync.Map
}

// New creates a funnel service. runCache, dispatcher, notifier and obs may be
// nil; the corresponding behavior is skipped.
func New(
	eng *engine.Engine,
	sessions store.SessionStore,
	runCache *store.RunCache,
	dispatcher Dispatcher,
	notifier CompletionNotifier,
	obs *observability.Observability,
	log logger.Logger,
) *FunnelService {
	return &FunnelService{
		engine:     eng,
		store:      sessions,
		runCache:   runCache,
		dispatcher: dispatcher,
		notifier:   notifier,
		obs:        obs,
		log:        log,
	}
}

// StartSession creates a new run at the funnel entry.
func (s *FunnelService) StartSession(ctx context.Context, meta models.SessionMetadata) (*SessionView, error) {
	session, err := s.store.Create(ctx, s.engine.Graph().EntryID(), meta)
	if err != nil {
		return nil, err
	}

	state := s.engine.NewRun(session.ID)
	s.cacheState(ctx, state)

	metrics.SessionsCreated.Inc()
	s.recordEvent(ctx, "session_started")
	return s.view(session, state), nil
}

// GetSession returns the current view of a session.
func (s *FunnelService) GetSession(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	state, err := s.loadState(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.view(session, state), nil
}

// ListSessions returns the newest sessions for dashboard use.
func (s *FunnelService) ListSessions(ctx context.Context, limit int) ([]models.Session, error) {
	return s.store.ListRecent(ctx, limit)
}

// AnswerQuestion applies an answer pick to an active session. The answer's
// score delta and tags are merged into the stored session and the answer is
// recorded; reaching a result node completes the session.
func (s *FunnelService) AnswerQuestion(ctx context.Context, id, answerID string) (*SessionView, error) {
	session, state, err := s.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	step, err := s.engine.SelectAnswer(state, answerID)
	if err != nil {
		return nil, err
	}

	nodeID := state.CurrentNodeID
	text := step.AnswerText
	session, err = s.store.Update(ctx, id, models.SessionPatch{
		CurrentQuestionID: &nodeID,
		ScoreDelta:        &step.ScoreDelta,
		AddTags:           step.Tags,
		Answer: &models.AnswerStep{
			QuestionID: step.FromNodeID,
			AnswerID:   answerID,
			AnswerText: &text,
		},
	})
	if err != nil {
		return nil, err
	}

	metrics.AnswersRecorded.WithLabelValues(step.FromNodeID).Inc()
	s.recordEvent(ctx, "answer_recorded")
	s.cacheState(ctx, state)

	if step.Completed {
		session = s.completeSession(ctx, session)
	}
	return s.view(session, state), nil
}

// SubmitLead applies a contact submission on a lead-capture node. Validation
// failures surface as a ValidationError with per-field messages and leave the
// session untouched.
func (s *FunnelService) SubmitLead(ctx context.Context, id string, fields models.LeadFields) (*SessionView, error) {
	session, state, err := s.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	step, err := s.engine.SubmitLeadFields(state, fields)
	if err != nil {
		return nil, err
	}

	nodeID := state.CurrentNodeID
	patch := models.SessionPatch{CurrentQuestionID: &nodeID}
	if step.Lead.FirstName != "" {
		patch.FirstName = &step.Lead.FirstName
	}
	if step.Lead.LastName != "" {
		patch.LastName = &step.Lead.LastName
	}
	if step.Lead.Email != "" {
		patch.Email = &step.Lead.Email
	}
	if step.Lead.Phone != "" {
		patch.Phone = &step.Lead.Phone
	}

	session, err = s.store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.recordEvent(ctx, "lead_captured")
	s.cacheState(ctx, state)

	if step.Completed {
		session = s.completeSession(ctx, session)
	}
	return s.view(session, state), nil
}

// Continue acknowledges a transition node and moves on.
func (s *FunnelService) Continue(ctx context.Context, id string) (*SessionView, error) {
	session, state, err := s.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	step, err := s.engine.ContinueTransition(state)
	if err != nil {
		return nil, err
	}

	nodeID := state.CurrentNodeID
	session, err = s.store.Update(ctx, id, models.SessionPatch{CurrentQuestionID: &nodeID})
	if err != nil {
		return nil, err
	}

	s.cacheState(ctx, state)
	if step.Completed {
		session = s.completeSession(ctx, session)
	}
	return s.view(session, state), nil
}

// GoBack rewinds the session one step. Accumulated score and tags stay as
// they are; only the position changes.
func (s *FunnelService) GoBack(ctx context.Context, id string) (*SessionView, error) {
	session, state, err := s.loadActive(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.engine.GoBack(state); err != nil {
		return nil, err
	}

	nodeID := state.CurrentNodeID
	session, err = s.store.Update(ctx, id, models.SessionPatch{CurrentQuestionID: &nodeID})
	if err != nil {
		return nil, err
	}

	s.cacheState(ctx, state)
	return s.view(session, state), nil
}

// Complete marks an active session completed and triggers the CRM webhook.
// Completing a session that already ended is rejected.
func (s *FunnelService) Complete(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusActive {
		return nil, errors.NewSessionEndedError(id, session.Status)
	}

	state, err := s.loadState(ctx, session)
	if err != nil {
		return nil, err
	}
	state.Completed = true
	session = s.completeSession(ctx, session)
	s.cacheState(ctx, state)
	return s.view(session, state), nil
}

// Abandon marks an active session abandoned. No webhook is sent; abandoned
// runs are only visible through the store.
func (s *FunnelService) Abandon(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusActive {
		return nil, errors.NewSessionEndedError(id, session.Status)
	}

	status := models.StatusAbandoned
	session, err = s.store.Update(ctx, id, models.SessionPatch{Status: &status})
	if err != nil {
		return nil, err
	}

	metrics.SessionsAbandoned.Inc()
	s.recordEvent(ctx, "session_abandoned")
	if s.runCache != nil {
		_ = s.runCache.Drop(ctx, id)
	}

	state, _ := s.loadState(ctx, session)
	return s.view(session, state), nil
}

// completeSession transitions the session to completed and delivers the CRM
// webhook at most once. A delivery failure is recorded in logs and metrics
// but the completion itself stands; there is no retry.
func (s *FunnelService) completeSession(ctx context.Context, session *models.Session) *models.Session {
	id := session.ID

	if session.Status == models.StatusActive {
		status := models.StatusCompleted
		updated, err := s.store.Update(ctx, id, models.SessionPatch{Status: &status})
		if err != nil {
			s.log.WithError(err).Error("Failed to mark session completed", map[string]interface{}{
				"sessionId": id,
			})
			return session
		}
		session = updated

		tier := models.TierNurture
		if session.QualificationTier != nil {
			tier = *session.QualificationTier
		}
		metrics.SessionsCompleted.WithLabelValues(tier).Inc()
		s.recordEvent(ctx, "session_completed")
	}

	if session.WebhookDelivered() {
		return session
	}
	if _, inFlight := s.completing.LoadOrStore(id, struct{}{}); inFlight {
		return session
	}
	defer s.completing.Delete(id)

	if s.dispatcher != nil {
		full, err := s.store.GetWithAnswers(ctx, id)
		if err != nil {
			s.log.WithError(err).Error("Failed to load session for webhook", map[string]interface{}{
				"sessionId": id,
			})
			return session
		}

		start := time.Now()
		result := s.dispatcher.Send(ctx, webhook.BuildPayload(s.engine.Graph(), full))
		s.recordWebhook(ctx, time.Since(start), result.Success)

		if result.Success {
			now := time.Now().UTC()
			if err := s.store.MarkWebhookSent(ctx, id, now); err != nil {
				s.log.WithError(err).Error("Failed to stamp webhook delivery", map[string]interface{}{
					"sessionId": id,
				})
			} else {
				session.WebhookSentAt = &now
			}
		} else {
			s.log.Error("Webhook delivery failed for completed session", map[string]interface{}{
				"sessionId": id,
				"error":     result.Error,
			})
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyCompletion(ctx, session)
	}
	return session
}

// loadActive returns the session and its run state, rejecting sessions that
// already ended.
func (s *FunnelService) loadActive(ctx context.Context, id string) (*models.Session, *engine.RunState, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if session.Status != models.StatusActive {
		return nil, nil, errors.NewSessionEndedError(id, session.Status)
	}
	state, err := s.loadState(ctx, session)
	if err != nil {
		return nil, nil, err
	}
	return session, state, nil
}

// loadState returns the cached run state, or rebuilds a minimal one from the
// session row on a miss. A rebuilt state has no history, so go-back from it
// is a no-op until the visitor moves forward again.
func (s *FunnelService) loadState(ctx context.Context, session *models.Session) (*engine.RunState, error) {
	if s.runCache != nil {
		state, err := s.runCache.Load(ctx, session.ID)
		if err != nil {
			s.log.WithError(err).Warn("Run-state cache unavailable", map[string]interface{}{
				"sessionId": session.ID,
			})
		} else if state != nil {
			return state, nil
		}
	}

	state := &engine.RunState{
		SessionID:     session.ID,
		CurrentNodeID: session.CurrentQuestionID,
		History:       []string{},
		Answers:       map[string]string{},
		Completed:     session.Status != models.StatusActive,
	}
	if session.FirstName != nil {
		state.FirstName = *session.FirstName
	}
	return state, nil
}

func (s *FunnelService) cacheState(ctx context.Context, state *engine.RunState) {
	if s.runCache == nil {
		return
	}
	if err := s.runCache.Save(ctx, state); err != nil {
		s.log.WithError(err).Warn("Failed to cache run state", map[string]interface{}{
			"sessionId": state.SessionID,
		})
	}
}

func (s *FunnelService) recordEvent(ctx context.Context, event string) {
	if s.obs != nil {
		s.obs.RecordSessionEvent(ctx, event)
	}
}

func (s *FunnelService) recordWebhook(ctx context.Context, d time.Duration, success bool) {
	if s.obs == nil {
		return
	}
	status := "success"
	if !success {
		status = "failure"
	}
	s.obs.RecordWebhookDuration(ctx, d, status)
}

// TierInfo exposes the tier descriptor for a score.
func (s *FunnelService) TierInfo(score int) lead.TierInfo {
	return lead.TierFor(score)
}

// Graph exposes the engine's graph for transport-layer rendering.
func (s *FunnelService) Graph() *graph.Graph {
	return s.engine.Graph()
}
