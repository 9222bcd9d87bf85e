package verificationService

import (
	"VerifID/internal/api/verification"
	"VerifID/internal/entity"
	contextPkg "VerifID/pkg/context"
	"VerifID/pkg/redis"
	"context"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *wizardDomainImpl) CreateSession(c context.Context, accountID string) (verification.CreateSessionResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	now := time.Now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate session id")
		return verification.CreateSessionResponse{}, err
	}

	session := entity.NewVerificationSession(id, accountID, now)
	if err := s.redisServer.SetSession(c, session); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": id,
			"error":      err.Error(),
		}).Error("Failed to store new session")
		return verification.CreateSessionResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": id,
		"account_id": accountID,
	}).Info("Verification session created")

	return verification.CreateSessionResponse{
		SessionID: id,
		Step:      session.Step,
	}, nil
}

func (s *wizardDomainImpl) loadSession(c context.Context, sessionID string) (entity.VerificationSession, error) {
	session, err := s.redisServer.GetSession(c, sessionID)
	if err != nil {
		if errors.Is(err, redis.ErrSessionNotFound) {
			return entity.VerificationSession{}, verification.ErrSessionNotFound
		}
		return entity.VerificationSession{}, err
	}
	return session, nil
}

func setSessionField(session *entity.VerificationSession, name, value string) bool {
	switch name {
	case entity.FieldFirstName:
		session.FirstName = value
	case entity.FieldMiddleInitial:
		session.MiddleInitial = value
	case entity.FieldLastName:
		session.LastName = value
	case entity.FieldLastFourDigits:
		session.LastFourDigits = value
	case entity.FieldZipCode:
		session.ZipCode = value
	default:
		return false
	}
	return true
}

func sessionFieldValue(session entity.VerificationSession, name string) string {
	switch name {
	case entity.FieldFirstName:
		return session.FirstName
	case entity.FieldMiddleInitial:
		return session.MiddleInitial
	case entity.FieldLastName:
		return session.LastName
	case entity.FieldLastFourDigits:
		return session.LastFourDigits
	case entity.FieldZipCode:
		return session.ZipCode
	default:
		return ""
	}
}

func (s *wizardDomainImpl) UpdateField(c context.Context, req verification.UpdateFieldRequest) (verification.UpdateFieldResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	session, err := s.loadSession(c, req.SessionID)
	if err != nil {
		return verification.UpdateFieldResponse{}, err
	}

	if _, known := session.Validity[req.Name]; !known {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": req.SessionID,
			"field":      req.Name,
		}).Warn("Update for unknown field")
		return verification.UpdateFieldResponse{}, verification.ErrUnknownField
	}

	if !verification.CheckConstraint(req.Name, req.Value) {
		return verification.UpdateFieldResponse{}, verification.ErrValueRejected
	}

	setSessionField(&session, req.Name, req.Value)
	session.Validity[req.Name] = s.validator.Validate(req.Name, req.Value)
	session.UpdatedAt = time.Now()

	if err := s.redisServer.SetSession(c, session); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": req.SessionID,
			"error":      err.Error(),
		}).Error("Failed to store session after field update")
		return verification.UpdateFieldResponse{}, err
	}

	return verification.UpdateFieldResponse{
		SessionID: req.SessionID,
		Name:      req.Name,
		Validity:  session.Validity[req.Name],
	}, nil
}

func advanceFieldValues(req verification.AdvanceRequest) map[string]string {
	return map[string]string{
		entity.FieldFirstName:      req.FirstName,
		entity.FieldMiddleInitial:  req.MiddleInitial,
		entity.FieldLastName:       req.LastName,
		entity.FieldLastFourDigits: req.LastFourDigits,
		entity.FieldZipCode:        req.ZipCode,
	}
}

func (s *wizardDomainImpl) Advance(c context.Context, req verification.AdvanceRequest) (verification.AdvanceResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	if _, loaded := s.inflight.LoadOrStore(req.SessionID, struct{}{}); loaded {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": req.SessionID,
		}).Warn("Concurrent advance rejected")
		return verification.AdvanceResponse{}, verification.ErrSubmissionInFlight
	}
	defer s.inflight.Delete(req.SessionID)

	session, err := s.loadSession(c, req.SessionID)
	if err != nil {
		return verification.AdvanceResponse{}, err
	}

	if session.Step >= entity.StepResult {
		return verification.AdvanceResponse{}, verification.ErrWizardCompleted
	}

	submitted := advanceFieldValues(req)
	for _, name := range verification.StepFields(session.Step) {
		value, ok := submitted[name]
		if !ok || value == "" {
			continue
		}
		if !verification.CheckConstraint(name, value) {
			return verification.AdvanceResponse{}, verification.ErrValueRejected
		}
		setSessionField(&session, name, value)
		session.Validity[name] = s.validator.Validate(name, value)
	}

	fieldErrors := make(map[string]string)
	for _, name := range verification.StepFields(session.Step) {
		validity := s.validator.Validate(name, sessionFieldValue(session, name))
		session.Validity[name] = validity
		if validity != entity.ValidityValid {
			fieldErrors[name] = "invalid"
		}
	}

	session.UpdatedAt = time.Now()

	if len(fieldErrors) > 0 {
		// Step does not move. The stored markers make re-invocation yield
		// the same verdict.
		if err := s.redisServer.SetSession(c, session); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": req.SessionID,
				"error":      err.Error(),
			}).Error("Failed to store session after rejected advance")
			return verification.AdvanceResponse{}, err
		}

		return verification.AdvanceResponse{
			SessionID:   req.SessionID,
			Passed:      false,
			Step:        session.Step,
			FieldErrors: fieldErrors,
		}, nil
	}

	session.Step++

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return verification.AdvanceResponse{}, err
	}

	if err := repo.Records.UpsertRecord(c, recordFromSession(session, false)); err != nil {
		return verification.AdvanceResponse{}, err
	}

	if err := s.redisServer.SetSession(c, session); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": req.SessionID,
			"error":      err.Error(),
		}).Error("Failed to store session after advance")
		return verification.AdvanceResponse{}, err
	}

	s.broadcastHub.Publish(session.Snapshot())

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": req.SessionID,
		"step":       session.Step,
	}).Info("Wizard advanced")

	return verification.AdvanceResponse{
		SessionID: req.SessionID,
		Passed:    true,
		Step:      session.Step,
	}, nil
}

func (s *wizardDomainImpl) Retreat(c context.Context, req verification.RetreatRequest) (verification.RetreatResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	session, err := s.loadSession(c, req.SessionID)
	if err != nil {
		return verification.RetreatResponse{}, err
	}

	// No validation and no broadcast on the way back.
	if session.Step > entity.StepPersonal {
		session.Step--
		session.UpdatedAt = time.Now()

		if err := s.redisServer.SetSession(c, session); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": req.SessionID,
				"error":      err.Error(),
			}).Error("Failed to store session after retreat")
			return verification.RetreatResponse{}, err
		}
	}

	return verification.RetreatResponse{
		SessionID: req.SessionID,
		Step:      session.Step,
	}, nil
}

func (s *wizardDomainImpl) Finalize(c context.Context, req verification.FinalizeRequest) (verification.FinalizeResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	if _, loaded := s.inflight.LoadOrStore(req.SessionID, struct{}{}); loaded {
		return verification.FinalizeResponse{}, verification.ErrSubmissionInFlight
	}
	defer s.inflight.Delete(req.SessionID)

	session, err := s.loadSession(c, req.SessionID)
	if err != nil {
		return verification.FinalizeResponse{}, err
	}

	// A session that has not advanced through the text steps cannot settle.
	if session.Step < entity.StepVoice {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": req.SessionID,
			"step":       session.Step,
		}).Warn("Finalize before reaching the voice step")
		return verification.FinalizeResponse{}, verification.ErrStepNotReached
	}

	if !(session.HumanVoice && session.MatchingVoice) {
		s.log.WithFields(logrus.Fields{
			"request_id":     requestID,
			"session_id":     req.SessionID,
			"human_voice":    session.HumanVoice,
			"matching_voice": session.MatchingVoice,
		}).Warn("Finalize failed voice predicate")

		// The session stays alive so the user can retry the capture.
		return verification.FinalizeResponse{
			SessionID: req.SessionID,
			Result:    verification.ResultFailure,
		}, nil
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return verification.FinalizeResponse{}, err
	}

	if err := repo.Records.UpsertRecord(c, recordFromSession(session, true)); err != nil {
		return verification.FinalizeResponse{}, err
	}

	s.broadcastHub.Publish(session.Snapshot())

	if err := s.redisServer.DeleteSession(c, req.SessionID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": req.SessionID,
			"error":      err.Error(),
		}).Error("Failed to clear completed session")
	}

	if adminEmail := os.Getenv("ADMIN_NOTIFY_EMAIL"); adminEmail != "" {
		if err := s.smtpMailer.SendVerificationComplete(adminEmail, req.SessionID); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": req.SessionID,
				"error":      err.Error(),
			}).Error("Failed to send completion mail")
		}
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": req.SessionID,
	}).Info("Verification finalized")

	return verification.FinalizeResponse{
		SessionID: req.SessionID,
		Result:    verification.ResultSuccess,
	}, nil
}

func (s *wizardDomainImpl) RecordVoiceResult(c context.Context, sessionID string, score entity.VoiceScore) error {
	return s.recordCaptureResult(c, sessionID, func(session *entity.VerificationSession) {
		session.HumanVoice = score.IsHuman
		session.MatchingVoice = score.IsMatch
	})
}

func (s *wizardDomainImpl) RecordFaceResult(c context.Context, sessionID string, matched bool) error {
	return s.recordCaptureResult(c, sessionID, func(session *entity.VerificationSession) {
		session.MatchingFace = matched
	})
}

func (s *wizardDomainImpl) recordCaptureResult(c context.Context, sessionID string, apply func(*entity.VerificationSession)) error {
	requestID := contextPkg.GetRequestID(c)

	session, err := s.loadSession(c, sessionID)
	if err != nil {
		return err
	}

	apply(&session)
	session.UpdatedAt = time.Now()

	if err := s.redisServer.SetSession(c, session); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": sessionID,
			"error":      err.Error(),
		}).Error("Failed to store session after capture result")
		return err
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}

	if err := repo.Records.UpsertRecord(c, recordFromSession(session, false)); err != nil {
		return err
	}

	s.broadcastHub.Publish(session.Snapshot())

	return nil
}

// recordFromSession copies only validated field values; the persisted record
// encodes validity as presence.
func recordFromSession(session entity.VerificationSession, completed bool) entity.VerificationRecord {
	record := entity.VerificationRecord{
		SessionID:     session.ID,
		AccountID:     session.AccountID,
		HumanVoice:    session.HumanVoice,
		MatchingVoice: session.MatchingVoice,
		MatchingFace:  session.MatchingFace,
		Completed:     completed,
		CreatedAt:     session.CreatedAt,
		UpdatedAt:     session.UpdatedAt,
	}

	if session.Validity[entity.FieldFirstName] == entity.ValidityValid {
		record.FirstName = session.FirstName
	}
	if session.Validity[entity.FieldMiddleInitial] == entity.ValidityValid {
		record.MiddleInitial = session.MiddleInitial
	}
	if session.Validity[entity.FieldLastName] == entity.ValidityValid {
		record.LastName = session.LastName
	}
	if session.Validity[entity.FieldLastFourDigits] == entity.ValidityValid {
		record.LastFourDigits = session.LastFourDigits
	}
	if session.Validity[entity.FieldZipCode] == entity.ValidityValid {
		record.ZipCode = session.ZipCode
	}

	return record
}
