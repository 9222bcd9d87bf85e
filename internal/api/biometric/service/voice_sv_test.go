package biometricService

import (
	"VerifID/internal/api/biometric"
	"VerifID/internal/entity"
	"VerifID/pkg/log"
	"VerifID/pkg/utils"
	"context"
	"errors"
	"testing"
)

func TestVerifyVoice(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	recorder := newMockRecorder()
	scoring := &mockScoring{
		scoreVoiceFn: func(sample []byte) (*entity.VoiceScore, error) {
			return &entity.VoiceScore{IsHuman: true, IsMatch: true}, nil
		},
	}
	s3Mock := &mockS3{}

	svc := New(log.NewLogger(), scoring, s3Mock, utils.New(), recorder)

	file := captureFile(t, "audio", "sample.wav", "audio/wav", []byte("wav-bytes"))
	res, err := svc.VerifyVoice(context.Background(), "sess-1", file)
	if err != nil {
		t.Fatalf("VerifyVoice: %v", err)
	}
	if !res.IsHuman || !res.IsMatch {
		t.Errorf("response = %+v", res)
	}

	score, ok := recorder.voiceScores["sess-1"]
	if !ok || !score.IsHuman || !score.IsMatch {
		t.Errorf("recorded score = %+v (present=%v)", score, ok)
	}

	if len(s3Mock.uploaded) != 1 || len(s3Mock.deleted) != 1 {
		t.Errorf("staging lifecycle: uploaded=%v deleted=%v", s3Mock.uploaded, s3Mock.deleted)
	}
}

func TestVerifyVoiceScoringFailure(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	recorder := newMockRecorder()
	scoring := &mockScoring{
		scoreVoiceFn: func(sample []byte) (*entity.VoiceScore, error) {
			return nil, errors.New("read deadline exceeded")
		},
	}
	s3Mock := &mockS3{}

	svc := New(log.NewLogger(), scoring, s3Mock, utils.New(), recorder)

	file := captureFile(t, "audio", "sample.wav", "audio/wav", []byte("wav-bytes"))
	_, err := svc.VerifyVoice(context.Background(), "sess-1", file)
	if !errors.Is(err, biometric.ErrScoringUnavailable) {
		t.Fatalf("scoring failure error = %v, want %v", err, biometric.ErrScoringUnavailable)
	}

	if len(recorder.voiceScores) != 0 {
		t.Error("scoring failure must not record a partial result")
	}
	if len(s3Mock.deleted) != 1 {
		t.Error("staged sample must be deleted even when scoring fails")
	}
}

func TestVerifyVoiceRejectsNonAudio(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	svc := New(log.NewLogger(), &mockScoring{}, &mockS3{}, utils.New(), newMockRecorder())

	file := captureFile(t, "audio", "sample.txt", "text/plain", []byte("not audio"))
	_, err := svc.VerifyVoice(context.Background(), "sess-1", file)
	if !errors.Is(err, biometric.ErrInvalidAudioFile) {
		t.Fatalf("non-audio error = %v, want %v", err, biometric.ErrInvalidAudioFile)
	}
}
