package biometricService

import (
	"VerifID/internal/api/biometric"
	"VerifID/internal/entity"
	"VerifID/pkg/log"
	scoringPkg "VerifID/pkg/scoring"
	"VerifID/pkg/utils"
	"bytes"
	"context"
	"errors"
	"math"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"
)

type mockScoring struct {
	scoreVoiceFn  func(sample []byte) (*entity.VoiceScore, error)
	extractFaceFn func(image []byte) ([]float64, error)
	referenceFn   func() ([]float64, error)
}

func (m *mockScoring) ScoreVoiceSample(sample []byte) (*entity.VoiceScore, error) {
	return m.scoreVoiceFn(sample)
}

func (m *mockScoring) ExtractFaceDescriptor(image []byte) ([]float64, error) {
	return m.extractFaceFn(image)
}

func (m *mockScoring) ReferenceDescriptor() ([]float64, error) {
	return m.referenceFn()
}

func (m *mockScoring) IsConnected(kind scoringPkg.ScoringKind) bool { return true }
func (m *mockScoring) Reconnect(kind scoringPkg.ScoringKind) error  { return nil }
func (m *mockScoring) CloseConnections()                            {}

type mockS3 struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (m *mockS3) UploadFile(file *multipart.FileHeader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	url := "https://bucket.s3.amazonaws.com/captures/" + file.Filename
	m.uploaded = append(m.uploaded, url)
	return url, nil
}

func (m *mockS3) PresignUrl(fileUrl string) (string, error) { return fileUrl, nil }

func (m *mockS3) DeleteFile(fileUrl string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, fileUrl)
	return nil
}

type mockRecorder struct {
	mu          sync.Mutex
	voiceScores map[string]entity.VoiceScore
	faceMatches map[string]bool
}

func newMockRecorder() *mockRecorder {
	return &mockRecorder{
		voiceScores: make(map[string]entity.VoiceScore),
		faceMatches: make(map[string]bool),
	}
}

func (m *mockRecorder) RecordVoiceResult(c context.Context, sessionID string, score entity.VoiceScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voiceScores[sessionID] = score
	return nil
}

func (m *mockRecorder) RecordFaceResult(c context.Context, sessionID string, matched bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faceMatches[sessionID] = matched
	return nil
}

func captureFile(t *testing.T, field, filename, contentType string, payload []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File[field][0]
}

// shiftedDescriptor yields a 128-dim descriptor whose euclidean distance to
// the zero vector is exactly d.
func shiftedDescriptor(d float64) []float64 {
	desc := make([]float64, 128)
	per := d / math.Sqrt(128)
	for i := range desc {
		desc[i] = per
	}
	return desc
}

func TestEuclideanDistance(t *testing.T) {
	zero := make([]float64, 128)

	got, err := euclideanDistance(shiftedDescriptor(0.45), zero)
	if err != nil {
		t.Fatalf("euclideanDistance: %v", err)
	}
	if math.Abs(got-0.45) > 1e-9 {
		t.Errorf("distance = %v, want 0.45", got)
	}

	if _, err := euclideanDistance(zero, make([]float64, 64)); !errors.Is(err, biometric.ErrDescriptorMismatch) {
		t.Errorf("dim mismatch error = %v", err)
	}
	if _, err := euclideanDistance(nil, zero); !errors.Is(err, biometric.ErrDescriptorMismatch) {
		t.Errorf("empty descriptor error = %v", err)
	}
}

func TestVerifyFaceThreshold(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	zero := make([]float64, 128)

	// The cutoff is a strict inequality, so the verdict for each fixture is
	// derived from the distance the reconstructed descriptor actually yields.
	// The reconstruction is not exact around the cutoff itself.
	tests := []struct {
		name     string
		distance float64
	}{
		{"close match", 0.45},
		{"clear miss", 0.75},
		{"at the threshold", 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := shiftedDescriptor(tt.distance)
			dist, err := euclideanDistance(desc, zero)
			if err != nil {
				t.Fatalf("fixture distance: %v", err)
			}
			wantMatch := dist < FaceMatchThreshold

			recorder := newMockRecorder()
			scoring := &mockScoring{
				referenceFn: func() ([]float64, error) { return zero, nil },
				extractFaceFn: func(image []byte) ([]float64, error) {
					return desc, nil
				},
			}

			svc := New(log.NewLogger(), scoring, &mockS3{}, utils.New(), recorder)

			file := captureFile(t, "image", "frame.jpg", "image/jpeg", []byte("jpeg-bytes"))
			res, err := svc.VerifyFace(context.Background(), "sess-1", file)
			if err != nil {
				t.Fatalf("VerifyFace: %v", err)
			}
			if res.Match != wantMatch {
				t.Errorf("match = %v at distance %v, want %v", res.Match, dist, wantMatch)
			}
			if recorded, ok := recorder.faceMatches["sess-1"]; !ok || recorded != wantMatch {
				t.Errorf("recorded match = %v (present=%v), want %v", recorded, ok, wantMatch)
			}
		})
	}
}

func TestVerifyFaceNoFace(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	recorder := newMockRecorder()
	scoring := &mockScoring{
		referenceFn:   func() ([]float64, error) { return make([]float64, 128), nil },
		extractFaceFn: func(image []byte) ([]float64, error) { return nil, nil },
	}

	svc := New(log.NewLogger(), scoring, &mockS3{}, utils.New(), recorder)

	file := captureFile(t, "image", "frame.jpg", "image/jpeg", []byte("jpeg-bytes"))
	_, err := svc.VerifyFace(context.Background(), "sess-1", file)
	if !errors.Is(err, biometric.ErrNoFaceDetected) {
		t.Fatalf("no-face error = %v, want %v", err, biometric.ErrNoFaceDetected)
	}
	if len(recorder.faceMatches) != 0 {
		t.Error("no-face frame must not record a result")
	}
}

func TestVerifyFaceDetectorFailure(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	recorder := newMockRecorder()
	scoring := &mockScoring{
		referenceFn: func() ([]float64, error) { return make([]float64, 128), nil },
		extractFaceFn: func(image []byte) ([]float64, error) {
			return nil, errors.New("connection reset")
		},
	}

	svc := New(log.NewLogger(), scoring, &mockS3{}, utils.New(), recorder)

	file := captureFile(t, "image", "frame.jpg", "image/jpeg", []byte("jpeg-bytes"))
	_, err := svc.VerifyFace(context.Background(), "sess-1", file)
	if !errors.Is(err, biometric.ErrScoringUnavailable) {
		t.Fatalf("detector failure error = %v, want %v", err, biometric.ErrScoringUnavailable)
	}
	if len(recorder.faceMatches) != 0 {
		t.Error("detector failure must never record a non-match")
	}
}

func TestVerifyFaceRejectsNonImage(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	svc := New(log.NewLogger(), &mockScoring{}, &mockS3{}, utils.New(), newMockRecorder())

	file := captureFile(t, "image", "frame.txt", "text/plain", []byte("not an image"))
	_, err := svc.VerifyFace(context.Background(), "sess-1", file)
	if !errors.Is(err, biometric.ErrInvalidImageFile) {
		t.Fatalf("non-image error = %v, want %v", err, biometric.ErrInvalidImageFile)
	}
}

func TestVerifyFaceDeletesStagedSample(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	s3Mock := &mockS3{}
	scoring := &mockScoring{
		referenceFn:   func() ([]float64, error) { return make([]float64, 128), nil },
		extractFaceFn: func(image []byte) ([]float64, error) { return shiftedDescriptor(0.3), nil },
	}

	svc := New(log.NewLogger(), scoring, s3Mock, utils.New(), newMockRecorder())

	file := captureFile(t, "image", "frame.jpg", "image/jpeg", []byte("jpeg-bytes"))
	if _, err := svc.VerifyFace(context.Background(), "sess-1", file); err != nil {
		t.Fatalf("VerifyFace: %v", err)
	}

	if len(s3Mock.uploaded) != 1 || len(s3Mock.deleted) != 1 {
		t.Fatalf("staging lifecycle: uploaded=%v deleted=%v", s3Mock.uploaded, s3Mock.deleted)
	}
	if s3Mock.uploaded[0] != s3Mock.deleted[0] {
		t.Error("deleted a different object than was staged")
	}
}
