package verificationService

import (
	"VerifID/internal/api/verification"
	"VerifID/internal/entity"
	contextPkg "VerifID/pkg/context"
	"context"
	"math"

	"github.com/sirupsen/logrus"
)

func completionPercent(snapshot entity.Snapshot) int {
	return int(math.Round(100 * float64(snapshot.TrueFieldCount()) / float64(entity.SnapshotFieldCount)))
}

func (s *dashboardDomainImpl) LatestSnapshot(c context.Context) (verification.DashboardResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return verification.DashboardResponse{}, err
	}

	record, err := repo.Records.GetLatest(c)
	if err != nil {
		return verification.DashboardResponse{}, err
	}

	snapshot := record.Snapshot()
	return verification.DashboardResponse{
		Snapshot:          snapshot,
		CompletionPercent: completionPercent(snapshot),
	}, nil
}

func (s *dashboardDomainImpl) SessionSnapshot(c context.Context, sessionID string) (verification.DashboardResponse, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return verification.DashboardResponse{}, err
	}

	record, err := repo.Records.GetBySessionID(c, sessionID)
	if err != nil {
		return verification.DashboardResponse{}, err
	}

	snapshot := record.Snapshot()
	return verification.DashboardResponse{
		Snapshot:          snapshot,
		CompletionPercent: completionPercent(snapshot),
	}, nil
}
