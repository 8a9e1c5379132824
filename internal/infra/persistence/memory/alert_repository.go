package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"agrinet/internal/domain/entity"
	"agrinet/internal/domain/repository"

	"github.com/google/uuid"
)

type alertRepository struct {
	mu sync.RWMutex
	// byTarget keeps alerts grouped per recipient in insertion order.
	byTarget map[string][]*entity.Alert
	byID     map[uuid.UUID]*entity.Alert
}

// NewAlertRepository creates an in-memory alert repository.
func NewAlertRepository() repository.AlertRepository {
	return &alertRepository{
		byTarget: make(map[string][]*entity.Alert),
		byID:     make(map[uuid.UUID]*entity.Alert),
	}
}

func (repo *alertRepository) CreateAlerts(_ context.Context, alerts []*entity.Alert) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, alert := range alerts {
		stored := cloneAlert(alert)
		repo.byTarget[stored.TargetFarmerID] = append(repo.byTarget[stored.TargetFarmerID], stored)
		repo.byID[stored.ID] = stored
	}

	return nil
}

func (repo *alertRepository) FindAlertsByTarget(_ context.Context, farmerID string, includeRead bool) ([]*entity.Alert, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	alerts := make([]*entity.Alert, 0, len(repo.byTarget[farmerID]))
	for _, alert := range repo.byTarget[farmerID] {
		if alert.Dismissed {
			continue
		}
		if !includeRead && alert.Read {
			continue
		}
		alerts = append(alerts, cloneAlert(alert))
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Priority != alerts[j].Priority {
			return alerts[i].Priority < alerts[j].Priority
		}

		return alerts[i].CreatedAt.Before(alerts[j].CreatedAt)
	})

	return alerts, nil
}

func (repo *alertRepository) MarkAlertRead(_ context.Context, alertID uuid.UUID, farmerID string, readAt time.Time) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	alert, ok := repo.byID[alertID]
	if !ok || alert.TargetFarmerID != farmerID {
		return false, repository.ErrAlertNotFound
	}

	if alert.Read {
		return false, nil
	}

	alert.Read = true
	alert.ReadAt = &readAt

	return true, nil
}

func (repo *alertRepository) DismissAlert(_ context.Context, alertID uuid.UUID, farmerID string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	alert, ok := repo.byID[alertID]
	if !ok || alert.TargetFarmerID != farmerID {
		return false, repository.ErrAlertNotFound
	}

	if alert.Dismissed {
		return false, nil
	}

	alert.Dismissed = true

	return true, nil
}

func (repo *alertRepository) CountAlerts(_ context.Context) (int64, int64, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var total, unread int64
	for _, alert := range repo.byID {
		if alert.Dismissed {
			continue
		}
		total++
		if !alert.Read {
			unread++
		}
	}

	return total, unread, nil
}

func cloneAlert(alert *entity.Alert) *entity.Alert {
	cloned := *alert
	cloned.Recommendations = slices.Clone(alert.Recommendations)
	if alert.ReadAt != nil {
		readAt := *alert.ReadAt
		cloned.ReadAt = &readAt
	}

	return &cloned
}
