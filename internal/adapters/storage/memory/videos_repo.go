package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"memocha/internal/domain/videos"
)

type videoRepo struct {
	mu   sync.RWMutex
	byID map[string]videos.Video
}

func NewVideoRepo() videos.Repository {
	return &videoRepo{
		byID: make(map[string]videos.Video),
	}
}

func (r *videoRepo) Create(ctx context.Context, v videos.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("video id required")
	}
	if _, exists := r.byID[v.ID]; exists {
		return errors.New("video already exists")
	}
	r.byID[v.ID] = v
	return nil
}

func (r *videoRepo) Update(ctx context.Context, v videos.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("video id required")
	}
	if _, exists := r.byID[v.ID]; !exists {
		return ErrNotFound
	}
	r.byID[v.ID] = v
	return nil
}

func (r *videoRepo) GetByID(ctx context.Context, id string) (videos.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return videos.Video{}, ErrNotFound
	}
	return v, nil
}

func (r *videoRepo) ListByPatient(ctx context.Context, patientID string, from, to *time.Time) ([]videos.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]videos.Video, 0)
	for _, v := range r.byID {
		if v.PatientID != patientID {
			continue
		}
		if from != nil && v.RecordedAt.Before(*from) {
			continue
		}
		if to != nil && v.RecordedAt.After(*to) {
			continue
		}
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})

	return out, nil
}

func (r *videoRepo) ListInRange(ctx context.Context, patientID, prescriptionID string, from, to time.Time) ([]videos.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]videos.Video, 0)
	for _, v := range r.byID {
		if v.PatientID != patientID || v.PrescriptionID != prescriptionID {
			continue
		}
		// Rango inclusivo en ambos extremos.
		if v.RecordedAt.Before(from) || v.RecordedAt.After(to) {
			continue
		}
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})

	return out, nil
}

func (r *videoRepo) ListPending(ctx context.Context, patientID string) ([]videos.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]videos.Video, 0)
	for _, v := range r.byID {
		if v.PatientID != patientID || v.Status != videos.StatusPending {
			continue
		}
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].RecordedAt.Before(out[j].RecordedAt)
	})

	return out, nil
}
