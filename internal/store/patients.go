package store

import (
	"context"       // Context for cancellation
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error matching
	"fmt"           // Error formatting
	"sort"          // Stable ordering

	"hospital_insights/internal/domain" // Importing domain models
	"hospital_insights/internal/utils"  // Document helpers

	"github.com/google/uuid"       // Entry IDs
	"github.com/redis/go-redis/v9" // Redis client
)

const (
	patientDocPrefix  = "patients:doc:"
	patientsByAgeKey  = "patients:by_age"
	patientCodePrefix = "patients:by_code:"
)

// PatientStore keeps patient documents in Redis with two secondary
// indexes: a sorted set by age and a set of ids per external code.
type PatientStore struct {
	h Handle
}

// NewPatientStore binds the store to a document store handle.
func NewPatientStore(h Handle) *PatientStore {
	return &PatientStore{h: h}
}

func patientKey(id string) string { return patientDocPrefix + id }

func patientCodeKey(code string) string { return patientCodePrefix + code }

// Create assigns a new identifier and stores the record.
func (s *PatientStore) Create(ctx context.Context, p domain.Patient) (string, error) {
	p.ID = uuid.NewString()
	if _, err := s.h.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return writePatient(ctx, pipe, p, "")
	}); err != nil {
		return "", unavailable("create patient", err)
	}
	return p.ID, nil
}

// FindByID returns ErrNotFound for malformed and unknown identifiers alike.
func (s *PatientStore) FindByID(ctx context.Context, id string) (*domain.Patient, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("patient %q: %w", id, domain.ErrNotFound)
	}
	var p domain.Patient
	found, err := utils.GetDocument(ctx, s.h, patientKey(parsed.String()), &p)
	if err != nil {
		return nil, unavailable("find patient", err)
	}
	if !found {
		return nil, fmt.Errorf("patient %q: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

// Update replaces every mutable field of an existing record.
func (s *PatientStore) Update(ctx context.Context, id string, p domain.Patient) error {
	old, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	p.ID = old.ID
	if _, err := s.h.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return writePatient(ctx, pipe, p, old.PatientID)
	}); err != nil {
		return unavailable("update patient", err)
	}
	return nil
}

// Delete removes the record. Unknown or malformed ids are a no-op.
func (s *PatientStore) Delete(ctx context.Context, id string) error {
	old, err := s.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if _, err := s.h.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, patientKey(old.ID))
		pipe.ZRem(ctx, patientsByAgeKey, old.ID)
		if old.PatientID != "" {
			pipe.SRem(ctx, patientCodeKey(old.PatientID), old.ID)
		}
		return nil
	}); err != nil {
		return unavailable("delete patient", err)
	}
	return nil
}

// List returns every record, or only those with the given external code,
// ordered by ascending age.
func (s *PatientStore) List(ctx context.Context, code string) ([]domain.Patient, error) {
	var (
		ids []string
		err error
	)
	if code == "" {
		ids, err = s.h.ZRange(ctx, patientsByAgeKey, 0, -1).Result()
	} else {
		ids, err = s.h.SMembers(ctx, patientCodeKey(code)).Result()
	}
	if err != nil {
		return nil, unavailable("list patients", err)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = patientKey(id)
	}
	patients := make([]domain.Patient, 0, len(ids))
	if err := utils.GetDocuments(ctx, s.h, keys, func(raw []byte) error {
		var p domain.Patient
		if err := json.Unmarshal(raw, &p); err != nil {
			return err
		}
		patients = append(patients, p)
		return nil
	}); err != nil {
		return nil, unavailable("list patients", err)
	}

	sort.SliceStable(patients, func(i, j int) bool {
		if patients[i].Age != patients[j].Age {
			return patients[i].Age < patients[j].Age
		}
		return patients[i].ID < patients[j].ID
	})
	return patients, nil
}

func writePatient(ctx context.Context, pipe redis.Pipeliner, p domain.Patient, oldCode string) error {
	if err := utils.PutDocument(ctx, pipe, patientKey(p.ID), p); err != nil {
		return err
	}
	pipe.ZAdd(ctx, patientsByAgeKey, redis.Z{Score: float64(p.Age), Member: p.ID})
	if oldCode != "" && oldCode != p.PatientID {
		pipe.SRem(ctx, patientCodeKey(oldCode), p.ID)
	}
	if p.PatientID != "" {
		pipe.SAdd(ctx, patientCodeKey(p.PatientID), p.ID)
	}
	return nil
}
