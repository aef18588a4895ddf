package service

import (
	"context"
	"math"
	"slices"

	"github.com/google/uuid"

	"studentbook/internal/models"
)

const (
	MinRating = 0
	MaxRating = 100
)

// RecordsService serves owner-scoped CRUD over the full student collection,
// which is held in memory and rewritten to the store after every change.
// Owner-local indexes are resolved against the collection at call time.
type RecordsService struct {
	store  RecordStore
	all    []models.Student
	loaded bool
}

func NewRecordsService(store RecordStore) *RecordsService {
	return &RecordsService{store: store}
}

// Load reads the full collection from the store, replacing what is in memory.
func (s *RecordsService) Load(ctx context.Context) error {
	all, err := s.store.Load(ctx)
	if err != nil {
		return dataErr("load records", -1, err)
	}
	for i := range all {
		if all[i].ID == "" {
			all[i].ID = uuid.NewString()
		}
	}
	s.all = all
	s.loaded = true
	return nil
}

func (s *RecordsService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.Load(ctx)
}

// positions returns the indexes into the full collection of owner's records,
// in storage order.
func (s *RecordsService) positions(owner string) []int {
	var out []int
	for i, st := range s.all {
		if st.Owner == owner {
			out = append(out, i)
		}
	}
	return out
}

func (s *RecordsService) List(ctx context.Context, session models.Session) ([]models.Student, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := []models.Student{}
	for _, i := range s.positions(session.Username) {
		out = append(out, s.all[i])
	}
	return out, nil
}

func (s *RecordsService) Add(ctx context.Context, session models.Session, in models.StudentInput) (models.Student, error) {
	if err := validateRating(in.Rating); err != nil {
		return models.Student{}, dataErr("add record", -1, err)
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return models.Student{}, err
	}
	st := models.Student{
		ID:       uuid.NewString(),
		FullName: in.FullName,
		Group:    in.Group,
		Email:    in.Email,
		Rating:   in.Rating,
		Owner:    session.Username,
	}
	next := append(slices.Clip(s.all), st)
	if err := s.commit(ctx, next); err != nil {
		return models.Student{}, dataErr("add record", -1, err)
	}
	return st, nil
}

func (s *RecordsService) DeleteAt(ctx context.Context, session models.Session, index int) error {
	pos, err := s.resolve(ctx, "delete record", session, index)
	if err != nil {
		return err
	}
	next := slices.Delete(slices.Clone(s.all), pos, pos+1)
	if err := s.commit(ctx, next); err != nil {
		return dataErr("delete record", index, err)
	}
	return nil
}

func (s *RecordsService) UpdateAt(ctx context.Context, session models.Session, index int, in models.StudentInput) (models.Student, error) {
	pos, err := s.resolve(ctx, "update record", session, index)
	if err != nil {
		return models.Student{}, err
	}
	if err := validateRating(in.Rating); err != nil {
		return models.Student{}, dataErr("update record", index, err)
	}
	next := slices.Clone(s.all)
	st := &next[pos]
	st.FullName = in.FullName
	st.Group = in.Group
	st.Email = in.Email
	st.Rating = in.Rating
	if err := s.commit(ctx, next); err != nil {
		return models.Student{}, dataErr("update record", index, err)
	}
	return next[pos], nil
}

// DeleteOwner removes every record belonging to owner and reports how many
// were removed. Nothing is written when the owner has no records.
func (s *RecordsService) DeleteOwner(ctx context.Context, owner string) (int, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return 0, err
	}
	next := slices.DeleteFunc(slices.Clone(s.all), func(st models.Student) bool { return st.Owner == owner })
	removed := len(s.all) - len(next)
	if removed == 0 {
		return 0, nil
	}
	if err := s.commit(ctx, next); err != nil {
		return 0, dataErr("delete owner records", -1, err)
	}
	return removed, nil
}

func (s *RecordsService) resolve(ctx context.Context, op string, session models.Session, index int) (int, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return -1, err
	}
	view := s.positions(session.Username)
	if index < 0 || index >= len(view) {
		return -1, dataErr(op, index, ErrIndexOutOfRange)
	}
	return view[index], nil
}

// commit persists next and adopts it only when the save succeeded.
func (s *RecordsService) commit(ctx context.Context, next []models.Student) error {
	if err := s.store.Save(ctx, next); err != nil {
		return err
	}
	s.all = next
	return nil
}

func validateRating(r float64) error {
	if math.IsNaN(r) || r < MinRating || r > MaxRating {
		return ErrInvalidRating
	}
	return nil
}
