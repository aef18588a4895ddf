package service

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"studentbook/internal/models"
	"studentbook/internal/repository"
)

var (
	alice = models.Session{Username: "alice"}
	admin = models.Session{Username: "admin"}
)

func student(name, group string, rating float64) models.StudentInput {
	return models.StudentInput{FullName: name, Group: group, Email: name + "@x.com", Rating: rating}
}

func TestOwnerIsolation(t *testing.T) {
	svcs := newFileServices(t)
	ctx := context.Background()
	if err := svcs.Records.Load(ctx); err != nil {
		t.Fatal(err)
	}
	st, err := svcs.Records.Add(ctx, alice, models.StudentInput{FullName: "Bob Lee", Group: "G1", Email: "bob@x.com", Rating: 85})
	if err != nil {
		t.Fatal(err)
	}
	if st.ID == "" || st.Owner != "alice" {
		t.Fatalf("bad record: %+v", st)
	}
	mine, err := svcs.Records.List(ctx, alice)
	if err != nil || len(mine) != 1 {
		t.Fatalf("alice list: %v %+v", err, mine)
	}
	theirs, err := svcs.Records.List(ctx, admin)
	if err != nil || len(theirs) != 0 {
		t.Fatalf("admin list: %v %+v", err, theirs)
	}

	if err := svcs.Records.DeleteAt(ctx, alice, 1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := svcs.Records.DeleteAt(ctx, admin, 0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("admin must not reach alice's record, got %v", err)
	}

	if _, err := svcs.Records.UpdateAt(ctx, alice, 0, models.StudentInput{FullName: "Bob Lee", Group: "G2", Email: "bob@x.com", Rating: 90}); err != nil {
		t.Fatal(err)
	}
	mine, _ = svcs.Records.List(ctx, alice)
	if mine[0].Group != "G2" || mine[0].Rating != 90 || mine[0].Owner != "alice" || mine[0].ID != st.ID {
		t.Fatalf("update not applied: %+v", mine[0])
	}
}

func TestPersistedAcrossReload(t *testing.T) {
	store := &memRecords{}
	ctx := context.Background()
	s := NewRecordsService(store)
	if _, err := s.Add(ctx, alice, student("ann", "G1", 50)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Add(ctx, admin, student("max", "G2", 60)); err != nil {
		t.Fatal(err)
	}

	reloaded := NewRecordsService(store)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ := reloaded.List(ctx, alice)
	if len(got) != 1 || got[0].FullName != "ann" {
		t.Fatalf("got %+v", got)
	}
}

func TestIndexesAreOwnerLocal(t *testing.T) {
	store := &memRecords{all: []models.Student{
		{ID: "1", FullName: "a1", Owner: "alice"},
		{ID: "2", FullName: "x1", Owner: "admin"},
		{ID: "3", FullName: "a2", Owner: "alice"},
		{ID: "4", FullName: "x2", Owner: "admin"},
		{ID: "5", FullName: "a3", Owner: "alice"},
	}}
	ctx := context.Background()
	s := NewRecordsService(store)
	if err := s.DeleteAt(ctx, alice, 1); err != nil {
		t.Fatal(err)
	}
	ids := func() []string {
		var out []string
		for _, st := range store.all {
			out = append(out, st.ID)
		}
		return out
	}
	if got := ids(); !slices.Equal(got, []string{"1", "2", "4", "5"}) {
		t.Fatalf("wrong record removed: %v", got)
	}
	if _, err := s.UpdateAt(ctx, admin, 1, student("changed", "G", 1)); err != nil {
		t.Fatal(err)
	}
	if store.all[2].FullName != "changed" || store.all[2].Owner != "admin" {
		t.Fatalf("wrong record updated: %+v", store.all)
	}
}

func TestOutOfRangeLeavesCollectionUnchanged(t *testing.T) {
	store := &memRecords{}
	ctx := context.Background()
	s := NewRecordsService(store)
	for i := 0; i < 3; i++ {
		if _, err := s.Add(ctx, alice, student("s", "G", float64(i))); err != nil {
			t.Fatal(err)
		}
	}
	before := slices.Clone(store.all)
	for _, idx := range []int{-1, 3, 100} {
		err := s.DeleteAt(ctx, alice, idx)
		var de *DataOperationError
		if !errors.Is(err, ErrIndexOutOfRange) || !errors.As(err, &de) || de.Index != idx {
			t.Fatalf("DeleteAt(%d): %v", idx, err)
		}
		if _, err := s.UpdateAt(ctx, alice, idx, student("x", "G", 1000)); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("UpdateAt(%d): %v", idx, err)
		}
	}
	if !slices.Equal(before, store.all) {
		t.Fatalf("collection changed")
	}
}

func TestRatingBounds(t *testing.T) {
	ctx := context.Background()
	s := NewRecordsService(&memRecords{})
	for _, r := range []float64{-0.1, 100.01, math.NaN(), math.Inf(1)} {
		if _, err := s.Add(ctx, alice, student("s", "G", r)); !errors.Is(err, ErrInvalidRating) {
			t.Fatalf("Add rating %v: %v", r, err)
		}
	}
	for _, r := range []float64{0, 100} {
		if _, err := s.Add(ctx, alice, student("s", "G", r)); err != nil {
			t.Fatalf("Add rating %v: %v", r, err)
		}
	}
	if _, err := s.UpdateAt(ctx, alice, 0, student("s", "G", 101)); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("UpdateAt must check rating too: %v", err)
	}
}

func TestFailedSaveKeepsMemory(t *testing.T) {
	store := &memRecords{}
	ctx := context.Background()
	s := NewRecordsService(store)
	if _, err := s.Add(ctx, alice, student("keep", "G", 1)); err != nil {
		t.Fatal(err)
	}
	store.fail = true
	if _, err := s.Add(ctx, alice, student("lost", "G", 1)); !errors.Is(err, repository.ErrStoreIO) {
		t.Fatalf("expected ErrStoreIO, got %v", err)
	}
	if err := s.DeleteAt(ctx, alice, 0); !errors.Is(err, repository.ErrStoreIO) {
		t.Fatalf("expected ErrStoreIO, got %v", err)
	}
	if _, err := s.UpdateAt(ctx, alice, 0, student("changed", "G", 2)); !errors.Is(err, repository.ErrStoreIO) {
		t.Fatalf("expected ErrStoreIO, got %v", err)
	}
	got, _ := s.List(ctx, alice)
	if len(got) != 1 || got[0].FullName != "keep" || got[0].Rating != 1 {
		t.Fatalf("memory diverged from store: %+v", got)
	}
}

func TestLoadFailure(t *testing.T) {
	s := NewRecordsService(&memRecords{loadErr: repository.ErrDeserialization})
	err := s.Load(context.Background())
	var de *DataOperationError
	if !errors.Is(err, repository.ErrDeserialization) || !errors.As(err, &de) {
		t.Fatalf("got %v", err)
	}
}

func TestDeleteOwner(t *testing.T) {
	store := &memRecords{}
	ctx := context.Background()
	s := NewRecordsService(store)
	for _, sess := range []models.Session{alice, admin, alice} {
		if _, err := s.Add(ctx, sess, student("s", "G", 1)); err != nil {
			t.Fatal(err)
		}
	}
	n, err := s.DeleteOwner(ctx, "alice")
	if err != nil || n != 2 {
		t.Fatalf("DeleteOwner: %d %v", n, err)
	}
	if len(store.all) != 1 || store.all[0].Owner != "admin" {
		t.Fatalf("got %+v", store.all)
	}
	if n, err := s.DeleteOwner(ctx, "nobody"); err != nil || n != 0 {
		t.Fatalf("DeleteOwner(nobody): %d %v", n, err)
	}
}

func TestLoadBackfillsIDs(t *testing.T) {
	s := NewRecordsService(&memRecords{all: []models.Student{{FullName: "old", Owner: "alice"}}})
	got, err := s.List(context.Background(), alice)
	if err != nil || len(got) != 1 || got[0].ID == "" {
		t.Fatalf("got %+v %v", got, err)
	}
}
