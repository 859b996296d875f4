package database

import (
	"context"
	"testing"

	"running-page/internal/activity"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Init(); err != nil {
		db.Close()
		t.Fatalf("Failed to init db: %v", err)
	}
	return db
}

func ptr(v float64) *float64 { return &v }

func TestUpsertAndGetActivity(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	a := &activity.Activity{
		RunID:            98765,
		Name:             "Morning Run",
		Distance:         5012.3,
		MovingTime:       "0:25:10",
		Type:             "Run",
		StartDate:        "2024-05-01 06:00:00",
		StartDateLocal:   "2024-05-01 08:00:00",
		AverageSpeed:     3.32,
		AverageHeartrate: ptr(148.5),
	}

	if err := db.UpsertActivity(ctx, a); err != nil {
		t.Fatalf("Failed to upsert activity: %v", err)
	}

	retrieved, err := db.GetActivity(ctx, 98765)
	if err != nil {
		t.Fatalf("Failed to get activity: %v", err)
	}
	if retrieved == nil {
		t.Fatal("Expected activity, got nil")
	}

	if retrieved.Name != "Morning Run" {
		t.Errorf("Expected name 'Morning Run', got %s", retrieved.Name)
	}
	if retrieved.AverageHeartrate == nil || *retrieved.AverageHeartrate != 148.5 {
		t.Errorf("Expected heart rate 148.5, got %v", retrieved.AverageHeartrate)
	}
	if retrieved.ElevationGain != nil {
		t.Errorf("Expected NULL elevation gain to stay nil, got %v", *retrieved.ElevationGain)
	}

	// Update existing activity via upsert
	a.Name = "Morning Run Updated"
	a.ElevationGain = ptr(42)
	if err := db.UpsertActivity(ctx, a); err != nil {
		t.Fatalf("Failed to upsert activity: %v", err)
	}

	updated, err := db.GetActivity(ctx, 98765)
	if err != nil {
		t.Fatalf("Failed to get activity: %v", err)
	}
	if updated.Name != "Morning Run Updated" {
		t.Errorf("Expected updated name, got %s", updated.Name)
	}
	if updated.ElevationGain == nil || *updated.ElevationGain != 42 {
		t.Errorf("Expected elevation gain 42, got %v", updated.ElevationGain)
	}
}

func TestGetActivityNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	a, err := db.GetActivity(context.Background(), 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if a != nil {
		t.Errorf("Expected nil activity, got %+v", a)
	}
}

func TestListActivitiesNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	dates := map[int64]string{
		1: "2024-01-03 07:00:00",
		2: "2024-01-01 07:00:00",
		3: "2024-01-02 07:00:00",
	}
	for id, date := range dates {
		if err := db.UpsertActivity(ctx, &activity.Activity{RunID: id, StartDateLocal: date}); err != nil {
			t.Fatalf("Failed to create activity %d: %v", id, err)
		}
	}

	all, err := db.ListActivities(ctx)
	if err != nil {
		t.Fatalf("Failed to list activities: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("Expected 3 activities, got %d", len(all))
	}
	for i, want := range []int64{1, 3, 2} {
		if all[i].RunID != want {
			t.Errorf("Expected run %d at position %d, got %d", want, i, all[i].RunID)
		}
	}

	n, err := db.CountActivities(ctx)
	if err != nil {
		t.Fatalf("Failed to count activities: %v", err)
	}
	if n != 3 {
		t.Errorf("Expected count 3, got %d", n)
	}
}

func TestDeleteActivity(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if err := db.UpsertActivity(ctx, &activity.Activity{RunID: 7}); err != nil {
		t.Fatalf("Failed to create activity: %v", err)
	}
	if err := db.DeleteActivity(ctx, 7); err != nil {
		t.Fatalf("Failed to delete activity: %v", err)
	}
	if err := db.DeleteActivity(ctx, 7); err != nil {
		t.Errorf("Expected deleting a missing activity to succeed, got %v", err)
	}

	a, err := db.GetActivity(ctx, 7)
	if err != nil {
		t.Fatalf("Failed to get activity: %v", err)
	}
	if a != nil {
		t.Error("Expected activity to be gone")
	}
}

func TestHealth(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Expected healthy database, got %v", err)
	}

	db.Close()
	if err := db.Health(context.Background()); err == nil {
		t.Error("Expected error after close")
	}
}
