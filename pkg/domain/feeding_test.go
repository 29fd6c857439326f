package domain

import (
	"errors"
	"testing"
	"time"
)

func TestFeedingRecord_Validate(t *testing.T) {
	valid := func() FeedingRecord {
		return FeedingRecord{
			AmountGrams:    40,
			FoodType:       "乾糧",
			Calories:       150,
			FeederNickname: "媽媽",
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *FeedingRecord)
		wantErr bool
	}{
		{name: "valid", mutate: func(r *FeedingRecord) {}, wantErr: false},
		{name: "zero amount", mutate: func(r *FeedingRecord) { r.AmountGrams = 0 }, wantErr: true},
		{name: "negative calories", mutate: func(r *FeedingRecord) { r.Calories = -1 }, wantErr: true},
		{name: "blank food type", mutate: func(r *FeedingRecord) { r.FoodType = "  " }, wantErr: true},
		{name: "missing feeder", mutate: func(r *FeedingRecord) { r.FeederNickname = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRecord) {
				t.Errorf("expected ErrInvalidRecord, got %v", err)
			}
		})
	}
}

func TestFeedingRecord_CanEditAt(t *testing.T) {
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	r := FeedingRecord{Timestamp: created}

	if !r.CanEditAt(created.Add(14 * time.Minute)) {
		t.Error("record should be editable after 14 minutes")
	}
	if r.CanEditAt(created.Add(EditWindow)) {
		t.Error("record should not be editable once the window has passed")
	}
	if (&FeedingRecord{}).CanEditAt(created) {
		t.Error("record without timestamp should not be editable")
	}
}
