package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNewEvent(t *testing.T) {
	// Arrange
	name := "Go Conference 2026"
	description := "年次カンファレンス"
	venue := "東京国際フォーラム"
	startAt := time.Now().Add(30 * 24 * time.Hour)
	endAt := startAt.Add(8 * time.Hour)
	capacity := intPtr(200)

	// Act
	ev := NewEvent(name, description, venue, startAt, endAt, capacity)

	// Assert
	assert.Equal(t, name, ev.Name)
	assert.Equal(t, description, ev.Description)
	assert.Equal(t, venue, ev.Venue)
	assert.Equal(t, StatusDraft, ev.Status)
	assert.Equal(t, 200, *ev.Capacity)
	assert.Equal(t, 0, ev.Version)
	assert.NotZero(t, ev.CreatedAt)
}

func TestEvent_Validate(t *testing.T) {
	startAt := time.Now()
	endAt := startAt.Add(2 * time.Hour)

	tests := []struct {
		name        string
		event       *Event
		expectedErr error
	}{
		{
			name:        "有効なイベント",
			event:       &Event{Name: "勉強会", Capacity: intPtr(50), StartAt: startAt, EndAt: endAt},
			expectedErr: nil,
		},
		{
			name:        "定員なしも有効",
			event:       &Event{Name: "勉強会", Capacity: nil, StartAt: startAt, EndAt: endAt},
			expectedErr: nil,
		},
		{
			name:        "イベント名が空",
			event:       &Event{Name: "", Capacity: intPtr(50), StartAt: startAt, EndAt: endAt},
			expectedErr: ErrEventNameRequired,
		},
		{
			name:        "定員が0",
			event:       &Event{Name: "勉強会", Capacity: intPtr(0), StartAt: startAt, EndAt: endAt},
			expectedErr: ErrInvalidCapacity,
		},
		{
			name:        "定員が負",
			event:       &Event{Name: "勉強会", Capacity: intPtr(-1), StartAt: startAt, EndAt: endAt},
			expectedErr: ErrInvalidCapacity,
		},
		{
			name:        "終了時刻が開始時刻より前",
			event:       &Event{Name: "勉強会", Capacity: intPtr(50), StartAt: endAt, EndAt: startAt},
			expectedErr: ErrInvalidEventTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestEvent_HasCapacityFor(t *testing.T) {
	tests := []struct {
		name           string
		capacity       *int
		confirmedCount int
		want           bool
	}{
		{"定員なしは常に余裕あり", nil, 100000, true},
		{"定員未満", intPtr(10), 9, true},
		{"定員ちょうど", intPtr(10), 10, false},
		{"定員超過", intPtr(10), 11, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &Event{Capacity: tt.capacity, Status: StatusOpen}
			assert.Equal(t, tt.want, ev.HasCapacityFor(tt.confirmedCount))
		})
	}
}

func TestEvent_EvaluateAfterRegistration(t *testing.T) {
	tests := []struct {
		name           string
		capacity       *int
		status         Status
		confirmedCount int
		wantChanged    bool
		wantStatus     Status
	}{
		{"定員なしは何もしない", nil, StatusOpen, 100, false, StatusOpen},
		{"定員未満は open のまま", intPtr(10), StatusOpen, 5, false, StatusOpen},
		{"定員到達で締め切り", intPtr(10), StatusOpen, 10, true, StatusRegistrationClosed},
		{"定員超過でも締め切り", intPtr(10), StatusOpen, 11, true, StatusRegistrationClosed},
		{"既に締め切り済みなら冪等", intPtr(10), StatusRegistrationClosed, 10, false, StatusRegistrationClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &Event{Capacity: tt.capacity, Status: tt.status}
			changed := ev.EvaluateAfterRegistration(tt.confirmedCount)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantStatus, ev.Status)
		})
	}
}

func TestEvent_EvaluateAfterCancellation(t *testing.T) {
	tests := []struct {
		name           string
		capacity       *int
		status         Status
		confirmedCount int
		wantChanged    bool
		wantStatus     Status
	}{
		{"定員締め切りから空きが出たら再開", intPtr(10), StatusRegistrationClosed, 9, true, StatusOpen},
		{"定員なしで締め切られていたら再開", nil, StatusRegistrationClosed, 100, true, StatusOpen},
		{"まだ定員ちょうどなら締め切りのまま", intPtr(10), StatusRegistrationClosed, 10, false, StatusRegistrationClosed},
		{"open のイベントは対象外", intPtr(10), StatusOpen, 5, false, StatusOpen},
		{"中止済みイベントは再開しない", intPtr(10), StatusCancelled, 5, false, StatusCancelled},
		{"終了済みイベントは再開しない", intPtr(10), StatusFinished, 5, false, StatusFinished},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &Event{Capacity: tt.capacity, Status: tt.status}
			changed := ev.EvaluateAfterCancellation(tt.confirmedCount)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, tt.wantStatus, ev.Status)
		})
	}
}

func TestEvent_Publish(t *testing.T) {
	t.Run("下書きから公開できる", func(t *testing.T) {
		ev := &Event{Status: StatusDraft}
		require.NoError(t, ev.Publish())
		assert.Equal(t, StatusOpen, ev.Status)
	})

	t.Run("公開済みは再公開できない", func(t *testing.T) {
		ev := &Event{Status: StatusOpen}
		assert.ErrorIs(t, ev.Publish(), ErrEventNotDraft)
	})
}

func TestEvent_CloseRegistration(t *testing.T) {
	t.Run("受付中のイベントを手動で締め切れる", func(t *testing.T) {
		ev := &Event{Status: StatusOpen}
		require.NoError(t, ev.CloseRegistration())
		assert.Equal(t, StatusRegistrationClosed, ev.Status)
	})

	t.Run("進行中のイベントも締め切れる", func(t *testing.T) {
		ev := &Event{Status: StatusInProgress}
		require.NoError(t, ev.CloseRegistration())
		assert.Equal(t, StatusRegistrationClosed, ev.Status)
	})

	t.Run("下書きは締め切れない", func(t *testing.T) {
		ev := &Event{Status: StatusDraft}
		assert.ErrorIs(t, ev.CloseRegistration(), ErrEventNotOpen)
	})
}

func TestEvent_CancelAndFinish(t *testing.T) {
	t.Run("受付中のイベントを中止できる", func(t *testing.T) {
		ev := &Event{Status: StatusOpen}
		require.NoError(t, ev.Cancel())
		assert.Equal(t, StatusCancelled, ev.Status)
	})

	t.Run("終了済みイベントは中止できない", func(t *testing.T) {
		ev := &Event{Status: StatusFinished}
		assert.ErrorIs(t, ev.Cancel(), ErrEventAlreadyFinished)
	})

	t.Run("中止済みイベントは終了できない", func(t *testing.T) {
		ev := &Event{Status: StatusCancelled}
		assert.ErrorIs(t, ev.Finish(), ErrEventAlreadyCancelled)
	})

	t.Run("進行中のイベントを終了できる", func(t *testing.T) {
		ev := &Event{Status: StatusInProgress}
		require.NoError(t, ev.Finish())
		assert.Equal(t, StatusFinished, ev.Status)
	})
}
